/*
Package cliparse handles configuration from CLI flags and environment
variables.

CLI flags take precedence over environment variables:

	-p / PORT                      server port (default 4000)
	-d / DATABASE_URL              database connection string (default file:ballotcore.db for sqlite; required for postgres)
	-t / DATABASE_TYPE             sqlite or postgres (default sqlite)
	-poll / POLL_INTERVAL          status poll interval (default 30s)
	-pretty / PRETTY_LOG           colored terminal logging
	-gateway-secret / GATEWAY_SECRET  claim-signing secret (required)

The gateway secret is shared with the API gateway that signs claim
envelopes; without it no request can be authenticated.
*/
package cliparse
