// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotcore API server.

Ballotcore is the election lifecycle and tallying core of the Openelect
voting platform: elections move through a launch-gated, clock-driven
lifecycle, ballots are recorded at most once per voter per question, and
results are tallied by plurality or instant-runoff depending on the
question type.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... GATEWAY_SECRET=... go run main.go

Or with flags:

	go run main.go -p 4000 -t sqlite -d "file:ballotcore.db"

# Configuration

Required settings:

  - GATEWAY_SECRET (--gateway-secret): Secret for gateway claim HMAC

Optional settings:

  - DATABASE_URL (-d): Connection string (default: local SQLite file)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PORT (-p): Server port (default: 4000)
  - POLL_INTERVAL (-poll): Election sweep interval (default: 30s)
  - PRETTY_LOG (-pretty): Colored terminal logging

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (elections, ballots, voting, results, voters)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Claims verification, CORS, logging, JSON helpers
  - models: Domain types, request/response types, error taxonomy
  - election: Derived status and lifecycle actions
  - ballot: Ballot schema construction and validation
  - ledger: At-most-once vote recording
  - tally: Plurality and instant-runoff counting
  - access: Role gates and voter onboarding
  - scheduler: Periodic sweep that freezes finished results
  - auth: Gateway claim envelope signing and verification
  - db: Schema creation and audit log
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
