// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Error Mapping

WriteError maps the domain error taxonomy onto HTTP status codes in one
place:

	ValidationError       -> 400 (with the full violations list)
	AuthError             -> 401
	AuthorizationError    -> 403
	NotFoundError         -> 404
	DuplicateVoteError    -> 409
	ElectionStateError    -> 409
	IndeterminateTieError -> 409
	anything else         -> 500 (logged, message not leaked)

# Claims Extraction

RequireClaims verifies the gateway claim envelope on a request:

	claims, err := middleware.RequireClaims(r, cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil { ... }

# CORS

Enable cross-origin requests for frontend access:

	server := http.Server{Handler: middleware.CORS(mux)}
*/
package middleware
