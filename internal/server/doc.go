// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a development responder for the chat client.
//
// It serves the same contract the client posts to, so the TUI can be run end
// to end without the production backend.
//
// # Endpoints
//
//   - POST    /chat    - {"query": "..."} -> {"response": "..."}
//   - OPTIONS /chat    - CORS preflight, {"status": "ok"}
//   - GET     /health  - Health check
//   - GET     /metrics - Prometheus metrics
//
// # Pipeline
//
// Each query is sanitized, looked up in the cache under "query:<sanitized>",
// answered on a miss and stored back while the cache has room. Failures are
// reported as 400 {"error": "..."}.
//
// # Usage
//
//	srv, err := server.New(server.Options{Config: cfg.Server, Logger: log})
//	if err != nil {
//		return err
//	}
//	return srv.ListenAndServe(ctx)
package server
