// Package server exposes the planner over HTTP using Gin.
//
// # Endpoints
//
//   - GET /plan: computes a plan and returns it as {"data": plan}. Fatal
//     graph defects (cycle, duplicate identity, ambiguous alias) answer
//     409 Conflict with the structured error body.
//   - GET /healthz: service health including the outcome of the last plan.
//   - GET /version: build version information.
//
// # Middleware
//
// Every route runs behind panic recovery, request-ID propagation and
// request logging (server/middleware).
package server
