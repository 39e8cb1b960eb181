// Package server exposes a service.Service over HTTP using gin.
//
// Request and response bodies are JSON. Errors are returned as
// {"error": "..."} with a status derived from the error taxonomy in core.
package server
