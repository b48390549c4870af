// Package httpclient is the HTTP adapter between alinfo and the AlInfo portal API.
//
// A Client is bound to one resource family's base path (for example
// "/applications/app") on the backend URL. Send issues a single request with
// the caller's bearer token and returns the raw response body. There is no
// retry and no client-side timeout; the caller's context is the only way to
// abandon a request.
//
// Request bodies are built with JSON for text-only payloads or Multipart when
// a file is attached. Failures are normalized into *APIError (the server
// answered with a non-2xx status) or *TransportError (no response), and
// Message reduces any of them to the string a view can display.
package httpclient
