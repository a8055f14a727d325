// Package api handles incoming HTTP requests, request validation, and response
// formatting. It adapts the credential manager, progress ledger, and activity
// catalog services to JSON over HTTP; routing lives in cmd/server.
//
// Every failure is answered with shared.ErrorResponse, whose code field is one
// of the stable domain.ErrorKind values.
package api
