// Package errors provides structured, actionable error messages for the
// statekit CLI and configuration layer.
//
// Each error has a unique code (e.g., "E101") that maps to a short message
// and a detailed explanation. Call sites add the specifics:
//
//	err := errors.New("E103").
//	    WithDetail("backend \"dynamo\" is not supported").
//	    WithSuggestion("Set storage.backend to one of: memory, file, redis, sql, s3, null")
//
// Format renders the error for terminal display; Error keeps the compact
// "code: message" form for logs and wrapping.
package errors
