// Package api handles incoming HTTP requests: query parsing, request
// validation and response formatting. Handlers adapt HTTP to the store and
// service layers and map their errors to status codes in one place.
package api
