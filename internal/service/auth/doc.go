// Package auth authenticates API callers.
//
// Administrators log in with e-mail and password and receive HMAC-SHA256
// signed access and refresh tokens. A bearer token resolves to a Principal
// carrying the permission mask of the user's role; the configured API key
// resolves to a service Principal holding every permission.
package auth
