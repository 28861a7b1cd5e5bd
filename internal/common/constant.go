// Package common contains shared constants and sentinel errors used across
// authgate components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token
// on requests to protected endpoints.
const AuthorizationHeaderName = "Authorization"
