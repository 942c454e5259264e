// Package auth provides an HTTP client for the remote demo auth service.
//
// Login and Register exchange Credentials for a Session token; FetchUser
// loads a profile. Error bodies of the form {"error": "..."} are surfaced as
// *APIError so the auth store can show the service's own message.
package auth
