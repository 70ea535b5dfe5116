// Package api exposes the ranking pipeline and the profile service over HTTP
// using the chi router.
package api
