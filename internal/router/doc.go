// Package router selects which stored bearer token an invocation gets.
//
// Users who work across multiple accounts keep one credential file per
// account owner next to the default token. The router infers the target
// owner from the invocation (explicit repo flag, API-style path argument,
// or the working directory's origin remote) and routes to the matching
// file, validating its permissions before the token is ever read.
//
// Owner names feed directly into a filesystem path, so they are held to
// a restrictive charset before any path is constructed.
package router
