// Package api serves the account HTTP endpoints. Handlers decode and
// validate JSON payloads, call the account service, and translate service
// errors into status codes and safe messages. The shared subpackage holds
// the response and request helpers; middleware holds trace and request
// logging middleware.
package api
