// Package client issues GET, PUT and POST requests over HTTPS against a
// single configured endpoint and hands back the raw response body.
//
// # Building a Client
//
// A [Client] is built once from a [Config] and never changes afterwards:
//
//	c, err := client.New(client.Config{
//		Name:     "users-api",
//		Endpoint: client.Endpoint{Host: "api.example.com", CA: caPEM},
//		Headers:  map[string]string{"X-Api-Key": "abc"},
//	}, client.WithUserAgent("myapp/1.0"))
//
// # Making Requests
//
// Each call takes a [Content] holding the pre-encoded query string,
// per-call headers and, for PUT and POST, the body:
//
//	body, err := c.Get(ctx, "/users", client.Content{QueryStringParameters: "id=5"})
//
//	body, err = c.Post(ctx, "/items", client.Content{
//		Headers: map[string]string{"Content-Type": "application/json"},
//		Body:    map[string]string{"name": "x"},
//	})
//
// Only 200 OK counts as success. Every other status returns an
// [*UnexpectedStatusError] whose Body holds the raw response text.
// Failures below HTTP wrap [ErrTransport] together with the native error.
//
// # Headers
//
// Config headers and call headers are merged per request. By default the
// call wins a collision; [WithHeaderPrecedence] with [ConfigWins] reverses
// that. Header names are compared case-insensitively. A merged Host header
// sets the request's Host, so a virtual host can sit behind an IP endpoint.
//
// # Bodies
//
// The body is encoded according to the effective Content-Type:
// "application/json" marshals it to JSON, "text/xml" sends strings as-is
// and marshals other values to XML. Byte slices are always sent unchanged;
// strings are too under any other or absent Content-Type. Bools and numbers
// carry nothing to send and are dropped. A structured body with no
// Content-Type fails with [ErrMissingContentType].
package client
