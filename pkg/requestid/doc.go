// Package requestid assigns a unique identifier to every HTTP request
// and propagates it through context, response headers, and log records.
//
// Mount Middleware on the router, then wire LoggerExtractor into the
// logger factory so every record emitted during a request carries its
// request_id attribute.
package requestid
