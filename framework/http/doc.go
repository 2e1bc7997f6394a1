// Package http provides JSON request and response helpers and the container
// diagnostics API built on them.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	var body struct {
//	    ID string `json:"id"`
//	}
//	if err := req.Bind(&body); err != nil { ... }
//
//	id := req.Query("id", "")
//	req.IsJSON() // Content-Type: application/json
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(data)             // 200 {"data": ...}
//	res.Error(409, "conflict")    // {"message": "conflict"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.Unprocessable("bad id")   // 422
//	res.ServerError()             // 500 {"message": "Server Error."}
//
// # Diagnostics
//
// Diagnostics serves what a container knows, mounted on a routing.Router:
//
//	gohttp.NewDiagnostics(c, logger).Routes(router, "/_container")
//
//	GET  /_container/services
//	GET  /_container/services/lookup?id=greeter
//	POST /_container/services/resolve   {"id": "greeter"}
//	GET  /_container/aliases
//
// Resolution failures are mapped to statuses by StatusFor: unknown ids are
// 404, unresolvable graphs 422, anything else 500.
package http
