// Package http builds and executes authenticated calls against a REST API
// and parses the raw transport output into a Response.
//
// The pipeline has four parts:
//   - Resource: verb, path and ordered Params of one call
//   - URLBuilder: turns a Resource plus host parts and auth parameters into a
//     URL and, for POST and PUT, a URL-encoded body
//   - Request: merges default and caller Options, picks a response Format and
//     runs the call through a Transport obtained from a Factory
//   - Response: splits the header and body blob, exposes status, headers and
//     the decoded body
//
// Basic Usage:
//
//	res, err := http.NewResource("GET", "/tracks", http.MustParams("q", "ambient"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	builder := http.NewURLBuilder(res, http.WithAuthParams(http.MustParams("client_id", id)))
//	req := http.NewRequest(res, builder, nil)
//	req.SetOptions(http.Options{http.OptTimeout: 10 * time.Second})
//
//	resp := req.Execute(context.Background())
//	if err := resp.Err(); err != nil {
//	    log.Fatalf("transport: %v", err)
//	}
//	fmt.Println(resp.Status(), resp.BodyRaw())
//
// Errors as Data:
//
// Execute never returns an error. Connection, DNS, TLS and timeout failures
// produce a Response whose TransportErrorCode is non-zero; HTTP error
// statuses are ordinary responses. Construction errors (unknown verb, bad
// path) are returned immediately and wrap ErrInvalidArgument.
//
// Thread Safety:
//
// Request and Resource values are single-owner. Give each goroutine its own.
package http
