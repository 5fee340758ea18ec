// Package tracker is the data-access layer for the reading tracker backend.
//
// # Overview
//
// The backend is a small JSON REST API that stores books and reading
// sessions and derives statistics from them. This package wraps it in three
// layers:
//
//   - client.go: Client and Execute, the single request executor
//   - verbs.go: Get/Post/Put/Patch/Delete helpers over Execute
//   - books.go, sessions.go, stats.go, wrapped.go: typed resource clients
//
// errors.go and errbody.go turn every failure into a *Error; params.go builds
// ordered query strings; types.go mirrors the backend's records.
//
// # Client Usage
//
// Build one Client at startup and pass it to whatever needs it:
//
//	client, err := tracker.NewClient(cfg.APIURL,
//		tracker.WithTimeout(cfg.Timeout()),
//		tracker.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//
//	books, err := client.Books().List(ctx)
//	if err != nil {
//		return err
//	}
//
//	year, err := client.Wrapped().Summary(ctx, 2024)
//
// # Request Handling
//
// Every request:
//   - Runs under its own deadline (client default 10s, overridable per call)
//   - Sends Content-Type and Accept application/json, User-Agent margin/0.1
//   - Carries a fresh X-Request-ID (google/uuid), echoed in the log line
//   - Lets caller-supplied headers replace the defaults
//   - Is never retried
//
// A 204 response, or any 2xx response with an empty body, yields a nil result
// and no error. Typed calls decode that as the zero value.
//
// # Query Parameters
//
// Params keeps insertion order and drops nil entries, so optional filters can
// be written unconditionally:
//
//	Params{}.Add("start_date", optionalDate(start)).Add("end_date", optionalDate(end))
//
// # Error Handling
//
// All failures are *Error with a Kind:
//
//   - KindNetwork: no response ("cannot connect to server", status 0);
//     a caller cancellation is reported here as "request cancelled"
//   - KindTimeout: the request deadline fired (status 408)
//   - KindHTTP4xx: the backend rejected the request
//   - KindHTTP5xx: the backend failed, or sent a body that is not JSON
//
// Messages come from the response body's detail, message or error field.
// FastAPI validation lists are flattened to "field: msg; field: msg". A 500
// always reads "internal server error, please try again later", and a bare
// 404 reads "resource not found".
//
// Input validation (package validate) runs before create and update calls.
// A rejected form returns *validate.Error and never reaches the network.
//
// # Deleting Books
//
// The backend refuses to delete a book that still has reading sessions.
// Books.Delete reports that as a *Error with Code CodeBookHasSessions, so
// callers can check IsBookHasSessions instead of matching message text.
//
// # Thread Safety
//
// Client holds only immutable configuration. Resource clients are small
// value types and may be created per call.
package tracker
