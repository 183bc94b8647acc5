// Package responsewriter lets middleware observe what a handler wrote.
// net/http gives the outer layers no way to read back the status code or body
// size after the fact, so the logging and metrics middleware wrap the writer
// here and inspect it once the handler returns.
package responsewriter

import "net/http"

// ResponseWriter records the status code and byte count of a response while
// passing every write through unchanged.
type ResponseWriter struct {
	http.ResponseWriter

	status int
	bytes  int
	wrote  bool
}

// Wrap returns a recording wrapper around w. Before any write the recorded
// status is 200, mirroring net/http's implicit WriteHeader.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status code written; later calls are dropped,
// as net/http would reject them anyway.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.wrote {
		return
	}
	w.status = code
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

// Write forwards the body bytes and accumulates their count. A write without
// a preceding WriteHeader records the implicit 200.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// StatusCode returns the recorded status code.
func (w *ResponseWriter) StatusCode() int {
	return w.status
}

// BytesWritten returns how many body bytes the handler wrote.
func (w *ResponseWriter) BytesWritten() int {
	return w.bytes
}

// Unwrap exposes the wrapped writer so http.ResponseController keeps working.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
