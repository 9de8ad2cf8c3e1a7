package wire

import (
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"
)

// Header is a single response header field.
type Header struct {
	Name  string
	Value string
}

// Response is the protocol-level outcome of one invocation: a status code,
// ordered header fields and a body made of byte chunks.
type Response struct {
	Status  int
	Headers []Header
	Body    [][]byte
}

// New returns a response with a single body chunk.
// Content-Type and Content-Length are set when contentType is not empty.
func New(status int, contentType string, body []byte) Response {
	resp := Response{Status: status}
	if contentType != "" {
		resp.Headers = []Header{
			{Name: "Content-Type", Value: contentType},
			{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		}
	}
	if body != nil {
		resp.Body = [][]byte{body}
	}
	return resp
}

// Text returns a text/plain response with an exact Content-Length.
func Text(status int, body string) Response {
	return New(status, "text/plain; charset=utf-8", []byte(body))
}

// NotFound is the response for requests that never reach the hosted function.
func NotFound() Response {
	return Text(http.StatusNotFound, "Not found")
}

// Get returns the first value of the named header, case-insensitive.
func (r Response) Get(name string) string {
	name = http.CanonicalHeaderKey(name)
	for _, h := range r.Headers {
		if http.CanonicalHeaderKey(h.Name) == name {
			return h.Value
		}
	}
	return ""
}

// Len returns the total body length in bytes.
func (r Response) Len() int {
	n := 0
	for _, chunk := range r.Body {
		n += len(chunk)
	}
	return n
}

// Bytes concatenates the body chunks.
func (r Response) Bytes() []byte {
	out := make([]byte, 0, r.Len())
	for _, chunk := range r.Body {
		out = append(out, chunk...)
	}
	return out
}

// Write renders the response onto w in header order.
func (r Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for _, field := range r.Headers {
		h.Add(field.Name, field.Value)
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	for _, chunk := range r.Body {
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}

// ReadFrom builds a Response from a recorded status, header set and body.
// Used to finalize framework-native responses into the wire shape.
func ReadFrom(status int, header http.Header, body io.Reader) (Response, error) {
	resp := Response{Status: status}
	for _, name := range slices.Sorted(maps.Keys(header)) {
		for _, v := range header[name] {
			resp.Headers = append(resp.Headers, Header{Name: name, Value: v})
		}
	}
	if body != nil {
		b, err := io.ReadAll(body)
		if err != nil {
			return Response{}, err
		}
		if len(b) > 0 {
			resp.Body = [][]byte{b}
		}
	}
	return resp, nil
}
