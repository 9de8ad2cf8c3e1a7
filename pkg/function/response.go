package function

import (
	"encoding/json"
	"net/http"
)

// jsonResponse renders an arbitrary value as JSON with a custom status.
type jsonResponse struct {
	status int
	value  any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.value)
}

// JSON returns a Renderer that encodes v with the given status.
// Use it for non-map values or non-200 statuses; a returned map is already
// encoded as JSON with status 200.
//
// Example:
//
//	fn := function.HTTP("create", func(r *http.Request) (any, error) {
//		return function.JSON(http.StatusCreated, item), nil
//	})
func JSON(status int, v any) Renderer {
	return jsonResponse{status: status, value: v}
}

// emptyResponse represents a response with only a status code.
type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty returns a Renderer writing 204 No Content.
func Empty() Renderer {
	return emptyResponse{status: http.StatusNoContent}
}

// EmptyWithStatus returns a Renderer writing only the given status.
func EmptyWithStatus(status int) Renderer {
	return emptyResponse{status: status}
}

type redirectResponse struct {
	url    string
	status int
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, rr.url, rr.status)
	return nil
}

// Redirect returns a Renderer issuing a redirect. Non-3xx statuses fall back
// to 302 Found.
func Redirect(url string, status int) Renderer {
	if status < 300 || status > 399 {
		status = http.StatusFound
	}
	return redirectResponse{url: url, status: status}
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(w http.ResponseWriter, r *http.Request) error

func (f RendererFunc) Render(w http.ResponseWriter, r *http.Request) error { return f(w, r) }
