package routerhelper

import (
	"encoding/json"
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers handlers on an httprouter.Router under a common path prefix.
type RouteGroup struct {
	r      *httprouter.Router
	prefix string
}

func NewRouteGroup(r *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{r: r, prefix: prefix}
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return NewRouteGroup(g.r, path.Join(g.prefix, prefix))
}

func (g *RouteGroup) GET(p string, h httprouter.Handle) {
	g.r.GET(path.Join(g.prefix, p), h)
}

func (g *RouteGroup) POST(p string, h httprouter.Handle) {
	g.r.POST(path.Join(g.prefix, p), h)
}

type Envelope map[string]interface{}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON encodes data with the given status. Extra headers are copied before the header is written.
func WriteJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// WriteError writes {"error": {"code": ..., "message": ...}}.
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, Envelope{"error": ErrorBody{
		Code:    http.StatusText(status),
		Message: message,
	}}, nil)
}
