package serverapp

import (
	"net/http"
)

// RouteDoc describes one registered route for the admin listing.
type RouteDoc struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Summary string `json:"summary,omitempty"`
}

type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	return out
}

// handle registers h on mux and records the route for /_/admin/routes.json.
func handle(mux *http.ServeMux, rr *RouteRegistry, method, pattern, summary string, h http.Handler) {
	rr.Add(RouteDoc{Method: method, Pattern: pattern, Summary: summary})
	mux.Handle(pattern, h)
}
