package engine

import (
	"fmt"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ourohead/ourohead/internal/matching"
	"github.com/ourohead/ourohead/pkg/definition"
)

// route is one servable endpoint with its compiled request schema.
type route struct {
	endpoint definition.Endpoint
	schema   *jsonschema.Schema
}

// routeTable is immutable once built.
type routeTable struct {
	def    *definition.APIDefinition
	routes []*route
}

func buildRoutes(def *definition.APIDefinition) (*routeTable, error) {
	if def == nil {
		def = &definition.APIDefinition{}
	}
	def = def.Clone()
	def.Normalize()

	t := &routeTable{def: def, routes: make([]*route, 0, len(def.Endpoints))}
	for _, ep := range def.Endpoints {
		rt := &route{endpoint: ep}
		if ep.Request != nil && len(ep.Request.Fields) > 0 {
			schema, err := compileRequestSchema(ep.Request)
			if err != nil {
				return nil, fmt.Errorf("endpoint %s: %w", ep.Key(), err)
			}
			rt.schema = schema
		}
		t.routes = append(t.routes, rt)
	}
	return t, nil
}

// match returns the best scoring route for method and path. Ties go to the
// endpoint defined first.
func (t *routeTable) match(method, path string) (*route, map[string]string) {
	var best *route
	bestScore := 0
	for _, rt := range t.routes {
		if !matching.MatchMethod(rt.endpoint.Method, method) {
			continue
		}
		score := matching.MatchPath(rt.endpoint.Path, path)
		if score == 0 {
			continue
		}
		score += matching.ScoreMethod
		if score > bestScore {
			best, bestScore = rt, score
		}
	}
	if best == nil {
		return nil, nil
	}
	return best, matching.PathParams(best.endpoint.Path, path)
}

// lookup matches r, retrying HEAD requests as GET.
func (t *routeTable) lookup(r *http.Request) (*route, map[string]string) {
	rt, params := t.match(r.Method, r.URL.Path)
	if rt == nil && r.Method == http.MethodHead {
		rt, params = t.match(http.MethodGet, r.URL.Path)
	}
	return rt, params
}

func (t *routeTable) matchingRoutes() []matching.Route {
	out := make([]matching.Route, len(t.routes))
	for i, rt := range t.routes {
		out[i] = matching.Route{Method: rt.endpoint.Method, Path: rt.endpoint.Path}
	}
	return out
}
