package matching

import (
	"slices"
	"strings"
)

// Route is the method and path pattern of a candidate endpoint.
type Route struct {
	Method string
	Path   string
}

// NearMiss is a route that almost matched a request.
type NearMiss struct {
	Route  Route  `json:"-"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Near-miss reasons.
const (
	ReasonMethod  = "method mismatch"
	ReasonSegment = "one path segment differs"
)

// AllowedMethods returns the sorted methods of routes whose path matches.
func AllowedMethods(routes []Route, path string) []string {
	var methods []string
	for _, r := range routes {
		if MatchPath(r.Path, path) > 0 {
			m := strings.ToUpper(r.Method)
			if !slices.Contains(methods, m) {
				methods = append(methods, m)
			}
		}
	}
	slices.Sort(methods)
	return methods
}

// NearMisses lists routes that match the path with another method, or match
// the method with exactly one differing literal segment.
func NearMisses(routes []Route, method, path string) []NearMiss {
	var out []NearMiss
	for _, r := range routes {
		pathOK := MatchPath(r.Path, path) > 0
		methodOK := MatchMethod(r.Method, method)
		switch {
		case pathOK && !methodOK:
			out = append(out, NearMiss{Route: r, Method: r.Method, Path: r.Path, Reason: ReasonMethod})
		case !pathOK && methodOK && segmentDistance(r.Path, path) == 1:
			out = append(out, NearMiss{Route: r, Method: r.Method, Path: r.Path, Reason: ReasonSegment})
		}
	}
	return out
}

// segmentDistance counts differing literal segments, or -1 when the segment
// counts differ.
func segmentDistance(pattern, path string) int {
	want := splitPath(pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return -1
	}
	diff := 0
	for i, seg := range want {
		if isParam(seg) || seg == "*" {
			continue
		}
		if seg != got[i] {
			diff++
		}
	}
	return diff
}
