package matching

import (
	"strconv"
	"strings"
)

// MatchPath scores path against pattern. Zero means no match.
func MatchPath(pattern, path string) int {
	if pattern == path {
		return ScorePathExact
	}
	if hasParams(pattern) && matchSegments(pattern, path) {
		return ScorePathNamedParams
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return ScorePathWildcard
		}
	}
	if strings.Contains(pattern, "*") && matchWildcard(pattern, path) {
		return ScorePathWildcard
	}
	return 0
}

// MatchMethod compares methods case-insensitively.
func MatchMethod(expected, actual string) bool {
	return strings.EqualFold(expected, actual)
}

func hasParams(pattern string) bool {
	return strings.Contains(pattern, "{") && strings.Contains(pattern, "}")
}

func isParam(segment string) bool {
	return len(segment) > 2 && segment[0] == '{' && segment[len(segment)-1] == '}'
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// matchSegments matches segment by segment, letting {name} match any value.
func matchSegments(pattern, path string) bool {
	want := splitPath(pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if isParam(seg) {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}

// matchWildcard lets each * match any run of characters.
func matchWildcard(pattern, path string) bool {
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(path, parts[0]) {
		return false
	}
	pos := len(parts[0])
	for i, part := range parts[1:] {
		if part == "" {
			continue
		}
		last := i == len(parts)-2
		if last {
			return strings.HasSuffix(path[pos:], part)
		}
		idx := strings.Index(path[pos:], part)
		if idx < 0 {
			return false
		}
		pos += idx + len(part)
	}
	return true
}

// PathParams extracts {name} parameters and * wildcards from path. Wildcards
// are keyed by their position ("0", "1", ...); a trailing wildcard captures
// the rest of the path.
func PathParams(pattern, path string) map[string]string {
	params := make(map[string]string)
	want := splitPath(pattern)
	got := splitPath(path)

	wildcard := 0
	for i, seg := range want {
		if i >= len(got) {
			break
		}
		switch {
		case isParam(seg):
			params[seg[1:len(seg)-1]] = got[i]
		case seg == "*":
			if i == len(want)-1 {
				params[strconv.Itoa(wildcard)] = strings.Join(got[i:], "/")
			} else {
				params[strconv.Itoa(wildcard)] = got[i]
			}
			wildcard++
		}
	}
	return params
}

// ParamNames lists the {name} parameters declared in pattern, in order.
func ParamNames(pattern string) []string {
	var names []string
	for _, seg := range splitPath(pattern) {
		if isParam(seg) {
			names = append(names, seg[1:len(seg)-1])
		}
	}
	return names
}
