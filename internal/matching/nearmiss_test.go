package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoutes = []Route{
	{Method: "GET", Path: "/users"},
	{Method: "post", Path: "/users"},
	{Method: "GET", Path: "/users/{id}"},
	{Method: "DELETE", Path: "/users/{id}"},
	{Method: "GET", Path: "/orders/{id}"},
}

func TestAllowedMethods(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"GET", "POST"}, AllowedMethods(testRoutes, "/users"))
	assert.Equal(t, []string{"DELETE", "GET"}, AllowedMethods(testRoutes, "/users/7"))
	assert.Empty(t, AllowedMethods(testRoutes, "/nothing"))
}

func TestNearMisses(t *testing.T) {
	t.Parallel()

	misses := NearMisses(testRoutes, "PUT", "/users")
	require.Len(t, misses, 2)
	for _, m := range misses {
		assert.Equal(t, ReasonMethod, m.Reason)
	}

	misses = NearMisses(testRoutes, "GET", "/user/7")
	require.Len(t, misses, 2)
	assert.Equal(t, "/users/{id}", misses[0].Path)
	assert.Equal(t, "/orders/{id}", misses[1].Path)
	assert.Equal(t, ReasonSegment, misses[0].Reason)

	assert.Empty(t, NearMisses(testRoutes, "GET", "/a/b/c/d"))
}
