package definition

import (
	"fmt"
	"strings"
)

// EmptyListText is shown when a definition has no endpoints.
const EmptyListText = `No endpoints yet. Click "Add" to create one.`

// NoDescription is shown for endpoints without a description.
const NoDescription = "No description"

// fallbackMethodColor is used for methods without a dedicated badge color.
const fallbackMethodColor = "#999"

var methodColors = map[string]string{
	"GET":    "#61affe",
	"POST":   "#49cc90",
	"PUT":    "#fca130",
	"DELETE": "#f93e3e",
	"PATCH":  "#50e3c2",
}

// MethodColor returns the badge color for method, matched case-insensitively.
func MethodColor(method string) string {
	if c, ok := methodColors[strings.ToUpper(method)]; ok {
		return c
	}
	return fallbackMethodColor
}

// DisplayDescription returns the description or NoDescription when empty.
func (e *Endpoint) DisplayDescription() string {
	if e.Description == "" {
		return NoDescription
	}
	return e.Description
}

// Remove deletes the endpoint at index, keeping the order of the rest.
func (d *APIDefinition) Remove(index int) (Endpoint, error) {
	if index < 0 || index >= len(d.Endpoints) {
		return Endpoint{}, fmt.Errorf("endpoint index %d out of range [0,%d)", index, len(d.Endpoints))
	}
	removed := d.Endpoints[index]
	d.Endpoints = append(d.Endpoints[:index:index], d.Endpoints[index+1:]...)
	return removed, nil
}

// Add appends ep after normalising its method and path.
func (d *APIDefinition) Add(ep Endpoint) {
	ep.Method = strings.ToUpper(strings.TrimSpace(ep.Method))
	ep.Path = strings.TrimSpace(ep.Path)
	if ep.Responses == nil {
		ep.Responses = []StatusResponse{}
	}
	d.Endpoints = append(d.Endpoints, ep)
}
