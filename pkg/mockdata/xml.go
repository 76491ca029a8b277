package mockdata

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// DefaultXMLRoot is the root element used when none is given.
const DefaultXMLRoot = "response"

// xmlItemTag names the elements produced for slice entries.
const xmlItemTag = "item"

// IsXML reports whether contentType names an XML media type.
func IsXML(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct == "application/xml" || ct == "text/xml" || strings.HasSuffix(ct, "+xml")
}

// RenderXML renders generated data under a root element. Map keys become
// child elements in sorted order and slice entries become <item> elements.
func RenderXML(value any, root string) ([]byte, error) {
	if root == "" {
		root = DefaultXMLRoot
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	appendXML(doc.CreateElement(root), value)
	doc.Indent(2)
	return doc.WriteToBytes()
}

func appendXML(el *etree.Element, value any) {
	switch v := value.(type) {
	case nil:
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			appendXML(el.CreateElement(xmlTag(k)), v[k])
		}
	case []any:
		for _, item := range v {
			appendXML(el.CreateElement(xmlItemTag), item)
		}
	case string:
		el.SetText(v)
	case float64:
		el.SetText(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		el.SetText(fmt.Sprint(v))
	}
}

// xmlTag replaces characters that are not valid in element names.
func xmlTag(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		valid := r == '_' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r > 0x7f
		if !valid || (i == 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9'))) {
			b.WriteByte('_')
			if valid {
				b.WriteRune(r)
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DecodeXML converts an XML document into the same map shape a JSON body
// decodes to. Leaf elements become strings and repeated tags become slices.
func DecodeXML(data []byte) (map[string]any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("invalid XML: empty document")
	}
	return xmlToMap(root), nil
}

func xmlToMap(el *etree.Element) map[string]any {
	out := make(map[string]any)
	for _, child := range el.ChildElements() {
		var v any
		if len(child.ChildElements()) == 0 {
			v = strings.TrimSpace(child.Text())
		} else {
			v = xmlToMap(child)
		}
		switch existing := out[child.Tag].(type) {
		case nil:
			out[child.Tag] = v
		case []any:
			out[child.Tag] = append(existing, v)
		default:
			out[child.Tag] = []any{existing, v}
		}
	}
	return out
}
