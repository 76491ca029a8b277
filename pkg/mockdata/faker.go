package mockdata

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	fakeFirstNames = []string{"Minjun", "Seoyeon", "Jiho", "Hayoon", "John", "Jane", "Alice", "Bob"}
	fakeLastNames  = []string{"Kim", "Lee", "Park", "Choi", "Smith", "Doe", "Johnson", "Brown"}
	fakeDomains    = []string{"example.com", "test.com", "mock.io", "demo.org"}
	fakeStreets    = []string{"Main St", "Oak Ave", "Park Blvd", "Cedar Ln", "Teheran-ro", "Gangnam-daero"}
	fakeCities     = []string{"Seoul", "Busan", "New York", "Chicago", "Seattle", "Boston"}
	fakeCompanies  = []string{"Acme Corp", "Globex Inc", "Initech", "Umbrella Corp", "Stark Industries"}
	fakeWords      = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "theta", "lambda", "sigma", "omega"}
	fakeSentences  = []string{
		"The quick brown fox jumps over the lazy dog.",
		"Lorem ipsum dolor sit amet.",
		"Mock data generated for preview.",
		"Everything is working as expected.",
	}
	fakeColors     = []string{"Crimson", "Azure", "Emerald", "Ivory", "Coral", "Indigo", "Amber", "Teal"}
	fakeCurrencies = []string{"KRW", "USD", "EUR", "GBP", "JPY", "CNY", "CAD", "AUD"}
	fakeMIMETypes  = []string{"application/json", "application/xml", "text/plain", "text/html", "image/png", "image/jpeg"}
	fakeProducts   = []string{"Chair", "Table", "Lamp", "Keyboard", "Mouse", "Backpack", "Watch", "Mug"}
	fakeJobTitles  = []string{"Software Engineer", "Data Analyst", "Product Manager", "Designer", "Architect"}
	fakeURLPaths   = []string{"docs", "about", "blog", "products", "help"}
)

// fakers maps fakerType names to generators.
var fakers = map[string]func(g *Generator) string{
	"uuid":      func(g *Generator) string { return g.uuid() },
	"boolean":   func(g *Generator) string { return strconv.FormatBool(g.intN(2) == 1) },
	"firstName": func(g *Generator) string { return g.pick(fakeFirstNames) },
	"lastName":  func(g *Generator) string { return g.pick(fakeLastNames) },
	"name": func(g *Generator) string {
		return g.pick(fakeFirstNames) + " " + g.pick(fakeLastNames)
	},
	"email": func(g *Generator) string {
		return strings.ToLower(g.pick(fakeFirstNames)) + strconv.Itoa(g.intN(1000)) + "@" + g.pick(fakeDomains)
	},
	"phone": func(g *Generator) string {
		return fmt.Sprintf("010-%04d-%04d", g.intN(10000), g.intN(10000))
	},
	"address": func(g *Generator) string {
		return fmt.Sprintf("%d %s, %s", g.intN(9999)+1, g.pick(fakeStreets), g.pick(fakeCities))
	},
	"city":     func(g *Generator) string { return g.pick(fakeCities) },
	"company":  func(g *Generator) string { return g.pick(fakeCompanies) },
	"word":     func(g *Generator) string { return g.pick(fakeWords) },
	"sentence": func(g *Generator) string { return g.pick(fakeSentences) },
	"url": func(g *Generator) string {
		return "https://" + g.pick(fakeDomains) + "/" + g.pick(fakeURLPaths)
	},
	"ipv4": func(g *Generator) string {
		return fmt.Sprintf("%d.%d.%d.%d", g.intN(223)+1, g.intN(256), g.intN(256), g.intN(254)+1)
	},
	"color":         func(g *Generator) string { return g.pick(fakeColors) },
	"currency_code": func(g *Generator) string { return g.pick(fakeCurrencies) },
	"mime_type":     func(g *Generator) string { return g.pick(fakeMIMETypes) },
	"product_name":  func(g *Generator) string { return g.pick(fakeColors) + " " + g.pick(fakeProducts) },
	"job_title":     func(g *Generator) string { return g.pick(fakeJobTitles) },
	"price": func(g *Generator) string {
		return fmt.Sprintf("%d.%02d", g.intN(1000), g.intN(100))
	},
	"date": func(g *Generator) string { return g.pastTime().Format("2006-01-02") },
}

// FakerTypes lists the supported fakerType names in sorted order.
func FakerTypes() []string {
	names := make([]string, 0, len(fakers))
	for name := range fakers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// fake returns faker data for kind, or "" for an unknown kind.
func (g *Generator) fake(kind string) string {
	fn, ok := fakers[kind]
	if !ok {
		return ""
	}
	return fn(g)
}

func (g *Generator) pick(values []string) string {
	return values[g.intN(len(values))]
}
