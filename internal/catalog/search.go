package catalog

import "strings"

// Match is one catalog fact that contains a search query.
type Match struct {
	Kind   string `json:"kind"`   // "product" or "industry"
	Entity string `json:"entity"` // entity name
	Field  string `json:"field"`  // "name", "description", "feature", "benefit", ...
	Text   string `json:"text"`
}

// Search returns every fact containing query, case-insensitively,
// in catalog order. An empty query matches nothing.
func (c *Catalog) Search(query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Match
	add := func(kind, entity, field, text string) {
		if strings.Contains(strings.ToLower(text), q) {
			out = append(out, Match{Kind: kind, Entity: entity, Field: field, Text: text})
		}
	}

	for _, p := range c.products {
		add("product", p.Name, "name", p.Name)
		add("product", p.Name, "description", p.Description)
		for _, f := range p.Features {
			add("product", p.Name, "feature", f.Name+": "+f.Description)
		}
		for _, b := range p.Benefits {
			add("product", p.Name, "benefit", b)
		}
		for _, u := range p.UseCases {
			add("product", p.Name, "use_case", u)
		}
	}

	for _, ind := range c.industries {
		add("industry", ind.Name, "name", ind.Name)
		add("industry", ind.Name, "description", ind.Description)
		for _, u := range ind.UseCases {
			add("industry", ind.Name, "use_case", u)
		}
		for _, ch := range ind.Challenges {
			add("industry", ind.Name, "challenge", ch)
		}
		for _, s := range ind.Solutions {
			add("industry", ind.Name, "solution", s)
		}
	}

	return out
}
