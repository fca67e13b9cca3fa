package models

// Feature is a named capability of a product.
type Feature struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Metric is a named headline figure of a product (e.g. "Shipments Handled": "2 Bn+").
type Metric struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Product is a catalog entry for one product.
type Product struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Features    []Feature `json:"features,omitempty" yaml:"features,omitempty"`
	Metrics     []Metric  `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Benefits    []string  `json:"benefits,omitempty" yaml:"benefits,omitempty"`
	UseCases    []string  `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`
}

// Industry is a catalog entry for one served industry.
type Industry struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	UseCases    []string `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`
	Challenges  []string `json:"challenges,omitempty" yaml:"challenges,omitempty"`
	Solutions   []string `json:"solutions,omitempty" yaml:"solutions,omitempty"`
}

// ProductUpdate holds facts about a product discovered on the website.
type ProductUpdate struct {
	Description string
	Features    []Feature
	Metrics     []Metric
	Benefits    []string
	UseCases    []string
}

// IsEmpty reports whether the update carries no facts.
func (u ProductUpdate) IsEmpty() bool {
	return u.Description == "" && len(u.Features) == 0 && len(u.Metrics) == 0 &&
		len(u.Benefits) == 0 && len(u.UseCases) == 0
}

// IndustryUpdate holds facts about an industry discovered on the website.
type IndustryUpdate struct {
	Description string
	UseCases    []string
	Challenges  []string
	Solutions   []string
}

// IsEmpty reports whether the update carries no facts.
func (u IndustryUpdate) IsEmpty() bool {
	return u.Description == "" && len(u.UseCases) == 0 && len(u.Challenges) == 0 &&
		len(u.Solutions) == 0
}
