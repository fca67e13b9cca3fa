package extractor

import (
	"regexp"
	"strings"
)

// Category says which kind of entity a section heading talks about.
type Category int

const (
	CategoryNone Category = iota
	CategoryProduct
	CategoryIndustry
)

func (c Category) String() string {
	switch c {
	case CategoryProduct:
		return "product"
	case CategoryIndustry:
		return "industry"
	default:
		return "none"
	}
}

// Field is the catalog field a section's text is extracted into.
type Field string

const (
	FieldDescription Field = "description"
	FieldFeatures    Field = "features"
	FieldMetrics     Field = "metrics"
	FieldBenefits    Field = "benefits"
	FieldUseCases    Field = "use_cases"
	FieldChallenges  Field = "challenges"
	FieldSolutions   Field = "solutions"
)

// KnownProducts is the allow-list of product names recognised in headings.
// Order matters: the earliest alternative matching at the leftmost position wins.
var KnownProducts = []string{"Libera", "RTMNxt", "Mity", "ElasticRun", "ElasticRun Platform"}

// KnownIndustries is the allow-list of industry names recognised in headings.
var KnownIndustries = []string{"E-Commerce", "Courier, Express, Parcel (CEP)", "Parcels and Posts", "Freight Forwarders"}

type routeRule struct {
	keyword  string
	category Category
}

// routes are tried in order; the first keyword found decides the category.
var routes = []routeRule{
	{"product", CategoryProduct},
	{"platform", CategoryProduct},
	{"industry", CategoryIndustry},
}

type fieldRule struct {
	keyword string
	field   Field
}

var productFields = []fieldRule{
	{"feature", FieldFeatures},
	{"metric", FieldMetrics},
	{"stat", FieldMetrics},
	{"benefit", FieldBenefits},
	{"use case", FieldUseCases},
	{"overview", FieldDescription},
	{"about", FieldDescription},
}

var industryFields = []fieldRule{
	{"use case", FieldUseCases},
	{"challenge", FieldChallenges},
	{"solution", FieldSolutions},
	{"overview", FieldDescription},
	{"about", FieldDescription},
}

var (
	productPattern  = alternation(KnownProducts)
	industryPattern = alternation(KnownIndustries)
)

func alternation(names []string) *regexp.Regexp {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

// Classification is the outcome of evaluating the rule table on one heading.
type Classification struct {
	Category Category
	Entity   string  // canonical allow-list spelling; empty when no name matched
	Fields   []Field // every matching field rule, in rule order
}

// Classify evaluates the routing and field rules against a section heading.
// Keywords match case-insensitively as substrings. A heading without a routing
// keyword is still routed when it names a known product or industry.
func Classify(heading string) Classification {
	lower := strings.ToLower(heading)

	var cls Classification
	for _, r := range routes {
		if strings.Contains(lower, r.keyword) {
			cls.Category = r.category
			break
		}
	}

	switch cls.Category {
	case CategoryProduct:
		cls.Entity = resolve(productPattern, KnownProducts, heading)
	case CategoryIndustry:
		cls.Entity = resolve(industryPattern, KnownIndustries, heading)
	default:
		if name := resolve(productPattern, KnownProducts, heading); name != "" {
			cls.Category, cls.Entity = CategoryProduct, name
		} else if name := resolve(industryPattern, KnownIndustries, heading); name != "" {
			cls.Category, cls.Entity = CategoryIndustry, name
		}
	}

	switch cls.Category {
	case CategoryProduct:
		cls.Fields = matchFields(productFields, lower)
	case CategoryIndustry:
		cls.Fields = matchFields(industryFields, lower)
	}
	return cls
}

func resolve(re *regexp.Regexp, names []string, heading string) string {
	m := re.FindString(heading)
	if m == "" {
		return ""
	}
	for _, n := range names {
		if strings.EqualFold(n, m) {
			return n
		}
	}
	return m
}

func matchFields(rules []fieldRule, lower string) []Field {
	var fields []Field
	for _, r := range rules {
		if !strings.Contains(lower, r.keyword) {
			continue
		}
		dup := false
		for _, f := range fields {
			if f == r.field {
				dup = true
				break
			}
		}
		if !dup {
			fields = append(fields, r.field)
		}
	}
	return fields
}
