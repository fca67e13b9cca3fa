// Package corpus serializes the catalog into retrieval text and chunks it.
package corpus

import (
	"strings"
	"unicode/utf8"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// Source is the read side of a catalog.
type Source interface {
	Products() []models.Product
	Industries() []models.Industry
}

const preamble = "ElasticRun Products and Solutions:\n\n"

// block is one serialized entity; start and end are rune offsets into the corpus text.
type block struct {
	label      string
	start, end int
}

// BuildText renders every product then every industry, in catalog order,
// as plain labeled text. Each entity block ends with a blank line.
func BuildText(src Source) string {
	text, _ := render(src)
	return text
}

func render(src Source) (string, []block) {
	var b strings.Builder
	var blocks []block
	offset := 0

	b.WriteString(preamble)
	offset += utf8.RuneCountInString(preamble)

	emit := func(label, body string) {
		n := utf8.RuneCountInString(body)
		blocks = append(blocks, block{label: label, start: offset, end: offset + n})
		b.WriteString(body)
		offset += n
	}

	for _, p := range src.Products() {
		emit(models.Label(models.ProductLabel, p.Name), productBlock(p))
	}
	for _, ind := range src.Industries() {
		emit(models.Label(models.IndustryLabel, ind.Name), industryBlock(ind))
	}

	return b.String(), blocks
}

func productBlock(p models.Product) string {
	var b strings.Builder
	b.WriteString(models.Label(models.ProductLabel, p.Name) + "\n")
	b.WriteString("Description: " + p.Description + "\n")
	b.WriteString("Features:\n")
	for _, f := range p.Features {
		b.WriteString("- " + f.Name + ": " + f.Description + "\n")
	}
	list(&b, "Benefits", p.Benefits)
	list(&b, "Use Cases", p.UseCases)
	if len(p.Metrics) > 0 {
		b.WriteString("Metrics:\n")
		for _, m := range p.Metrics {
			b.WriteString("- " + m.Name + ": " + m.Value + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func industryBlock(ind models.Industry) string {
	var b strings.Builder
	b.WriteString(models.Label(models.IndustryLabel, ind.Name) + "\n")
	b.WriteString("Description: " + ind.Description + "\n")
	list(&b, "Use Cases", ind.UseCases)
	list(&b, "Challenges", ind.Challenges)
	list(&b, "Solutions", ind.Solutions)
	b.WriteString("\n")
	return b.String()
}

func list(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading + ":\n")
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
}
