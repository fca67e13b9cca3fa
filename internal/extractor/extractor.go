// Package extractor turns crawled page sections into catalog updates.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// ExtractProducts scans every section of every page, in snapshot order, and
// collects product facts keyed by canonical product name.
// Sections whose heading does not resolve to a known product are skipped.
func ExtractProducts(snap *models.Snapshot) map[string]models.ProductUpdate {
	updates := make(map[string]models.ProductUpdate)
	for _, page := range snap.Pages() {
		for _, sec := range page.Sections {
			cls := Classify(sec.Title)
			if cls.Category != CategoryProduct {
				continue
			}
			if cls.Entity == "" {
				slog.Debug("no known product in heading", "url", page.URL, "heading", sec.Title)
				continue
			}

			u := updates[cls.Entity]
			for _, f := range cls.Fields {
				switch f {
				case FieldFeatures:
					for _, kv := range pairs(sec.Text) {
						u.Features = append(u.Features, models.Feature{Name: kv[0], Description: kv[1]})
					}
				case FieldMetrics:
					for _, kv := range pairs(sec.Text) {
						u.Metrics = upsert(u.Metrics, models.Metric{Name: kv[0], Value: kv[1]})
					}
				case FieldBenefits:
					u.Benefits = append(u.Benefits, lines(sec.Text)...)
				case FieldUseCases:
					u.UseCases = append(u.UseCases, lines(sec.Text)...)
				case FieldDescription:
					if d := strings.TrimSpace(sec.Text); d != "" {
						u.Description = d
					}
				}
			}
			updates[cls.Entity] = u
		}
	}
	return updates
}

// ExtractIndustries is the industry counterpart of ExtractProducts.
func ExtractIndustries(snap *models.Snapshot) map[string]models.IndustryUpdate {
	updates := make(map[string]models.IndustryUpdate)
	for _, page := range snap.Pages() {
		for _, sec := range page.Sections {
			cls := Classify(sec.Title)
			if cls.Category != CategoryIndustry {
				continue
			}
			if cls.Entity == "" {
				slog.Debug("no known industry in heading", "url", page.URL, "heading", sec.Title)
				continue
			}

			u := updates[cls.Entity]
			for _, f := range cls.Fields {
				switch f {
				case FieldUseCases:
					u.UseCases = append(u.UseCases, lines(sec.Text)...)
				case FieldChallenges:
					u.Challenges = append(u.Challenges, lines(sec.Text)...)
				case FieldSolutions:
					u.Solutions = append(u.Solutions, lines(sec.Text)...)
				case FieldDescription:
					if d := strings.TrimSpace(sec.Text); d != "" {
						u.Description = d
					}
				}
			}
			updates[cls.Entity] = u
		}
	}
	return updates
}

// lines returns every non-empty trimmed line.
func lines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// pairs splits each line at its first colon. Lines without a colon, or with
// an empty name or value, are dropped.
func pairs(text string) [][2]string {
	var out [][2]string
	for _, l := range strings.Split(text, "\n") {
		name, value, ok := strings.Cut(l, ":")
		if !ok {
			continue
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		out = append(out, [2]string{name, value})
	}
	return out
}

func upsert(metrics []models.Metric, m models.Metric) []models.Metric {
	for i := range metrics {
		if metrics[i].Name == m.Name {
			metrics[i].Value = m.Value
			return metrics
		}
	}
	return append(metrics, m)
}
