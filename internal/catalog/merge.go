package catalog

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// MergeResult counts how a batch of updates was applied.
type MergeResult struct {
	Updated []string // entity names that received at least one fact
	Unknown []string // update names with no matching catalog entity
}

// ApplyProducts merges product updates into the catalog.
// Facts are appended; a description is replaced only by a non-empty one.
// Metrics are upserted by name. Updates are applied in name order.
func (c *Catalog) ApplyProducts(updates map[string]models.ProductUpdate) MergeResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res MergeResult
	for _, name := range slices.Sorted(maps.Keys(updates)) {
		u := updates[name]
		i := c.productIndex(name)
		if i < 0 {
			slog.Debug("no catalog product for update", "name", name)
			res.Unknown = append(res.Unknown, name)
			continue
		}
		if u.IsEmpty() {
			continue
		}

		p := &c.products[i]
		if u.Description != "" {
			p.Description = u.Description
		}
		p.Features = append(p.Features, u.Features...)
		for _, m := range u.Metrics {
			p.Metrics = upsertMetric(p.Metrics, m)
		}
		p.Benefits = append(p.Benefits, u.Benefits...)
		p.UseCases = append(p.UseCases, u.UseCases...)
		res.Updated = append(res.Updated, p.Name)
	}
	return res
}

// ApplyIndustries merges industry updates into the catalog.
func (c *Catalog) ApplyIndustries(updates map[string]models.IndustryUpdate) MergeResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res MergeResult
	for _, name := range slices.Sorted(maps.Keys(updates)) {
		u := updates[name]
		i := c.industryIndex(name)
		if i < 0 {
			slog.Debug("no catalog industry for update", "name", name)
			res.Unknown = append(res.Unknown, name)
			continue
		}
		if u.IsEmpty() {
			continue
		}

		ind := &c.industries[i]
		if u.Description != "" {
			ind.Description = u.Description
		}
		ind.UseCases = append(ind.UseCases, u.UseCases...)
		ind.Challenges = append(ind.Challenges, u.Challenges...)
		ind.Solutions = append(ind.Solutions, u.Solutions...)
		res.Updated = append(res.Updated, ind.Name)
	}
	return res
}

func upsertMetric(metrics []models.Metric, m models.Metric) []models.Metric {
	for i := range metrics {
		if metrics[i].Name == m.Name {
			metrics[i].Value = m.Value
			return metrics
		}
	}
	return append(metrics, m)
}
