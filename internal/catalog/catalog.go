// Package catalog holds the structured product and industry knowledge base.
package catalog

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
	"gopkg.in/yaml.v3"
)

// Catalog is an in-memory set of products and industries.
// It is safe for concurrent use; lookups return copies.
type Catalog struct {
	mu         sync.RWMutex
	products   []models.Product
	industries []models.Industry
}

// New creates a catalog from the given entities, kept in the given order.
func New(products []models.Product, industries []models.Industry) *Catalog {
	return &Catalog{
		products:   slices.Clone(products),
		industries: slices.Clone(industries),
	}
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = cloneProduct(p)
	}
	return out
}

// Industries returns all industries in catalog order.
func (c *Catalog) Industries() []models.Industry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Industry, len(c.industries))
	for i, ind := range c.industries {
		out[i] = cloneIndustry(ind)
	}
	return out
}

// ProductByName looks a product up by exact case-insensitive name.
func (c *Catalog) ProductByName(name string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.productIndex(name); i >= 0 {
		return cloneProduct(c.products[i]), true
	}
	return models.Product{}, false
}

// IndustryByName looks an industry up by exact case-insensitive name.
func (c *Catalog) IndustryByName(name string) (models.Industry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.industryIndex(name); i >= 0 {
		return cloneIndustry(c.industries[i]), true
	}
	return models.Industry{}, false
}

func (c *Catalog) productIndex(name string) int {
	for i, p := range c.products {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

func (c *Catalog) industryIndex(name string) int {
	for i, ind := range c.industries {
		if strings.EqualFold(ind.Name, name) {
			return i
		}
	}
	return -1
}

// file is the YAML layout of a catalog file.
type file struct {
	Products   []models.Product  `yaml:"products"`
	Industries []models.Industry `yaml:"industries"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if len(f.Products) == 0 && len(f.Industries) == 0 {
		return nil, fmt.Errorf("catalog %s has no products or industries", path)
	}

	return New(f.Products, f.Industries), nil
}

// Save writes the catalog to a YAML file.
func (c *Catalog) Save(path string) error {
	f := file{Products: c.Products(), Industries: c.Industries()}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

func cloneProduct(p models.Product) models.Product {
	p.Features = slices.Clone(p.Features)
	p.Metrics = slices.Clone(p.Metrics)
	p.Benefits = slices.Clone(p.Benefits)
	p.UseCases = slices.Clone(p.UseCases)
	return p
}

func cloneIndustry(ind models.Industry) models.Industry {
	ind.UseCases = slices.Clone(ind.UseCases)
	ind.Challenges = slices.Clone(ind.Challenges)
	ind.Solutions = slices.Clone(ind.Solutions)
	return ind
}
