// Package elasticsearch is the remote retrieval index: chunk embeddings live in
// an Elasticsearch index reached through an alias that is swapped on rebuild.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// DefaultAlias is the alias searched when none is configured.
const DefaultAlias = "sales-agent-chunks"

// Config holds Elasticsearch client configuration.
type Config struct {
	Addresses []string `mapstructure:"addresses"`
	Alias     string   `mapstructure:"alias"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Hybrid    bool     `mapstructure:"hybrid"` // fuse BM25 with kNN using RRF
}

// Client wraps the Elasticsearch client with alias-managed chunk indices.
type Client struct {
	es     *elasticsearch.Client
	alias  string
	hybrid bool
}

// New creates a new Elasticsearch client.
func New(config Config) (*Client, error) {
	if config.Alias == "" {
		config.Alias = DefaultAlias
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	return &Client{es: es, alias: config.Alias, hybrid: config.Hybrid}, nil
}

// Alias returns the alias that searches target.
func (c *Client) Alias() string {
	return c.alias
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// indexMapping returns the mapping of a physical chunk index.
func indexMapping(dims int) string {
	return fmt.Sprintf(`{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"text": { "type": "text", "analyzer": "english" },
			"source_label": { "type": "keyword" },
			"position": { "type": "integer" },
			"embedding": {
				"type": "dense_vector",
				"dims": %d,
				"index": true,
				"similarity": "cosine"
			}
		}
	}
}`, dims)
}

func (c *Client) createIndex(ctx context.Context, name string, dims int) error {
	res, err := c.es.Indices.Create(
		name,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(strings.NewReader(indexMapping(dims))),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index %s: %s", name, res.String())
	}
	return nil
}

func (c *Client) deleteIndices(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	res, err := c.es.Indices.Delete(names, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error deleting indices: %s", res.String())
	}
	return nil
}

func (c *Client) refresh(ctx context.Context, name string) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(name),
	)
	if err != nil {
		return fmt.Errorf("failed to refresh index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error refreshing index: %s", res.String())
	}
	return nil
}

// aliasedIndices returns the physical indices the alias currently points at, sorted.
func (c *Client) aliasedIndices(ctx context.Context) ([]string, error) {
	res, err := c.es.Indices.GetAlias(
		c.es.Indices.GetAlias.WithContext(ctx),
		c.es.Indices.GetAlias.WithName(c.alias),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get alias: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("error getting alias: %s", res.String())
	}

	var byIndex map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&byIndex); err != nil {
		return nil, fmt.Errorf("failed to decode alias response: %w", err)
	}
	names := make([]string, 0, len(byIndex))
	for name := range byIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// swapAlias points the alias at next and away from every index in previous,
// in one atomic _aliases call.
func (c *Client) swapAlias(ctx context.Context, next string, previous []string) error {
	res, err := c.es.Indices.UpdateAliases(
		bytes.NewReader(aliasActions(c.alias, next, previous)),
		c.es.Indices.UpdateAliases.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to update aliases: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error updating aliases: %s", res.String())
	}
	return nil
}

func aliasActions(alias, next string, previous []string) []byte {
	type target struct {
		Index string `json:"index"`
		Alias string `json:"alias"`
	}
	actions := make([]map[string]target, 0, len(previous)+1)
	for _, p := range previous {
		actions = append(actions, map[string]target{"remove": {Index: p, Alias: alias}})
	}
	actions = append(actions, map[string]target{"add": {Index: next, Alias: alias}})

	data, _ := json.Marshal(map[string]any{"actions": actions})
	return data
}
