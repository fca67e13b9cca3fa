// Package storage persists crawl snapshots in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sachinhub/saas-sales-agent/internal/crawler"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// RootPrefix is the key prefix under which every crawl is stored.
const RootPrefix = "crawls"

// ErrNoCrawls is returned by LatestPrefix when a host has no stored crawl.
var ErrNoCrawls = errors.New("no stored crawls")

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string `mapstructure:"endpoint"` // "localhost:9000" for MinIO
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Client stores crawl snapshots in a bucket.
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// New creates a new S3/MinIO client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{minioClient: minioClient, bucket: config.Bucket}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// CrawlMetadata describes one stored crawl.
type CrawlMetadata struct {
	SourceURL string   `json:"source_url"`
	Timestamp string   `json:"timestamp"`
	PageCount int      `json:"page_count"`
	Failed    int      `json:"failed"`
	Pages     []string `json:"pages"`
}

// NewPrefix returns a fresh key prefix for a crawl of seedURL started at t:
// crawls/<host>/<UTC timestamp>-<8 hex>.
func NewPrefix(seedURL string, t time.Time) (string, error) {
	u, err := url.Parse(seedURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid seed URL %q", seedURL)
	}
	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("failed to generate prefix: %w", err)
	}
	stamp := t.UTC().Format("2006-01-02T15-04-05")
	return path.Join(RootPrefix, u.Host, stamp+"-"+hex.EncodeToString(suffix[:])), nil
}

// PageObject returns the Markdown object name of a page under prefix.
func PageObject(prefix, pageURL string) string {
	return path.Join(prefix, "pages", models.GenerateID(pageURL)+".md")
}

// PutSnapshot writes snapshot.json, metadata.json and one Markdown object per
// page that has Markdown.
func (c *Client) PutSnapshot(ctx context.Context, prefix string, snap *models.Snapshot, meta CrawlMetadata) error {
	data, err := crawler.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := c.put(ctx, path.Join(prefix, "snapshot.json"), data, "application/json"); err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}

	for _, p := range snap.Pages() {
		if p.Markdown == "" {
			continue
		}
		if err := c.put(ctx, PageObject(prefix, p.URL), []byte(p.Markdown), "text/markdown"); err != nil {
			return fmt.Errorf("failed to put markdown for %s: %w", p.URL, err)
		}
	}

	meta.PageCount = snap.Len()
	meta.Pages = snap.URLs()
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := c.put(ctx, path.Join(prefix, "metadata.json"), metaData, "application/json"); err != nil {
		return fmt.Errorf("failed to put metadata: %w", err)
	}
	return nil
}

// GetSnapshot reads the snapshot stored under prefix.
func (c *Client) GetSnapshot(ctx context.Context, prefix string) (*models.Snapshot, error) {
	data, err := c.get(ctx, path.Join(prefix, "snapshot.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return crawler.DecodeSnapshot(data)
}

// GetMetadata reads the crawl metadata stored under prefix.
func (c *Client) GetMetadata(ctx context.Context, prefix string) (*CrawlMetadata, error) {
	data, err := c.get(ctx, path.Join(prefix, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	var meta CrawlMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// GetPageMarkdown reads the Markdown stored for pageURL under prefix.
func (c *Client) GetPageMarkdown(ctx context.Context, prefix, pageURL string) (string, error) {
	data, err := c.get(ctx, PageObject(prefix, pageURL))
	if err != nil {
		return "", fmt.Errorf("failed to get markdown: %w", err)
	}
	return string(data), nil
}

// LatestPrefix returns the most recent crawl prefix stored for host.
func (c *Client) LatestPrefix(ctx context.Context, host string) (string, error) {
	hostPrefix := path.Join(RootPrefix, host) + "/"

	var prefixes []string
	for object := range c.minioClient.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: hostPrefix}) {
		if object.Err != nil {
			return "", fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, "/") {
			prefixes = append(prefixes, strings.TrimSuffix(object.Key, "/"))
		}
	}
	if len(prefixes) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoCrawls, host)
	}
	// timestamps sort lexicographically
	return slices.Max(prefixes), nil
}

func (c *Client) put(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := c.minioClient.PutObject(ctx, c.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (c *Client) get(ctx context.Context, objectName string) ([]byte, error) {
	object, err := c.minioClient.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()
	return io.ReadAll(object)
}
