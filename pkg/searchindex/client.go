// Package searchindex talks to an Elasticsearch-bulk-API-compatible
// search backend directly over net/http, the same way the reference
// crawler manages index templates and bulk inserts without a dedicated
// client library.
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client publishes metric records to a search backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a Client against baseURL (e.g. "http://localhost:9200").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// EnsureTemplate checks whether an index template named name exists (HEAD
// /_template/<name>) and creates it from templateBody (PUT) only if
// absent. Matches the reference crawler's own idempotent template-creation
// sequence.
func (c *Client) EnsureTemplate(ctx context.Context, name string, templateBody []byte) error {
	exists, err := c.templateExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.createTemplate(ctx, name, templateBody)
}

func (c *Client) templateExists(ctx context.Context, name string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/_template/"+name, nil)
	if err != nil {
		return false, fmt.Errorf("building template HEAD request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("checking template %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK, nil
}

func (c *Client) createTemplate(ctx context.Context, name string, templateBody []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/_template/"+name, bytes.NewReader(templateBody))
	if err != nil {
		return fmt.Errorf("building template PUT request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("creating template %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("creating template %s: backend returned status %d", name, resp.StatusCode)
	}
	return nil
}

// BulkInsert writes every record in docs to index using the backend's
// bulk API, one call per index (records belonging to different indices
// must be grouped by the caller before calling BulkInsert).
func (c *Client) BulkInsert(ctx context.Context, index string, docs []any) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		action := map[string]any{"index": map[string]any{"_index": index}}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return fmt.Errorf("encoding bulk action line: %w", err)
		}
		docLine, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding bulk doc line: %w", err)
		}
		buf.Write(actionLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+index+"/_bulk", &buf)
	if err != nil {
		return fmt.Errorf("building bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bulk inserting into %s: %w", index, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("bulk insert into %s: backend returned status %d", index, resp.StatusCode)
	}
	return nil
}
