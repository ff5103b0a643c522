package searchindex

import (
	"context"
	"fmt"

	"github.com/ravencrawl/raven/pkg/metrics"
)

// Publisher pushes metric records to the search backend. EnsureTemplates
// creates the two index templates; the Publish methods do not call it
// themselves.
type Publisher struct {
	client       *Client
	indexPrefix  string
	templatesSet bool
}

// NewPublisher builds a Publisher against an already-constructed Client.
func NewPublisher(client *Client, indexPrefix string) *Publisher {
	return &Publisher{client: client, indexPrefix: indexPrefix}
}

// EnsureTemplates creates both index templates if they don't already
// exist. Safe to call once per run before any PublishTaskMetrics call.
func (p *Publisher) EnsureTemplates(ctx context.Context) error {
	if err := p.client.EnsureTemplate(ctx, p.indexPrefix+"-task-metrics", TaskMetricsTemplate); err != nil {
		return fmt.Errorf("ensuring task-metrics template: %w", err)
	}
	if err := p.client.EnsureTemplate(ctx, p.indexPrefix+"-crawler", CrawlerMetricsTemplate); err != nil {
		return fmt.Errorf("ensuring crawler template: %w", err)
	}
	p.templatesSet = true
	return nil
}

// PublishTaskMetrics bulk-inserts task metric records, grouped by their
// derived index name (task metrics for different dates land in different
// daily indices).
func (p *Publisher) PublishTaskMetrics(ctx context.Context, records []metrics.TaskMetric) error {
	grouped := map[string][]any{}
	for _, r := range records {
		grouped[r.IndexName(p.indexPrefix)] = append(grouped[r.IndexName(p.indexPrefix)], r)
	}
	for index, docs := range grouped {
		if err := p.client.BulkInsert(ctx, index, docs); err != nil {
			return err
		}
	}
	return nil
}

// PublishCrawlerMetrics bulk-inserts crawler metric records, grouped by
// their derived index name.
func (p *Publisher) PublishCrawlerMetrics(ctx context.Context, records []metrics.CrawlerMetric) error {
	grouped := map[string][]any{}
	for _, r := range records {
		grouped[r.IndexName(p.indexPrefix)] = append(grouped[r.IndexName(p.indexPrefix)], r)
	}
	for index, docs := range grouped {
		if err := p.client.BulkInsert(ctx, index, docs); err != nil {
			return err
		}
	}
	return nil
}
