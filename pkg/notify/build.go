package notify

import (
	"fmt"

	"github.com/ravencrawl/raven/internal/config"
)

// Build turns the run config's notify entries into a Dispatcher.
func Build(entries []config.NotifyEntry) (*Dispatcher, error) {
	sinks := make([]Sink, 0, len(entries))
	for _, entry := range entries {
		sink, err := buildOne(entry)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return NewDispatcher(sinks...), nil
}

func buildOne(entry config.NotifyEntry) (Sink, error) {
	switch entry.Type {
	case "slack":
		if entry.Slack == nil {
			return nil, fmt.Errorf("notify entry type %q missing slack configuration", entry.Type)
		}
		return NewSlackSink(entry.Slack.WebhookURL, entry.Slack.Channel, entry.Slack.Mention, ParseSeverity(entry.MinSeverity)), nil
	default:
		return nil, fmt.Errorf("unknown notify type %q", entry.Type)
	}
}
