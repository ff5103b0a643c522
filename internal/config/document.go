// Package config loads and validates the run configuration document.
package config

// Document is the deserialized run configuration. It is immutable after
// Load returns.
type Document struct {
	Name       string        `yaml:"name" json:"name"`
	Request    RequestConfig `yaml:"request" json:"request"`
	Notify     []NotifyEntry `yaml:"notify" json:"notify"`
	Output     []SinkConfig  `yaml:"output" json:"output"`
	MaxThreads int           `yaml:"max_threads" json:"max_threads"`
	Log        LogConfig     `yaml:"log" json:"log"`
}

// RequestConfig is the templated request specification shared by every
// expanded task.
type RequestConfig struct {
	URL            string              `yaml:"url" json:"url"`
	Method         string              `yaml:"method" json:"method"`
	Headers        map[string]string   `yaml:"headers" json:"headers"`
	Vars           []map[string][]string `yaml:"vars" json:"vars"`
	Params         []map[string][]string `yaml:"params" json:"params"`
	Encoding       *EncodingConfig     `yaml:"encoding" json:"encoding"`
	TimeoutSeconds int                 `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetry       int                 `yaml:"max_retry" json:"max_retry"`
	SleepSeconds   int                 `yaml:"sleep_seconds" json:"sleep_seconds"`
}

// EncodingConfig declares how a textual response body should be
// reinterpreted and re-encoded.
type EncodingConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
}

// NotifyEntry is one notification sink subscription.
type NotifyEntry struct {
	Type          string `yaml:"type" json:"type"`
	MinSeverity   string `yaml:"min_severity" json:"min_severity"`
	Slack         *SlackNotifyConfig `yaml:"slack" json:"slack"`
}

// SlackNotifyConfig configures a Slack incoming-webhook notify sink.
type SlackNotifyConfig struct {
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
	Channel    string `yaml:"channel" json:"channel"`
	Mention    string `yaml:"mention" json:"mention"`
}

// SinkConfig is one persistence sink specification. Exactly one of
// LocalFile or AmazonS3 must be set.
type SinkConfig struct {
	LocalFile *LocalFileSinkConfig `yaml:"local_file" json:"local_file"`
	AmazonS3  *AmazonS3SinkConfig  `yaml:"amazon_s3" json:"amazon_s3"`
}

// LocalFileSinkConfig writes a task's response body to a local path.
type LocalFileSinkConfig struct {
	Path string `yaml:"path" json:"path"`
}

// AmazonS3SinkConfig writes a task's response body to an S3-compatible
// object store.
type AmazonS3SinkConfig struct {
	Region   string `yaml:"region" json:"region"`
	Bucket   string `yaml:"bucket" json:"bucket"`
	Key      string `yaml:"key" json:"key"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

// LogConfig configures the process-wide logger and optional search
// backend used for metrics and template management.
type LogConfig struct {
	FilePath          string `yaml:"file_path" json:"file_path"`
	Level             string `yaml:"level" json:"level"`
	SearchBackendURL  string `yaml:"search_backend_url" json:"search_backend_url"`
	IndexPrefix       string `yaml:"index_prefix" json:"index_prefix"`
}

// ApplyDefaults fills in the default values named in the configuration
// contract: timeout_seconds=1, max_retry=0, max_threads=1.
func (d *Document) ApplyDefaults() {
	if d.Request.TimeoutSeconds == 0 {
		d.Request.TimeoutSeconds = 1
	}
	if d.MaxThreads == 0 {
		d.MaxThreads = 1
	}
	if d.Log.IndexPrefix == "" {
		d.Log.IndexPrefix = "raven"
	}
}
