// Package persist implements the persistence dispatcher: writing one
// task's response body to each of its configured sinks.
package persist

// Sink is the tagged union of persistence destinations. Exactly one of
// LocalFile or AmazonS3 is non-nil.
type Sink struct {
	LocalFile *LocalFileSink
	AmazonS3  *AmazonS3Sink
}

// LocalFileSink writes to a path on the local filesystem.
type LocalFileSink struct {
	Path string
}

// AmazonS3Sink writes an object to an S3-compatible bucket.
type AmazonS3Sink struct {
	Region   string
	Bucket   string
	Key      string
	Endpoint string
}

// Describe returns a short human-readable identifier for logging.
func (s Sink) Describe() string {
	switch {
	case s.LocalFile != nil:
		return "local_file:" + s.LocalFile.Path
	case s.AmazonS3 != nil:
		return "amazon_s3:" + s.AmazonS3.Bucket + "/" + s.AmazonS3.Key
	default:
		return "unknown_sink"
	}
}
