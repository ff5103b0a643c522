package persist

import "context"

// Dispatcher writes a task's response body to each of its configured
// sinks, collecting per-sink errors without aborting sibling sinks.
type Dispatcher struct {
	s3 *S3Client
}

// NewDispatcher builds a Dispatcher. s3Client may be nil if no task in the
// run configures an amazon_s3 sink.
func NewDispatcher(s3Client *S3Client) *Dispatcher {
	return &Dispatcher{s3: s3Client}
}

// Write attempts every sink in order (sequential per §5's "within a task,
// all sinks are written in declared order"), returning the errors from
// sinks that failed. An empty slice means every sink succeeded.
func (d *Dispatcher) Write(ctx context.Context, sinks []Sink, body []byte, contentType string) []Error {
	var errs []Error
	for _, sink := range sinks {
		if err := d.writeOne(ctx, sink, body, contentType); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (d *Dispatcher) writeOne(ctx context.Context, sink Sink, body []byte, contentType string) Error {
	switch {
	case sink.LocalFile != nil:
		if err := writeLocalFile(sink.LocalFile, body); err != nil {
			return err.(Error)
		}
		return nil
	case sink.AmazonS3 != nil:
		if d.s3 == nil {
			return &S3Error{Bucket: sink.AmazonS3.Bucket, Key: sink.AmazonS3.Key, Detail: "no S3 client configured for this run"}
		}
		if err := d.s3.putObject(ctx, sink.AmazonS3, body, contentType); err != nil {
			return err.(Error)
		}
		return nil
	default:
		return &LocalFileError{Detail: "sink has neither local_file nor amazon_s3 configured"}
	}
}
