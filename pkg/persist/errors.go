package persist

// Error is the persistence error sum type.
type Error interface {
	error
	Sink() string
	persistError()
}

// LocalFileError wraps a failure writing to a local file sink.
type LocalFileError struct {
	Path   string
	Detail string
}

func (e *LocalFileError) Error() string { return "failed to write local file: " + e.Detail }
func (e *LocalFileError) Sink() string   { return "local_file:" + e.Path }
func (*LocalFileError) persistError()    {}

// S3Error wraps a failure putting an object to an S3-compatible sink.
type S3Error struct {
	Bucket string
	Key    string
	Detail string
}

func (e *S3Error) Error() string { return "failed to put to s3: " + e.Detail }
func (e *S3Error) Sink() string  { return "amazon_s3:" + e.Bucket + "/" + e.Key }
func (*S3Error) persistError()   {}
