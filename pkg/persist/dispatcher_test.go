package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3API struct {
	err error
}

func (f *fakeS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestWriteLocalFileCreatesDirsAndTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.html")

	require.NoError(t, writeLocalFile(&LocalFileSink{Path: path}, []byte("first")))
	require.NoError(t, writeLocalFile(&LocalFileSink{Path: path}, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data), "second write must truncate, not append")
}

func TestDispatcherPartialFailureIsReportedPerSink(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "out.html")

	d := &Dispatcher{s3: &S3Client{api: &fakeS3API{err: errors.New("access denied")}}}
	sinks := []Sink{
		{LocalFile: &LocalFileSink{Path: localPath}},
		{AmazonS3: &AmazonS3Sink{Bucket: "b", Key: "k"}},
	}

	errs := d.Write(context.Background(), sinks, []byte("body"), "text/html")
	require.Len(t, errs, 1)
	var s3err *S3Error
	require.ErrorAs(t, errs[0], &s3err)

	_, statErr := os.Stat(localPath)
	assert.NoError(t, statErr, "local sink should have been written despite the S3 sink failing")
}

func TestDispatcherAllSinksSucceed(t *testing.T) {
	dir := t.TempDir()
	d := &Dispatcher{s3: &S3Client{api: &fakeS3API{}}}
	sinks := []Sink{
		{LocalFile: &LocalFileSink{Path: filepath.Join(dir, "a.html")}},
		{AmazonS3: &AmazonS3Sink{Bucket: "b", Key: "k"}},
	}

	errs := d.Write(context.Background(), sinks, []byte("body"), "text/html")
	assert.Empty(t, errs)
}
