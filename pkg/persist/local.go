package persist

import (
	"bufio"
	"os"
	"path/filepath"
)

// writeLocalFile creates any missing parent directories, then opens the
// target file for write (truncating existing content), writes the full
// payload, and flushes.
func writeLocalFile(sink *LocalFileSink, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(sink.Path), 0o755); err != nil {
		return &LocalFileError{Path: sink.Path, Detail: err.Error()}
	}

	f, err := os.OpenFile(sink.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &LocalFileError{Path: sink.Path, Detail: err.Error()}
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if _, err := w.Write(body); err != nil {
		return &LocalFileError{Path: sink.Path, Detail: err.Error()}
	}
	if err := w.Flush(); err != nil {
		return &LocalFileError{Path: sink.Path, Detail: err.Error()}
	}
	return nil
}
