package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileInput is a file handed to an upload operation: either a filesystem
// path or an already-open reader with an explicit name. Path-based inputs
// are read fully into memory so the transport can replay them on retry.
type FileInput struct {
	name   string
	reader io.Reader
	path   string
}

// FilePath references a file on disk by path. The base name of the path is
// used as the upload filename.
func FilePath(path string) FileInput {
	return FileInput{path: path}
}

// File wraps an open reader with an upload filename.
func File(name string, r io.Reader) FileInput {
	return FileInput{name: name, reader: r}
}

func (f FileInput) read() (string, []byte, error) {
	if f.path != "" {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return "", nil, genericError(codeConnection, "reading %s: %v", f.path, err)
		}
		return filepath.Base(f.path), data, nil
	}
	data, err := io.ReadAll(f.reader)
	if err != nil {
		return "", nil, genericError(codeConnection, "reading %s: %v", f.name, err)
	}
	return f.name, data, nil
}

// attachmentsFor names files positionally (prefix_0, prefix_1, ...) so the
// API can disambiguate multiple uploads in one request.
func attachmentsFor(prefix string, files []FileInput) ([]attachment, error) {
	atts := make([]attachment, 0, len(files))
	for i, f := range files {
		name, data, err := f.read()
		if err != nil {
			return nil, err
		}
		atts = append(atts, attachment{
			field:    fmt.Sprintf("%s_%d", prefix, i),
			filename: name,
			data:     data,
		})
	}
	return atts, nil
}
