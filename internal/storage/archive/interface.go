// internal/storage/archive/interface.go
package archive

import (
	"context"
	"fmt"
)

// Storage is a flat key/blob store holding price series files
type Storage interface {
	// Write stores data at the given path, replacing any existing object
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Backend types accepted by New
const (
	TypeLocalFS = "localfs"
	TypeS3      = "s3"
)

// Options selects and configures a storage backend
type Options struct {
	Type string // "localfs" or "s3"
	Path string // Base directory for localfs
	S3   S3Config
}

// New builds the backend named by opts.Type
func New(opts Options) (Storage, error) {
	switch opts.Type {
	case "", TypeLocalFS:
		path := opts.Path
		if path == "" {
			path = "."
		}
		return NewLocalFS(path)
	case TypeS3:
		return NewS3(opts.S3)
	default:
		return nil, fmt.Errorf("unknown storage type %q", opts.Type)
	}
}
