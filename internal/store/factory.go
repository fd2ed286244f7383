package store

import (
	"context"
	"fmt"
)

// Options selects and configures a Store implementation.
type Options struct {
	Driver      Driver
	Dir         string // fs
	SQLitePath  string // sqlite
	PostgresDSN string // postgres
	S3          S3Config
}

// Open returns the Store named by opts.Driver (default fs).
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverFilesystem:
		return NewFileStore(opts.Dir)
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(opts.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, opts.PostgresDSN)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
