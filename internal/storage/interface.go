package storage

import (
	"context"
)

// ArchiveSink stores snapshots of data that a migration is about to destroy
type ArchiveSink interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Close() error
}

// Logger interface for logging operations
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string, fields ...map[string]interface{}) error
}
