package core

import (
	"context"
	"fmt"
	"os"
)

// Publisher ships a serialized report to a remote collector.
// Implementations never retry on their own.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, doc []byte) error
}

// PublishReport reads the report already persisted at path and hands it to p.
// The local file is only read.
func PublishReport(ctx context.Context, p Publisher, path string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report %s: %w", path, err)
	}
	if err := p.Publish(ctx, doc); err != nil {
		return err
	}
	return nil
}
