// Package migrate copies collections between record stores.
package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/store"
)

// Count reports how many records were copied for one collection.
type Count struct {
	Collection store.Collection
	Records    int
}

// Copy replaces each named collection in dst with its content in src. With
// no collections given it copies store.Collections. Every source
// collection is read before anything is written, so a malformed source
// leaves dst untouched.
func Copy(ctx context.Context, src, dst store.Store, log *zap.Logger, collections ...store.Collection) ([]Count, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(collections) == 0 {
		collections = store.Collections
	}

	loaded := make([][]models.Record, len(collections))
	for i, c := range collections {
		records, err := src.Load(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", c, src.Driver(), err)
		}
		loaded[i] = records
	}

	counts := make([]Count, 0, len(collections))
	for i, c := range collections {
		if err := dst.Save(ctx, c, loaded[i]); err != nil {
			return counts, fmt.Errorf("write %s to %s: %w", c, dst.Driver(), err)
		}
		log.Info("collection migrated",
			zap.String("collection", string(c)),
			zap.Int("records", len(loaded[i])),
			zap.String("from", string(src.Driver())),
			zap.String("to", string(dst.Driver())))
		counts = append(counts, Count{Collection: c, Records: len(loaded[i])})
	}
	return counts, nil
}
