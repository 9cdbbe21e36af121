package fetch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	pkgfetch "github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/graph"
	"github.com/goliatone/go-graphview/pkg/view"
)

// Mirror copies start and every node reachable within depth link hops from
// src into snap, breadth first. Nodes linked from a page but missing from
// the source are skipped; only a failure on start is fatal. It returns the
// number of stored payloads.
func Mirror(ctx context.Context, src pkgfetch.Source, snap *Snapshot, start string, depth int, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if start == "" {
		return 0, pkgfetch.ErrMissingID
	}

	seen := map[string]struct{}{start: {}}
	level := []string{start}
	stored := 0

	for hop := 0; len(level) > 0 && hop <= depth; hop++ {
		var next []string
		for _, id := range level {
			if err := ctx.Err(); err != nil {
				return stored, err
			}
			raw, err := src.FetchRaw(ctx, id)
			if err != nil {
				if id == start {
					return stored, fmt.Errorf("fetch: mirror %s: %w", id, err)
				}
				logger.Warn("mirror skipped node", zap.String("id", id), zap.Error(err))
				continue
			}
			if err := snap.Put(ctx, id, raw); err != nil {
				return stored, err
			}
			stored++

			if hop == depth {
				continue
			}
			node, err := graph.Decode(raw)
			if err != nil {
				logger.Warn("mirror could not decode node", zap.String("id", id), zap.Error(err))
				continue
			}
			for _, link := range view.Compose(node).Links() {
				if _, ok := seen[link.ID]; ok {
					continue
				}
				seen[link.ID] = struct{}{}
				next = append(next, link.ID)
			}
		}
		level = next
	}
	logger.Info("mirror complete", zap.String("start", start), zap.Int("stored", stored))
	return stored, nil
}

// IsNotFound reports whether err means the node does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pkgfetch.ErrNotFound)
}
