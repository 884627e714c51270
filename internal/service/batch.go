package service

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/logger"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// refreshFunc refreshes the data of one stock.
type refreshFunc func(ctx context.Context, stock model.Stock) (model.RefreshedSymbol, error)

// refreshBatch runs fn for every stock with at most limit calls in flight.
// A failing stock is recorded in the response and never stops the others.
// Both result lists are ordered by symbol.
func refreshBatch(ctx context.Context, operation string, stocks []model.Stock, limit int, fn refreshFunc) model.RefreshResponse {
	var (
		mu      sync.Mutex
		updated []model.RefreshedSymbol
		errs    []model.RefreshError
	)

	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for _, stock := range stocks {
		g.Go(func() error {
			res, err := fn(ctx, stock)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Get().Warnw("refresh failed", "operation", operation, "symbol", stock.Symbol, "error", err)
				errs = append(errs, model.RefreshError{Symbol: stock.Symbol, Error: err.Error()})
				return nil
			}
			updated = append(updated, res)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(updated, func(i, j int) bool { return updated[i].Symbol < updated[j].Symbol })
	sort.Slice(errs, func(i, j int) bool { return errs[i].Symbol < errs[j].Symbol })

	return model.NewRefreshResponse(updated, errs)
}
