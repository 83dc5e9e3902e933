package translation

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/neoanki/internal/table"
)

// DefaultConcurrency is the number of translations requested at once.
const DefaultConcurrency = 4

// FillResult reports what Fill did.
type FillResult struct {
	Table  table.Table
	Filled int
	Failed int
}

// Fill translates every row that has no translation yet, at most limit at
// a time. Rows keep their order and rows that fail to translate stay
// untranslated. Only a cancelled context makes Fill return an error.
func Fill(ctx context.Context, tr Translator, t table.Table, limit int) (FillResult, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	out := t.Clone()
	var filled, failed atomic.Int32

	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, row := range out {
		if row.HasTranslation() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			translation, err := tr.Translate(ctx, row.Word)
			if err != nil || translation == "" {
				failed.Add(1)
				return nil
			}
			out[i].Translation = translation
			filled.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return FillResult{}, err
	}

	return FillResult{
		Table:  out,
		Filled: int(filled.Load()),
		Failed: int(failed.Load()),
	}, nil
}
