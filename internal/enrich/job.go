package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/presyohub/presyo/internal/store"
)

// searchDelay respects the search API rate limit (free tier allows 100
// queries per day).
const searchDelay = time.Second

// ItemStore is the row surface the job needs from the backend store.
type ItemStore interface {
	Items(ctx context.Context) ([]store.Item, error)
	UpdateItemImage(ctx context.Context, id, imageURL string) error
}

// Summary tallies one enrichment run.
type Summary struct {
	Processed     int  `yaml:"processed"`
	WithImages    int  `yaml:"with_images"`
	WithoutImages int  `yaml:"without_images"`
	QuotaReached  bool `yaml:"quota_reached"`
}

// Job enriches catalog items with product image URLs, one item at a time,
// checkpointing after each.
type Job struct {
	store    ItemStore
	searcher Searcher
	progress *Progress

	// sleep is stubbed in tests.
	sleep func(time.Duration)
}

// NewJob creates an enrichment job over the given store and searcher.
func NewJob(items ItemStore, searcher Searcher, progress *Progress) *Job {
	return &Job{
		store:    items,
		searcher: searcher,
		progress: progress,
		sleep:    time.Sleep,
	}
}

// Run processes every item not yet present in the checkpoint. It stops early
// when the search quota is exhausted; in both cases a final save is
// performed.
func (j *Job) Run(ctx context.Context) (*Summary, error) {
	processed, err := j.progress.Load()
	if err != nil {
		return nil, err
	}
	slog.Info("loaded previously processed items", "count", len(processed))

	items, err := j.store.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	if len(items) == 0 {
		slog.Info("no items found in the store")
		return &Summary{}, nil
	}

	// Carry previous entries forward so every save rewrites the full map.
	results := make([]Result, 0, len(processed)+len(items))
	for id, url := range processed {
		results = append(results, Result{ID: id, ImageURL: url})
	}
	sort.Slice(results, func(a, b int) bool { return results[a].ID < results[b].ID })

	quota := false
	total := len(items)

	for i, item := range items {
		id := item.Key()
		if _, ok := processed[id]; ok {
			slog.Info("skipping already processed item", "index", i+1, "total", total, "name", item.Name)
			continue
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			slog.Warn("skipping item with empty name", "id", id)
			continue
		}

		slog.Info("processing item", "index", i+1, "total", total, "name", name)

		j.sleep(searchDelay)
		imageURL, err := j.searcher.SearchImage(ctx, name)
		if errors.Is(err, ErrQuotaExceeded) {
			slog.Warn("search quota reached, saving progress and stopping", "id", id)
			results = append(results, Result{ID: id, ImageURL: QuotaSentinel})
			quota = true
			break
		}
		if err != nil {
			slog.Error("image search failed", "id", id, "err", err)
			imageURL = ""
		}

		if imageURL != "" {
			// A store failure does not abort the run. The checkpoint still
			// records the URL so the search is not repeated; the operator
			// re-syncs the store on the next pass.
			if err := j.store.UpdateItemImage(ctx, id, imageURL); err != nil {
				slog.Error("failed to update item image", "id", id, "err", err)
			} else {
				slog.Info("updated item image", "id", id, "image_url", imageURL)
			}
		} else {
			slog.Info("no image found", "id", id)
		}

		results = append(results, Result{ID: id, ImageURL: imageURL})
		if err := j.progress.Save(results); err != nil {
			return nil, err
		}
	}

	if err := j.progress.Save(results); err != nil {
		return nil, err
	}

	summary := &Summary{QuotaReached: quota}
	for _, r := range results {
		summary.Processed++
		if r.ImageURL != "" && r.ImageURL != QuotaSentinel {
			summary.WithImages++
		} else {
			summary.WithoutImages++
		}
	}
	return summary, nil
}
