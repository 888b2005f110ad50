package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// searchQualifier narrows image results to product shots.
const searchQualifier = " product"

// ErrQuotaExceeded reports a 429-class rejection from the search API. It is
// terminal for the run, not transient.
var ErrQuotaExceeded = errors.New("image search quota exceeded")

// Searcher finds one product photo URL for a query.
type Searcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// GoogleSearcher queries the Google Custom Search API.
type GoogleSearcher struct {
	cx  string
	svc *customsearch.Service
}

// NewGoogleSearcher creates a searcher for the given API key and search
// engine id.
func NewGoogleSearcher(ctx context.Context, apiKey, cx string) (*GoogleSearcher, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}
	return &GoogleSearcher{cx: cx, svc: svc}, nil
}

// SearchImage returns the first photographic result for the query, or empty
// when nothing is found.
func (g *GoogleSearcher) SearchImage(ctx context.Context, query string) (string, error) {
	resp, err := g.svc.Cse.List().
		Context(ctx).
		Cx(g.cx).
		Q(query + searchQualifier).
		SearchType("image").
		Num(1).
		Safe("active").
		ImgSize("large").
		ImgType("photo").
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", ErrQuotaExceeded
		}
		return "", fmt.Errorf("image search failed: %w", err)
	}

	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Link, nil
}
