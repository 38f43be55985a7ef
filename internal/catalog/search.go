package catalog

import (
	"context"
	"strings"

	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/logger"
)

// SearchResult carries the matches plus a degraded flag. Degraded means the
// snapshot could not be fetched and the result is empty rather than failed;
// storefront search is best-effort by design.
type SearchResult struct {
	Products []models.Product `json:"products"`
	Degraded bool             `json:"degraded"`
}

type snapshotLoader interface {
	FetchActiveSnapshot(ctx context.Context, limit int) ([]models.Product, error)
}

// Searcher matches a query against a bounded snapshot of the active catalog.
type Searcher struct {
	repo          snapshotLoader
	snapshotLimit int
	logg          *logger.Logger
}

// NewSearcher builds a snapshot searcher over the catalog repository.
func NewSearcher(repo snapshotLoader, snapshotLimit int, logg *logger.Logger) *Searcher {
	if snapshotLimit <= 0 {
		snapshotLimit = 500
	}
	return &Searcher{repo: repo, snapshotLimit: snapshotLimit, logg: logg}
}

// Search performs a case-insensitive substring match over name, description,
// category, subcategory and tags. Snapshot ordering is preserved in the
// result; a positive limit truncates the matches. A snapshot fetch failure
// yields an empty degraded result.
func (s *Searcher) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return &SearchResult{Products: []models.Product{}}, nil
	}

	snapshot, err := s.repo.FetchActiveSnapshot(ctx, s.snapshotLimit)
	if err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithField(ctx, "error", err.Error())
			s.logg.Warn(logCtx, "catalog snapshot fetch failed, degrading search")
		}
		return &SearchResult{Products: []models.Product{}, Degraded: true}, nil
	}

	matches := []models.Product{}
	for _, product := range snapshot {
		if matchesQuery(product, needle) {
			matches = append(matches, product)
			if limit > 0 && len(matches) == limit {
				break
			}
		}
	}
	return &SearchResult{Products: matches}, nil
}

func matchesQuery(product models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(product.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(product.Description), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(product.Category), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(product.Subcategory), needle) {
		return true
	}
	for _, tag := range product.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
