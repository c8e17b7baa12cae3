package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/gameretriever/internal/shared"
)

// PageSize is the number of items requested per page; it is the IGDB maximum.
const PageSize = 500

// Pager fetches every item of an endpoint page by page.
type Pager[T any] struct {
	client   Poster
	endpoint string
	size     int
	logger   *log.Logger
}

// NewPager creates a Pager over endpoint using client for requests.
func NewPager[T any](client Poster, endpoint string, logger *log.Logger) *Pager[T] {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Pager[T]{client: client, endpoint: endpoint, size: PageSize, logger: logger}
}

// Fetch requests pages at offsets 0, size, 2*size and so on until a page comes back empty.
//
// onBatch runs once per non-empty page in order. The first request error or onBatch error
// stops the walk and is returned as is; pages already handed to onBatch stay handed.
func (p *Pager[T]) Fetch(ctx context.Context, q Query, onBatch func([]T) error) error {
	for offset := 0; ; offset += p.size {
		var batch []T
		if err := p.client.Post(ctx, p.endpoint, q.Page(p.size, offset), &batch); err != nil {
			return err
		}

		p.logger.Debug("page fetched", "endpoint", p.endpoint, "offset", offset, "items", len(batch))
		if len(batch) == 0 {
			return nil
		}

		if err := onBatch(batch); err != nil {
			return err
		}
	}
}
