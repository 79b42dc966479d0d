package phonemes

import (
	"context"
	"errors"

	"github.com/verte-zerg/tuispeak/internal/store"
)

// Catalog looks up phoneme lists registered in the SQLite store.
type Catalog struct {
	Store *store.Store
}

// Phonemes implements Source.
func (c Catalog) Phonemes(ctx context.Context, text string) ([]string, error) {
	if c.Store == nil {
		return nil, ErrNotFound
	}
	list, err := c.Store.GetPhonemes(ctx, text)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}
