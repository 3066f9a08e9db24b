package offers

import (
	"context"
	"sync"

	"github.com/jobmaroc/jobboard/internal/models"
)

// Board is the locally held offer list of a screen. It only mutates after the
// backend confirms a change.
type Board struct {
	mu     sync.Mutex
	offers []models.Offer
}

// NewBoard copies offers into a new board.
func NewBoard(offers []models.Offer) *Board {
	return &Board{offers: append([]models.Offer(nil), offers...)}
}

// Offers returns a snapshot of the list.
func (b *Board) Offers() []models.Offer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Offer(nil), b.offers...)
}

// Remove drops the offer with id. It reports whether anything was removed.
func (b *Board) Remove(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.offers {
		if o.ID == id {
			b.offers = append(b.offers[:i:i], b.offers[i+1:]...)
			return true
		}
	}
	return false
}

// Delete calls remote and removes exactly id when it succeeds. On failure the
// list is left unchanged and the error is returned.
func (b *Board) Delete(ctx context.Context, id int64, remote func(context.Context, int64) error) error {
	if err := remote(ctx, id); err != nil {
		return err
	}
	b.Remove(id)
	return nil
}
