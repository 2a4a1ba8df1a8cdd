package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
)

type normalizedCartSnapshot struct {
	OwnerID *int64           `json:"ownerId"`
	Lines   []normalizedLine `json:"lines"`
}

type normalizedLine struct {
	ID     int64 `json:"id"`
	BookID int64 `json:"bookId"`
}

// FingerprintCart builds a deterministic hash of the cart snapshot a keyed
// placement consumed, so a key reused for a different snapshot is detectable.
func FingerprintCart(ownerID *int64, lines []*domain.CartLine) string {
	snapshot := normalizedCartSnapshot{
		OwnerID: ownerID,
		Lines:   make([]normalizedLine, 0, len(lines)),
	}
	for _, line := range lines {
		snapshot.Lines = append(snapshot.Lines, normalizedLine{ID: line.ID, BookID: line.BookID})
	}
	sort.Slice(snapshot.Lines, func(i, j int) bool { return snapshot.Lines[i].ID < snapshot.Lines[j].ID })
	payload, err := json.Marshal(snapshot)
	if err != nil {
		// Marshal of this shape cannot fail.
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
