package application

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
)

func TestFingerprintCart_StableAcrossLineOrder(t *testing.T) {
	owner := int64(7)
	a := FingerprintCart(&owner, []*domain.CartLine{
		{ID: 1, BookID: 10},
		{ID: 2, BookID: 20},
	})
	b := FingerprintCart(&owner, []*domain.CartLine{
		{ID: 2, BookID: 20},
		{ID: 1, BookID: 10},
	})
	require.Equal(t, a, b)
	require.NotEmpty(t, a)
}

func TestFingerprintCart_DiffersOnContent(t *testing.T) {
	owner := int64(7)
	base := FingerprintCart(&owner, []*domain.CartLine{{ID: 1, BookID: 10}})

	otherBook := FingerprintCart(&owner, []*domain.CartLine{{ID: 1, BookID: 11}})
	require.NotEqual(t, base, otherBook)

	otherOwner := int64(8)
	require.NotEqual(t, base, FingerprintCart(&otherOwner, []*domain.CartLine{{ID: 1, BookID: 10}}))

	require.NotEqual(t, base, FingerprintCart(nil, []*domain.CartLine{{ID: 1, BookID: 10}}))
}
