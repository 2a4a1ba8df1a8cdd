package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CART_TTL_HOURS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Zero(t, cfg.CartTTLHours)
	require.Zero(t, cfg.CartTTL(), "no TTL means the API does not purge")
}

func TestLoadConfig_CartTTL(t *testing.T) {
	t.Setenv("CART_TTL_HOURS", "24")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 24, cfg.CartTTLHours)
	require.Equal(t, 24*time.Hour, cfg.CartTTL())
}

func TestLoadConfig_RejectsNonPositiveCartTTL(t *testing.T) {
	t.Setenv("CART_TTL_HOURS", "-3")

	_, err := LoadConfig()
	require.Error(t, err)
}
