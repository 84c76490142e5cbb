package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "zonea", NormalizeName("  Zone\tA\n"))
	require.Equal(t, "", NormalizeName(" \n"))
}

func TestClosest(t *testing.T) {
	closest, sim := Closest("Zone A", []string{"VIP", " zone  a1 ", "Standing"})
	require.Equal(t, "zone  a1", closest)
	require.Greater(t, sim, 0.8)

	closest, _ = Closest("Zone A", nil)
	require.Equal(t, "", closest)

	closest, _ = Closest("Zone A", []string{"", "  "})
	require.Equal(t, "", closest)
}
