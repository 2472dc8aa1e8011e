package l1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseControllerRef(t *testing.T) {
	ref, err := ParseControllerRef("kitchen")
	require.NoError(t, err)
	require.Equal(t, ControllerRef{Type: PanelType, ID: "kitchen"}, ref)
	require.Equal(t, "radiopanel/kitchen", ref.Name())

	ref, err = ParseControllerRef("bench/p1")
	require.NoError(t, err)
	require.Equal(t, ControllerRef{Type: "bench", ID: "p1"}, ref)

	for _, s := range []string{"", "a/", "/b", "a/b/c", "a+", "#"} {
		_, err = ParseControllerRef(s)
		require.Error(t, err, s)
	}
}
