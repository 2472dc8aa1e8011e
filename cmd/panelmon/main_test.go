package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

func TestDescribe(t *testing.T) {
	typed, err := msgs.TypedFrom(&msgs.PanelReading{Tuner: 473})
	require.NoError(t, err)
	pkt, err := typed.Encode()
	require.NoError(t, err)
	out := describe("radiopanel/a/msg", pkt)
	require.Contains(t, out, "radiopanel/a/msg: [PanelReading]")
	require.Contains(t, out, "tuner:473")

	require.Equal(t, "radiopanel/a/meta: (gone)", describe("radiopanel/a/meta", nil))
	require.Equal(t, `radiopanel/a/meta: {"description":"x"}`, describe("radiopanel/a/meta", []byte(`{"description":"x"}`)))
	require.Contains(t, describe("radiopanel/a/msg", []byte{0xff}), "bad message")
	require.Equal(t, "other/topic: (not a panel topic)", describe("other/topic", []byte{1}))
}
