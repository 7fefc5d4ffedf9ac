package tui

import (
	"bytes"
	"testing"
)

func TestCueSinkRingsOncePerTick(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCueSink(&buf, false, nil)

	sink.Play([]string{"swap_rejected", "game_over"})
	if got := buf.String(); got != "\a" {
		t.Errorf("output = %q, want one bell", got)
	}
}

func TestCueSinkQuietCues(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCueSink(&buf, false, nil)

	sink.Play([]string{"match_cleared", "swap_accepted"})
	sink.Play(nil)
	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing", buf.String())
	}
}

func TestCueSinkMuted(t *testing.T) {
	var buf bytes.Buffer
	NewCueSink(&buf, true, nil).Play([]string{"game_over"})
	if buf.Len() != 0 {
		t.Errorf("muted sink wrote %q", buf.String())
	}
}

func TestNilCueSink(t *testing.T) {
	var sink *CueSink
	sink.Play([]string{"game_over"})
}
