package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestAdvise(t *testing.T) {
	tests := []struct {
		cmd  AdviseCmd
		want string
	}{
		{AdviseCmd{Cards: []string{"TS", "6H"}, Upcard: "7C"}, "hit: hard 16 against 7♣ (hard table)"},
		{AdviseCmd{Cards: []string{"AS", "7H"}, Upcard: "6C"}, "double: soft 18 against 6♣ (soft table)"},
		{AdviseCmd{Cards: []string{"8S", "8H"}, Upcard: "AC"}, "split: hard 16 against A♣ (pair table)"},
		{AdviseCmd{Cards: []string{"8S", "8H"}, Upcard: "AC", NoSplit: true}, "hit: hard 16 against A♣ (hard table)"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, tt.cmd.advise(&buf))
		assert.Equal(t, tt.want, strings.TrimSpace(buf.String()))
	}

	bad := AdviseCmd{Cards: []string{"TS", "XX"}, Upcard: "7C"}
	assert.Error(t, bad.advise(&bytes.Buffer{}))

	bust := AdviseCmd{Cards: []string{"TS", "TH", "5C"}, Upcard: "7C"}
	assert.Error(t, bust.advise(&bytes.Buffer{}))
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	renderChart(&buf)
	out := buf.String()

	for _, want := range []string{"Hard totals", "Soft totals", "Pairs", "AA", "A9", "21", "H hit"} {
		assert.Contains(t, out, want)
	}
	// 17 hard + 9 soft + 10 pair rows, each with one label
	assert.GreaterOrEqual(t, strings.Count(out, "│"), 36)
}
