package certificate

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/require"
)

func TestTextLinesGroupsGlyphsByBaseline(t *testing.T) {
	// Glyphs arrive in arbitrary order; lines must come out top to bottom
	// with glyphs ordered left to right within each line.
	glyphs := []pdf.Text{
		{S: "Jane", X: 200, Y: 650},
		{S: "Acme", X: 180, Y: 745},
		{S: " Doe", X: 230, Y: 650},
		{S: " Institute", X: 220, Y: 745},
		{S: "12345", X: 210, Y: 600},
	}
	require.Equal(t, []string{"Acme Institute", "Jane Doe", "12345"}, textLines(glyphs))
}

func TestTextLinesToleratesBaselineJitter(t *testing.T) {
	// Sub-point baseline differences within one visual line must not split
	// it, and must not scramble the left-to-right glyph order.
	glyphs := []pdf.Text{
		{S: " Institute", X: 220, Y: 745.4},
		{S: "Acme", X: 180, Y: 745},
	}
	require.Equal(t, []string{"Acme Institute"}, textLines(glyphs))
}

func TestTextLinesSplitsDistinctBaselines(t *testing.T) {
	// A page whose glyphs share no segmentation hints must still produce
	// one line per distinct baseline, never a single merged row.
	glyphs := []pdf.Text{
		{S: "Acme Institute", X: 180, Y: 745},
		{S: "Certificate of Completion", X: 140, Y: 700},
		{S: "This is to certify that", X: 170, Y: 660},
		{S: "Jane Doe", X: 200, Y: 630},
		{S: "with code", X: 195, Y: 600},
		{S: "12345", X: 210, Y: 570},
	}
	lines := textLines(glyphs)
	require.Len(t, lines, 6)
	require.Equal(t, "Acme Institute", lines[0])
	require.Equal(t, "12345", lines[5])
}

func TestTextLinesDropsWhitespaceOnlyLines(t *testing.T) {
	glyphs := []pdf.Text{
		{S: "Acme Institute", X: 180, Y: 745},
		{S: "   ", X: 180, Y: 700},
		{S: "Jane Doe", X: 200, Y: 650},
	}
	require.Equal(t, []string{"Acme Institute", "Jane Doe"}, textLines(glyphs))
}

func TestTextLinesEmpty(t *testing.T) {
	require.Empty(t, textLines(nil))
}
