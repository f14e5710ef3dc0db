package certificate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtraction is returned when the identity fields cannot be recovered
// from an uploaded document.
var ErrExtraction = errors.New("failed to extract certificate fields")

// Extract recovers the four identity fields from the first page of a
// rendered certificate at path, using the positional row contract defined in
// render.go. Field contents are whitespace-trimmed but not otherwise
// validated.
func Extract(path string) (f Fields, err error) {
	// The pdf package panics on some malformed inputs; an uploaded document
	// is untrusted, so fold panics into the extraction error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed document: %v", ErrExtraction, r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return Fields{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer file.Close()

	if reader.NumPage() < 1 {
		return Fields{}, fmt.Errorf("%w: document has no pages", ErrExtraction)
	}
	page := reader.Page(1)
	if page.V.IsNull() {
		return Fields{}, fmt.Errorf("%w: first page is empty", ErrExtraction)
	}

	lines := textLines(page.Content().Text)
	if len(lines) == 0 {
		return Fields{}, fmt.Errorf("%w: no text found on first page", ErrExtraction)
	}
	if len(lines) < minRows {
		return Fields{}, fmt.Errorf("%w: expected at least %d text rows, got %d", ErrExtraction, minRows, len(lines))
	}

	return Fields{
		OrganizationName: lines[rowOrganization],
		CandidateName:    lines[rowCandidate],
		Code:             lines[rowCode],
		MajorName:        lines[len(lines)-1],
	}, nil
}

// Glyphs whose baselines differ by no more than this many points belong to
// the same text line.
const lineTolerance = 2.0

// textLines groups page glyphs into trimmed, non-empty text lines ordered
// top to bottom. Grouping goes by each glyph's own baseline Y coordinate:
// the library's row segmentation cannot be trusted (it reports the whole
// page as a single row for some generators), but the per-glyph coordinates
// are exact. PDF y-coordinates grow upward, so the topmost line has the
// greatest Y.
func textLines(texts []pdf.Text) []string {
	if len(texts) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var groups [][]pdf.Text
	current := []pdf.Text{sorted[0]}
	lineY := sorted[0].Y
	for _, t := range sorted[1:] {
		if lineY-t.Y > lineTolerance {
			groups = append(groups, current)
			current = nil
			lineY = t.Y
		}
		current = append(current, t)
	}
	groups = append(groups, current)

	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool { return group[i].X < group[j].X })
		var b strings.Builder
		for _, t := range group {
			b.WriteString(t.S)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}
