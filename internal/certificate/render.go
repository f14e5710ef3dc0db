package certificate

import (
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ErrRender is returned when the PDF document could not be produced.
var ErrRender = errors.New("failed to render certificate")

// The renderer and extractor share a positional contract: the rendered page
// must yield exactly this text-row layout, top to bottom. Any change here
// requires a lockstep change in extract.go.
//
//	row 0: organization name
//	row 1: "Certificate of Completion"
//	row 2: "This is to certify that"
//	row 3: candidate name
//	row 4: "with code"
//	row 5: code
//	row 6: "has successfully completed the major:"
//	row 7 (last): major name
const (
	rowOrganization = 0
	rowCandidate    = 3
	rowCode         = 5
	minRows         = rowCode + 1
)

// Render writes a single-page certificate PDF for the given fields to path.
// No network or ledger access; the caller owns cleanup of the artifact.
func Render(f Fields, path string) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(0, 10, tr(f.OrganizationName), "", 1, "C", false, 0, "")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 25)
	pdf.CellFormat(0, 12, "Certificate of Completion", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 8, tr(f.CandidateName), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 8, "with code", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 8, tr(f.Code), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 8, "has successfully completed the major:", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 8, tr(f.MajorName), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}
