package certify

import "errors"

// Step-distinct failure kinds for the issuance and verification flows.
// Render, extraction and encoding failures carry the sentinels from the
// certificate package; these cover the collaborator steps.
var (
	ErrInstitutionNotFound = errors.New("issuing institution not found")
	ErrUpload              = errors.New("content store upload failed")
	ErrLedgerWrite         = errors.New("ledger write failed")
	ErrLedgerRead          = errors.New("ledger read failed")
)
