package certificate

import (
	"errors"
	"strings"
)

// Fields holds the four identity fields a certificate is issued for.
// The zero value is invalid; all four fields must be non-empty before a
// fingerprint can be computed.
type Fields struct {
	Code             string `json:"code"`
	CandidateName    string `json:"candidate_name"`
	MajorName        string `json:"major_name"`
	OrganizationName string `json:"organization_name"`
}

var ErrEmptyField = errors.New("certificate field must not be empty")

// Validate checks that every identity field carries a value.
func (f Fields) Validate() error {
	for name, v := range map[string]string{
		"code":              f.Code,
		"candidate_name":    f.CandidateName,
		"major_name":        f.MajorName,
		"organization_name": f.OrganizationName,
	} {
		if strings.TrimSpace(v) == "" {
			return &FieldError{Field: name, Err: ErrEmptyField}
		}
	}
	return nil
}

// FieldError reports which field failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }
