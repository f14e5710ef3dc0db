package certificate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrEncoding is returned when a field is not valid UTF-8 and therefore
// cannot be part of a fingerprint preimage.
var ErrEncoding = errors.New("field is not valid UTF-8")

// ComputeID derives the certificate fingerprint: the four identity fields
// concatenated in fixed order (code, candidate, major, organization) with no
// separator, hashed with SHA-256, hex-encoded in lowercase.
//
// The unseparated concatenation is kept for bit-compatibility with
// certificate IDs already recorded on the ledger; the field order is part of
// the preimage and must match at issuance and at verification.
func ComputeID(f Fields) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	for _, v := range []string{f.Code, f.CandidateName, f.MajorName, f.OrganizationName} {
		if !utf8.ValidString(v) {
			return "", fmt.Errorf("%w: %q", ErrEncoding, v)
		}
	}
	sum := sha256.Sum256([]byte(f.Code + f.CandidateName + f.MajorName + f.OrganizationName))
	return hex.EncodeToString(sum[:]), nil
}
