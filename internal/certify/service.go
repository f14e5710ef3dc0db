// Package certify sequences certificate issuance and verification around
// the fingerprint protocol: render -> upload -> hash -> ledger write, and
// upload -> extract -> hash -> ledger read.
package certify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"certledger/internal/certificate"
	"certledger/internal/institutions"
	"certledger/internal/ledger"
	"certledger/internal/models"
)

// ContentStore uploads a rendered document and returns its content pointer.
type ContentStore interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Ledger records certificates and answers existence queries by fingerprint.
type Ledger interface {
	RecordCertificate(ctx context.Context, id string, f certificate.Fields, contentPointer string) (*ledger.Receipt, error)
	IsVerified(ctx context.Context, id string) (bool, error)
}

// InstitutionResolver resolves the issuing institution for an authenticated
// account id.
type InstitutionResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.Institution, error)
}

type Service struct {
	directory InstitutionResolver
	store     ContentStore
	ledger    Ledger
	workDir   string
}

// NewService wires the orchestrators. workDir holds the per-request
// document artifacts; empty means the system temp directory.
func NewService(directory InstitutionResolver, store ContentStore, ldg Ledger, workDir string) *Service {
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Service{directory: directory, store: store, ledger: ldg, workDir: workDir}
}

type IssueRequest struct {
	Code          string `json:"code"`
	CandidateName string `json:"candidate_name"`
	MajorName     string `json:"major_name"`
}

type IssuanceResult struct {
	CertificateID  string          `json:"certificate_id"`
	ContentPointer string          `json:"ipfs_hash"`
	Receipt        *ledger.Receipt `json:"transaction_receipt"`
}

type VerificationResult struct {
	CertificateID string `json:"certificate_id"`
	Verified      bool   `json:"-"`
}

// Status renders the verification verdict for the API.
func (r VerificationResult) Status() string {
	if r.Verified {
		return "verified"
	}
	return "unverified"
}

// tempPath returns a request-unique artifact path. Names are never derived
// from candidate data, so concurrent requests cannot collide.
func (s *Service) tempPath() string {
	return filepath.Join(s.workDir, uuid.NewString()+".pdf")
}

// Issue runs the issuance flow for the institution behind userID. Every
// step failure aborts the remainder; the rendered artifact is removed
// whether or not the ledger write succeeds.
func (s *Service) Issue(ctx context.Context, userID string, req IssueRequest) (*IssuanceResult, error) {
	inst, err := s.directory.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, institutions.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrInstitutionNotFound, userID)
		}
		return nil, fmt.Errorf("resolve institution: %w", err)
	}

	fields := certificate.Fields{
		Code:             req.Code,
		CandidateName:    req.CandidateName,
		MajorName:        req.MajorName,
		OrganizationName: inst.Name,
	}

	path := s.tempPath()
	defer os.Remove(path)

	if err := certificate.Render(fields, path); err != nil {
		return nil, err
	}

	contentPointer, err := s.store.Upload(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	id, err := certificate.ComputeID(fields)
	if err != nil {
		return nil, err
	}

	receipt, err := s.ledger.RecordCertificate(ctx, id, fields, contentPointer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	return &IssuanceResult{
		CertificateID:  id,
		ContentPointer: contentPointer,
		Receipt:        receipt,
	}, nil
}

// Verify re-derives the fingerprint from an uploaded document and checks it
// against the ledger. An unverified certificate is a valid negative result;
// only extraction and ledger failures are errors.
func (s *Service) Verify(ctx context.Context, document []byte) (*VerificationResult, error) {
	path := s.tempPath()
	if err := os.WriteFile(path, document, 0o600); err != nil {
		return nil, fmt.Errorf("persist uploaded document: %w", err)
	}
	defer os.Remove(path)

	fields, err := certificate.Extract(path)
	if err != nil {
		return nil, err
	}

	id, err := certificate.ComputeID(fields)
	if err != nil {
		return nil, err
	}

	verified, err := s.ledger.IsVerified(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerRead, err)
	}

	return &VerificationResult{CertificateID: id, Verified: verified}, nil
}
