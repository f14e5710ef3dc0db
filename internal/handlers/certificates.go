package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"certledger/internal/certificate"
	"certledger/internal/certify"
	"certledger/internal/middleware"
)

type CertificateHandler struct {
	svc *certify.Service
}

func NewCertificateHandler(svc *certify.Service) *CertificateHandler {
	return &CertificateHandler{svc: svc}
}

type issueRequest struct {
	Code          string `json:"code"`
	CNE           string `json:"cne"` // legacy alias for code
	CandidateName string `json:"candidate_name"`
	MajorName     string `json:"major_name"`
}

// IssueCertificate handles POST /certificates/issue-certificate
// (protected). The organization name comes from the caller's institution
// record, never from the request body.
func (h *CertificateHandler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = strings.TrimSpace(req.CNE)
	}
	if code == "" || strings.TrimSpace(req.CandidateName) == "" || strings.TrimSpace(req.MajorName) == "" {
		writeError(w, http.StatusBadRequest, "code, candidate_name and major_name are required", nil)
		return
	}

	result, err := h.svc.Issue(r.Context(), userID, certify.IssueRequest{
		Code:          code,
		CandidateName: strings.TrimSpace(req.CandidateName),
		MajorName:     strings.TrimSpace(req.MajorName),
	})
	if err != nil {
		writeError(w, statusForError(err), "Error issuing certificate", err)
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"message":             "Certificate issued successfully",
		"certificate_id":      result.CertificateID,
		"ipfs_hash":           result.ContentPointer,
		"transaction_receipt": result.Receipt,
	})
}

// VerifyCertificate handles POST /certificates/verify-certificate: public
// multipart upload, field "certificate".
func (h *CertificateHandler) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form or file too large", nil)
		return
	}

	file, err := formFileWithFallback(r, "certificate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field 'certificate' (send multipart/form-data with field name 'certificate')", nil)
		return
	}
	defer file.Close()

	document, err := io.ReadAll(file)
	if err != nil || len(document) == 0 {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file", nil)
		return
	}

	result, err := h.svc.Verify(r.Context(), document)
	if err != nil {
		if errors.Is(err, certificate.ErrExtraction) {
			writeError(w, http.StatusUnprocessableEntity, "Failed to extract certificate details", err)
			return
		}
		writeError(w, statusForError(err), "Error verifying certificate", err)
		return
	}

	msg := "Invalid certificate! It might have been tampered with."
	if result.Verified {
		msg = "Certificate is valid and verified."
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"message":        msg,
		"certificate_id": result.CertificateID,
		"status":         result.Status(),
	})
}

// formFileWithFallback prefers the named field but tolerates the aliases
// frontends tend to send.
func formFileWithFallback(r *http.Request, field string) (io.ReadCloser, error) {
	if f, _, err := r.FormFile(field); err == nil {
		return f, nil
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, fmt.Errorf("no file fields in form")
	}
	alts := []string{"uploaded_file", "file", "upload", "document", "cert"}
	for _, a := range alts {
		if f, _, err := r.FormFile(a); err == nil {
			return f, nil
		}
	}
	for k := range r.MultipartForm.File {
		if f, _, err := r.FormFile(k); err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("field %s not found", field)
}

// statusForError maps the orchestrator failure kinds to HTTP statuses:
// not-found, unprocessable input, upstream dependency failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, certify.ErrInstitutionNotFound):
		return http.StatusNotFound
	case errors.Is(err, certificate.ErrRender),
		errors.Is(err, certificate.ErrExtraction),
		errors.Is(err, certificate.ErrEncoding),
		errors.Is(err, certificate.ErrEmptyField):
		return http.StatusUnprocessableEntity
	case errors.Is(err, certify.ErrUpload),
		errors.Is(err, certify.ErrLedgerWrite),
		errors.Is(err, certify.ErrLedgerRead):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
