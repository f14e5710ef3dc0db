package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

// QRCodeHandler serves PNG QR codes that point at the public verification
// page for a certificate id.
type QRCodeHandler struct {
	verifyBaseURL string
}

func NewQRCodeHandler(verifyBaseURL string) *QRCodeHandler {
	return &QRCodeHandler{verifyBaseURL: strings.TrimRight(verifyBaseURL, "/")}
}

// GetCertificateQRCode handles GET /certificates/{id}/qrcode.
func (h *QRCodeHandler) GetCertificateQRCode(w http.ResponseWriter, r *http.Request) {
	certID := chi.URLParam(r, "id")
	if certID == "" {
		http.Error(w, "missing certificate id", http.StatusBadRequest)
		return
	}

	data := fmt.Sprintf("%s/verify/%s", h.verifyBaseURL, certID)
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
