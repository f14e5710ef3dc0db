package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certledger/internal/auth"
	"certledger/internal/handlers"
	"certledger/internal/middleware"
)

type Deps struct {
	Institutions    *handlers.InstitutionHandler
	Certificates    *handlers.CertificateHandler
	QRCodes         *handlers.QRCodeHandler
	Tokens          *auth.Manager
	ContractAddress string
}

func RegisterRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"address": deps.ContractAddress})
	})
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	r.Route("/institutions", func(r chi.Router) {
		r.Post("/register", deps.Institutions.Register)
		r.Post("/login", deps.Institutions.Login)
		r.Post("/refresh", deps.Institutions.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Tokens))
			r.Get("/institution", deps.Institutions.GetInstitution)
		})
	})

	r.Route("/certificates", func(r chi.Router) {
		r.Post("/verify-certificate", deps.Certificates.VerifyCertificate)
		r.Get("/{id}/qrcode", deps.QRCodes.GetCertificateQRCode)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Tokens))
			r.Post("/issue-certificate", deps.Certificates.IssueCertificate)
		})
	})

	return r
}
