package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"certledger/internal/auth"
	"certledger/internal/institutions"
	"certledger/internal/middleware"
	"certledger/internal/models"
)

// InstitutionDirectory is the directory surface this handler needs;
// satisfied by institutions.Directory.
type InstitutionDirectory interface {
	FindByUserID(ctx context.Context, userID string) (*models.Institution, error)
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, acc *models.Account, inst *models.Institution) error
	SimilarName(ctx context.Context, name string) (string, float64, bool, error)
}

// RefreshSessions issues and rotates refresh tokens; satisfied by
// auth.RefreshStore.
type RefreshSessions interface {
	Issue(ctx context.Context, userID string) (string, error)
	Rotate(ctx context.Context, token string) (string, string, error)
}

type InstitutionHandler struct {
	directory InstitutionDirectory
	tokens    *auth.Manager
	refresh   RefreshSessions
}

func NewInstitutionHandler(directory InstitutionDirectory, tokens *auth.Manager, refresh RefreshSessions) *InstitutionHandler {
	return &InstitutionHandler{directory: directory, tokens: tokens, refresh: refresh}
}

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	Address      string `json:"address"`
	PhoneNumber  string `json:"phone_number"`
	WebsiteURL   string `json:"website_url"`
	LogoURL      string `json:"logo_url"`
}

// Register handles POST /institutions/register: account sign-up plus the
// institution profile, in one shot.
func (h *InstitutionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "invalid email", nil)
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters", nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	// Guard against near-duplicate organization names: two institutions
	// issuing under confusingly similar names would undermine verification.
	existing, conf, dup, err := h.directory.SimilarName(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check institution name", err)
		return
	}
	if dup {
		writeJSONResp(w, http.StatusConflict, map[string]any{
			"error":            "an institution with a similar name is already registered",
			"existing_name":    existing,
			"match_confidence": conf,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password", nil)
		return
	}

	acc := &models.Account{ID: uuid.NewString(), Email: req.Email, PasswordHash: string(hash)}
	inst := &models.Institution{
		Name:         strings.TrimSpace(req.Name),
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		WebsiteURL:   req.WebsiteURL,
		LogoURL:      req.LogoURL,
	}
	if err := h.directory.Create(r.Context(), acc, inst); err != nil {
		if errors.Is(err, institutions.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email is already registered", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register institution", err)
		return
	}

	log.Println("registered institution:", inst.Name)
	writeJSONResp(w, http.StatusCreated, map[string]any{
		"message":     "Institution registered successfully",
		"institution": inst,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /institutions/login and returns a session: access
// token, refresh token and the access token lifetime.
func (h *InstitutionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	acc, err := h.directory.FindAccountByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, institutions.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "An error occurred during login", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	access, expiresIn, err := h.tokens.CreateAccessToken(acc.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token", nil)
		return
	}
	refresh, err := h.refresh.Issue(r.Context(), acc.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session", err)
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  access,
		"refresh_token": refresh,
		"expires_in":    expiresIn,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /institutions/refresh: rotates the refresh token and
// issues a fresh access token.
func (h *InstitutionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required", nil)
		return
	}

	userID, next, err := h.refresh.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshInvalid) {
			writeError(w, http.StatusUnauthorized, "refresh token is invalid or expired", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to refresh session", err)
		return
	}

	access, expiresIn, err := h.tokens.CreateAccessToken(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token", nil)
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"access_token":  access,
		"refresh_token": next,
		"expires_in":    expiresIn,
	})
}

// GetInstitution handles GET /institutions/institution for the
// authenticated caller.
func (h *InstitutionHandler) GetInstitution(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	inst, err := h.directory.FindByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, institutions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Institution not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "database error", err)
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{"institution": inst})
}
