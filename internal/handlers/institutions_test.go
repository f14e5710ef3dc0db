package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"certledger/internal/auth"
	"certledger/internal/institutions"
	"certledger/internal/models"
)

type fakeInstitutionDirectory struct {
	account     *models.Account
	accountErr  error
	createErr   error
	created     []*models.Institution
	similarName string
	similarConf float64
	similarDup  bool
	similarErr  error
}

func (f *fakeInstitutionDirectory) FindByUserID(_ context.Context, _ string) (*models.Institution, error) {
	return nil, institutions.ErrNotFound
}

func (f *fakeInstitutionDirectory) FindAccountByEmail(_ context.Context, _ string) (*models.Account, error) {
	return f.account, f.accountErr
}

func (f *fakeInstitutionDirectory) Create(_ context.Context, _ *models.Account, inst *models.Institution) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, inst)
	return nil
}

func (f *fakeInstitutionDirectory) SimilarName(_ context.Context, _ string) (string, float64, bool, error) {
	return f.similarName, f.similarConf, f.similarDup, f.similarErr
}

type fakeSessions struct {
	rotateErr error
}

func (f *fakeSessions) Issue(_ context.Context, _ string) (string, error) {
	return "refresh-token-1", nil
}

func (f *fakeSessions) Rotate(_ context.Context, _ string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	return "user-1", "refresh-token-2", nil
}

func newInstitutionHandler(dir *fakeInstitutionDirectory, sessions *fakeSessions) *InstitutionHandler {
	return NewInstitutionHandler(dir, auth.NewManager("test-secret", time.Hour), sessions)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

var registerPayload = map[string]string{
	"email":         "registrar@acme.edu",
	"password":      "sup3rsecret",
	"name":          "Acme Institute",
	"contact_email": "contact@acme.edu",
}

func TestRegisterInstitution(t *testing.T) {
	dir := &fakeInstitutionDirectory{}
	h := newInstitutionHandler(dir, &fakeSessions{})

	rec := postJSON(t, h.Register, "/institutions/register", registerPayload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, dir.created, 1)
	require.Equal(t, "Acme Institute", dir.created[0].Name)
}

func TestRegisterSimilarNameConflict(t *testing.T) {
	dir := &fakeInstitutionDirectory{similarName: "Acme Institute", similarConf: 0.97, similarDup: true}
	h := newInstitutionHandler(dir, &fakeSessions{})

	rec := postJSON(t, h.Register, "/institutions/register", registerPayload)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Empty(t, dir.created)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Acme Institute", body["existing_name"])
}

func TestRegisterNameCheckFailure(t *testing.T) {
	// A directory error during the duplicate-name check must fail the
	// registration, not silently skip the guard.
	dir := &fakeInstitutionDirectory{similarErr: errors.New("database unreachable")}
	h := newInstitutionHandler(dir, &fakeSessions{})

	rec := postJSON(t, h.Register, "/institutions/register", registerPayload)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, dir.created)
}

func TestRegisterEmailTaken(t *testing.T) {
	// ErrEmailTaken maps to 409 whether it comes from the pre-check or from
	// a unique-index violation under concurrent registration.
	dir := &fakeInstitutionDirectory{createErr: institutions.ErrEmailTaken}
	h := newInstitutionHandler(dir, &fakeSessions{})

	rec := postJSON(t, h.Register, "/institutions/register", registerPayload)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.MinCost)
	require.NoError(t, err)
	dir := &fakeInstitutionDirectory{account: &models.Account{ID: "user-1", Email: "registrar@acme.edu", PasswordHash: string(hash)}}
	h := newInstitutionHandler(dir, &fakeSessions{})

	rec := postJSON(t, h.Login, "/institutions/login", map[string]string{
		"email":    "registrar@acme.edu",
		"password": "sup3rsecret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["access_token"])
	require.Equal(t, "refresh-token-1", body["refresh_token"])
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.MinCost)
	require.NoError(t, err)
	dir := &fakeInstitutionDirectory{account: &models.Account{ID: "user-1", PasswordHash: string(hash)}}
	h := newInstitutionHandler(dir, &fakeSessions{})

	rec := postJSON(t, h.Login, "/institutions/login", map[string]string{
		"email":    "registrar@acme.edu",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	dir := &fakeInstitutionDirectory{accountErr: institutions.ErrNotFound}
	h := newInstitutionHandler(dir, &fakeSessions{})

	rec := postJSON(t, h.Login, "/institutions/login", map[string]string{
		"email":    "nobody@acme.edu",
		"password": "whatever",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshInvalidToken(t *testing.T) {
	h := newInstitutionHandler(&fakeInstitutionDirectory{}, &fakeSessions{rotateErr: auth.ErrRefreshInvalid})

	rec := postJSON(t, h.Refresh, "/institutions/refresh", map[string]string{
		"refresh_token": "stale",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
