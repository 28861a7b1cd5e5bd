package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/hashing"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/services"
)

// fakeDirectory is a minimal read-only user directory for handler tests.
type fakeDirectory struct {
	byName  map[string]*models.User
	findErr error
}

func (f *fakeDirectory) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeDirectory) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := f.byName[username]
	return ok, nil
}

func (f *fakeDirectory) Save(ctx context.Context, user *models.User) (*models.User, error) {
	return user, nil
}

func newTestServer(t *testing.T, dir *fakeDirectory, lifetime time.Duration) (*Server, *auth.Issuer) {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	issuer, err := auth.NewIssuer("test-secret!test-secret!test-secret!", lifetime)
	require.NoError(t, err)

	authService, err := services.NewAuthService(dir, hashing.NewBcryptHasher(bcrypt.MinCost), issuer, logger)
	require.NoError(t, err)

	return NewServer(":0", authService, issuer, logger), issuer
}

func dirWithUser(t *testing.T, username, password string, active bool) *fakeDirectory {
	t.Helper()
	digest, err := hashing.NewBcryptHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	return &fakeDirectory{byName: map[string]*models.User{
		username: {ID: "u-1", Username: username, PasswordDigest: digest, Active: active},
	}}
}

func doLogin(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleLogin_Success(t *testing.T) {
	srv, issuer := newTestServer(t, dirWithUser(t, "admin", "Secret123!", true), time.Hour)

	rec := doLogin(t, srv.Handler(), `{"username":"admin","password":"Secret123!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.True(t, issuer.Validate(resp.Token, "admin"))
	assert.False(t, issuer.Validate(resp.Token, "someoneelse"))
}

func TestHandleLogin_RejectionBodiesAreIdentical(t *testing.T) {
	srv, _ := newTestServer(t, dirWithUser(t, "admin", "Secret123!", true), time.Hour)
	disabledSrv, _ := newTestServer(t, dirWithUser(t, "admin", "Secret123!", false), time.Hour)

	wrongPassword := doLogin(t, srv.Handler(), `{"username":"admin","password":"wrong"}`)
	unknownUser := doLogin(t, srv.Handler(), `{"username":"ghost","password":"Secret123!"}`)
	disabled := doLogin(t, disabledSrv.Handler(), `{"username":"admin","password":"Secret123!"}`)

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownUser, disabled} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.Equal(t, wrongPassword.Body.String(), disabled.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "invalid credentials")
}

func TestHandleLogin_DirectoryOutage(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDirectory{findErr: errors.New("db down")}, time.Hour)

	rec := doLogin(t, srv.Handler(), `{"username":"admin","password":"Secret123!"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestHandleLogin_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t, dirWithUser(t, "admin", "Secret123!", true), time.Hour)

	rec := doLogin(t, srv.Handler(), `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLogin_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, dirWithUser(t, "admin", "Secret123!", true), time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDirectory{}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
