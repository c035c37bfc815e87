package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalinin/userkeeper/internal/common"
	"github.com/mkalinin/userkeeper/internal/logging"
	"github.com/mkalinin/userkeeper/internal/server/models"
)

type fakeUserService struct {
	registerErr error
	deleteErr   error
	listOut     []models.UserProjection
	listErr     error
}

var testAlice = &models.User{ID: 1, Username: "alice", EmailAddress: "a@example.com", PasswordHash: "hash"}

func (f *fakeUserService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: 1, Username: username, EmailAddress: email, PasswordHash: "hash"}, nil
}

func (f *fakeUserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	// Token in the username slot authenticates by itself.
	if identifier == "valid-token" {
		return testAlice, nil
	}
	if identifier == "alice" && password == "correct-pw" {
		return testAlice, nil
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeUserService) IssueToken(user *models.User) (string, error) {
	return "issued-token", nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, username string) error {
	return f.deleteErr
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]models.UserProjection, error) {
	return f.listOut, f.listErr
}

func newTestServer(t *testing.T, svc UserService) http.Handler {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServeMux(NewHandler(svc, logger), logger)
}

func doRequest(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHello(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	for _, path := range []string{"/", "/index"} {
		rec := doRequest(t, h, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		assert.Equal(t, "Hello World!", rec.Body.String())
	}
}

func TestCreateUser_Success(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	body := `{"username":"alice","password":"s3cret","email":"a@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	rec := doRequest(t, h, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, "a@example.com", resp["email"])
	assert.NotContains(t, rec.Body.String(), "hash", "projection must not expose the password hash")
}

func TestCreateUser_Duplicate(t *testing.T) {
	h := newTestServer(t, &fakeUserService{registerErr: common.ErrorAlreadyExists})

	body := `{"username":"alice","password":"s3cret","email":"a@example.com"}`
	rec := doRequest(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUser_BadRequests(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{not json`},
		{name: "missing password", body: `{"username":"alice","email":"a@example.com"}`},
		{name: "missing username", body: `{"password":"pw","email":"a@example.com"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetToken_RequiresCredentials(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	rec := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/token", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
}

func TestGetToken_WithPassword(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/token", nil)
	req.SetBasicAuth("alice", "correct-pw")
	rec := doRequest(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "issued-token", resp["token"])
}

func TestGetToken_WithTokenAsUsername(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/token", nil)
	req.SetBasicAuth("valid-token", "")
	rec := doRequest(t, h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetToken_WrongPassword(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/token", nil)
	req.SetBasicAuth("alice", "wrong-pw")
	rec := doRequest(t, h, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListUsers_Protected(t *testing.T) {
	svc := &fakeUserService{listOut: []models.UserProjection{
		{Username: "alice", Email: "a@example.com"},
		{Username: "bob", Email: "b@example.com"},
	}}
	h := newTestServer(t, svc)

	rec := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.SetBasicAuth("alice", "correct-pw")
	rec = doRequest(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.UserProjection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestDeleteUser(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/bob", nil)
	req.SetBasicAuth("alice", "correct-pw")
	rec := doRequest(t, h, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteUser_NotFound(t *testing.T) {
	h := newTestServer(t, &fakeUserService{deleteErr: common.ErrorNotFound})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/ghost", nil)
	req.SetBasicAuth("alice", "correct-pw")
	rec := doRequest(t, h, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(t, &fakeUserService{})

	rec := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
