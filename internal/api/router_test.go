package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohits-web03/filekeep/internal/api/handlers"
	"github.com/rohits-web03/filekeep/internal/config"
	"github.com/rohits-web03/filekeep/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	blobDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := repositories.OpenDatabase(repositories.DBConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repositories.Close(db) })

	blobDir := t.TempDir()
	blobs, err := repositories.NewDiskStore(blobDir)
	require.NoError(t, err)

	cfg := config.Config{
		DBDriver:    "sqlite",
		DBURL:       ":memory:",
		Port:        "8080",
		JWTSecret:   "test-secret",
		Environment: "test",
		UploadDir:   blobDir,
		MaxUploadMB: 1,
		BlobBackend: "disk",
		CorsConfig:  config.CorsConfig("http://localhost:5173"),
	}

	return &testServer{
		t:       t,
		handler: SetupRouter(handlers.Deps{Config: cfg, DB: db, Blobs: blobs}),
		blobDir: blobDir,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(method, target string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(handlers.AccessTokenHeader, token)
	}
	rec := s.do(req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

type account struct {
	ID          string `json:"id"`
	AccessToken string `json:"accessToken"`
	session     *http.Cookie
}

func (s *testServer) signUp(username string) *account {
	s.t.Helper()
	rec, env := s.json(http.MethodPost, "/api/v1/auth/sign-up", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse",
	}, "")
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var acc account
	require.NoError(s.t, json.Unmarshal(env.Data, &acc))
	require.NotEmpty(s.t, acc.ID)
	require.NotEmpty(s.t, acc.AccessToken)

	rec, _ = s.json(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "correct-horse",
	}, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			acc.session = c
		}
	}
	require.NotNil(s.t, acc.session, "login sets the session cookie")
	return &acc
}

type uploaded struct {
	ID     string `json:"id"`
	Public bool   `json:"public"`
	URL    string `json:"url"`
}

func (s *testServer) upload(acc *account, name, content, access string) (*httptest.ResponseRecorder, uploaded) {
	s.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(s.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	target := "/api/v1/files"
	if access != "" {
		target += "?access=" + access
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if acc != nil {
		req.AddCookie(acc.session)
	}
	rec := s.do(req)

	var out uploaded
	if rec.Code == http.StatusCreated {
		var env envelope
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.NoError(s.t, json.Unmarshal(env.Data, &out))
	}
	return rec, out
}

func fileURL(acc *account, file string) string {
	return "/api/v1/users/" + acc.ID + "/files/" + file
}

func errorKind(t *testing.T, env envelope) string {
	t.Helper()
	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data["error"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestUploadRequiresSession(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.upload(nil, "a.txt", "hello", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.json(http.MethodGet, "/api/v1/files", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadRejectsInvalidAccess(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")

	rec, _ := s.upload(acc, "a.txt", "hello", "shared")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "value received: shared")
}

func TestUploadSizeLimit(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")

	rec, _ := s.upload(acc, "exact.txt", strings.Repeat("a", 1<<20), "")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = s.upload(acc, "over.txt", strings.Repeat("a", 1<<20+1), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds 1 MB limit")

	// Far over the cap, the body reader itself stops the upload.
	rec, _ = s.upload(acc, "huge.txt", strings.Repeat("a", 3<<20), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(s.blobDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rejected uploads leave no blob")
}

func TestPublicFileDownload(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")

	rec, up := s.upload(acc, "hello.txt", "hello world", "public")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, up.Public)
	assert.Equal(t, fileURL(acc, up.ID), up.URL)

	// No token needed, by id or by original name.
	for _, key := range []string{up.ID, "hello.txt"} {
		rec = s.do(httptest.NewRequest(http.MethodGet, fileURL(acc, key), nil))
		require.Equal(t, http.StatusOK, rec.Code, key)
		assert.Equal(t, "hello world", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "hello.txt")
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	}
}

func TestPrivateFileNeedsToken(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")

	rec, up := s.upload(acc, "secret.txt", "top secret", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.False(t, up.Public, "uploads are private by default")

	rec, env := s.json(http.MethodGet, fileURL(acc, up.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_access_token", errorKind(t, env))

	rec, env = s.json(http.MethodGet, fileURL(acc, up.ID), nil, "wrong")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_token", errorKind(t, env))

	rec, _ = s.json(http.MethodGet, fileURL(acc, up.ID), nil, acc.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "top secret", rec.Body.String())

	// The query parameter works as well as the header.
	rec = s.do(httptest.NewRequest(http.MethodGet, fileURL(acc, up.ID)+"?token="+acc.AccessToken, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenDoesNotCrossUsers(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	bob := s.signUp("bob")

	rec, up := s.upload(alice, "secret.txt", "top secret", "private")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.json(http.MethodGet, fileURL(alice, up.ID), nil, bob.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_token", errorKind(t, env))

	// Alice's file is not visible under Bob's id.
	rec, env = s.json(http.MethodGet, fileURL(bob, up.ID), nil, bob.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "file_not_found", errorKind(t, env))
}

func TestUpdateFileAccess(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")
	rec, up := s.upload(acc, "doc.txt", "content", "private")
	require.Equal(t, http.StatusCreated, rec.Code)

	target := fileURL(acc, up.ID) + "/access"

	rec, env := s.json(http.MethodPut, target, map[string]string{"access": "public"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_access_token", errorKind(t, env))

	rec, env = s.json(http.MethodPut, target, map[string]string{"access": "everyone"}, acc.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_access_value", errorKind(t, env))

	rec, env = s.json(http.MethodPut, target, nil, acc.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_argument", errorKind(t, env))

	rec, env = s.json(http.MethodPut, target, map[string]string{"access": "PUBLIC"}, acc.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"public":true}`, string(env.Data))

	// Public now, so no token needed.
	rec = s.do(httptest.NewRequest(http.MethodGet, fileURL(acc, up.ID), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// ?access= is accepted when the body is empty.
	rec, env = s.json(http.MethodPut, target+"?access=private", nil, acc.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"public":false}`, string(env.Data))
}

func TestDeleteLifecycle(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")
	rec, up := s.upload(acc, "gone.txt", "bye", "public")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.json(http.MethodDelete, fileURL(acc, up.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_access_token", errorKind(t, env))

	rec, _ = s.json(http.MethodDelete, fileURL(acc, up.ID), nil, acc.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entries, err := os.ReadDir(s.blobDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "blob removed")

	rec, env = s.json(http.MethodDelete, fileURL(acc, up.ID), nil, acc.AccessToken)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_deleted", errorKind(t, env))

	rec, env = s.json(http.MethodGet, fileURL(acc, up.ID), nil, "")
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "file_deleted", errorKind(t, env))

	rec, env = s.json(http.MethodPut, fileURL(acc, up.ID)+"/access", map[string]string{"access": "private"}, acc.AccessToken)
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "file_deleted", errorKind(t, env))

	// Metadata survives the delete.
	rec, env = s.json(http.MethodGet, fileURL(acc, up.ID)+"/metadata", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var md map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &md))
	assert.Equal(t, "gone.txt", md["name"])
	assert.EqualValues(t, 3, md["size"])
	assert.NotEmpty(t, md["created"])
	assert.NotEmpty(t, md["deleted"])
	assert.NotContains(t, md, "updated", "delete does not count as an update")
}

func TestDeleteWithMissingBlob(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")
	rec, up := s.upload(acc, "lost.txt", "bytes", "public")
	require.Equal(t, http.StatusCreated, rec.Code)

	entries, err := os.ReadDir(s.blobDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.Remove(filepath.Join(s.blobDir, entries[0].Name())))

	rec, env := s.json(http.MethodDelete, fileURL(acc, up.ID), nil, acc.AccessToken)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "storage_failure", errorKind(t, env))

	// The record stays marked deleted.
	rec, env = s.json(http.MethodDelete, fileURL(acc, up.ID), nil, acc.AccessToken)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_deleted", errorKind(t, env))
}

func TestMetadataPrivateFile(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")
	rec, up := s.upload(acc, "notes.txt", "private notes", "private")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.json(http.MethodGet, fileURL(acc, "notes.txt")+"/metadata", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_access_token", errorKind(t, env))

	rec, env = s.json(http.MethodGet, fileURL(acc, up.ID)+"/metadata", nil, acc.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var md map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &md))
	assert.Equal(t, "notes.txt", md["name"])
	assert.NotContains(t, md, "updated")
	assert.NotContains(t, md, "deleted")

	rec, env = s.json(http.MethodGet, fileURL(acc, "missing.txt")+"/metadata", nil, acc.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "file_not_found", errorKind(t, env))
}

func TestListFilesAndAccessToken(t *testing.T) {
	s := newTestServer(t)
	acc := s.signUp("alice")
	_, first := s.upload(acc, "a.txt", "aaa", "public")
	_, second := s.upload(acc, "b.txt", "bbbb", "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	req.AddCookie(acc.session)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var files []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &files))
	require.Len(t, files, 2)

	ids := []any{files[0]["id"], files[1]["id"]}
	assert.ElementsMatch(t, []any{first.ID, second.ID}, ids)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/token", nil)
	req.AddCookie(acc.session)
	rec = s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var tok account
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, acc.AccessToken, tok.AccessToken)
}

func TestSignUpAndLoginErrors(t *testing.T) {
	s := newTestServer(t)
	s.signUp("alice")

	rec, _ := s.json(http.MethodPost, "/api/v1/auth/sign-up", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "correct-horse",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.json(http.MethodPost, "/api/v1/auth/sign-up", map[string]string{
		"username": "al", "email": "not-an-email", "password": "short",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.json(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "alice", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.json(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "nobody", "password": "correct-horse",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleLoginDisabled(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
