package handlers

// Shared fakes and helpers for the handler tests. The stores are small
// in-memory implementations of the service interfaces so the route tests
// can assert on real upsert/filter/sort behavior without Mongo.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/donteatkebab/backend/internal/models"
	"github.com/donteatkebab/backend/internal/services"
)

const (
	testToken  = "valid-token"
	testUserID = "user-1"
	testEmail  = "ana@example.com"
)

type fakeIdentity struct {
	signUpFn     func(ctx context.Context, email, password string) (*models.Identity, error)
	signInFn     func(ctx context.Context, email, password string) (*models.Session, error)
	verifyCalled bool
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	if f.signUpFn != nil {
		return f.signUpFn(ctx, email, password)
	}
	return &models.Identity{ID: "new-user", Email: email}, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if f.signInFn != nil {
		return f.signInFn(ctx, email, password)
	}
	return &models.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         models.Identity{ID: testUserID, Email: email},
	}, nil
}

func (f *fakeIdentity) VerifyToken(ctx context.Context, token string) (*models.Identity, error) {
	f.verifyCalled = true
	if token != testToken {
		return nil, services.ErrInvalidToken
	}
	return &models.Identity{ID: testUserID, Email: testEmail}, nil
}

type memProfileStore struct {
	profiles     map[string]models.Profile
	createFail   bool
	upsertErr    error
	setAvatarErr error
	listErr      error
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[string]models.Profile)}
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

func (m *memProfileStore) GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return &p, nil
	}
	if m.createFail {
		return nil, services.ErrProfileCreateFailed
	}
	p := models.Profile{
		ID:        userID,
		Email:     email,
		Username:  localPart(email),
		UpdatedAt: time.Now().UTC(),
	}
	m.profiles[userID] = p
	return &p, nil
}

func (m *memProfileStore) Upsert(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	p := m.profiles[userID]
	p.ID = userID
	if req.Username != nil {
		p.Username = *req.Username
	}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		p.AvatarURL = req.AvatarURL
	}
	p.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = p
	return &p, nil
}

func (m *memProfileStore) SetAvatarURL(ctx context.Context, userID, url string) error {
	if m.setAvatarErr != nil {
		return m.setAvatarErr
	}
	p := m.profiles[userID]
	p.ID = userID
	p.AvatarURL = &url
	p.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = p
	return nil
}

func (m *memProfileStore) ListAll(ctx context.Context) ([]models.Profile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memWeightStore struct {
	rows      map[string]models.WeightLog
	upsertErr error
	listErr   error
}

func newMemWeightStore() *memWeightStore {
	return &memWeightStore{rows: make(map[string]models.WeightLog)}
}

func (m *memWeightStore) Upsert(ctx context.Context, userID string, date models.Date, weight float64) (*models.WeightLog, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	row := models.WeightLog{UserID: userID, Weight: weight, LogDate: date}
	m.rows[userID+"|"+date.String()] = row
	return &row, nil
}

func (m *memWeightStore) ListByUser(ctx context.Context, userID string, start, end *models.Date) ([]models.WeightLog, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.WeightLog, 0)
	for _, row := range m.rows {
		if row.UserID != userID {
			continue
		}
		if start != nil && row.LogDate.String() < start.String() {
			continue
		}
		if end != nil && row.LogDate.String() > end.String() {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogDate.String() > out[j].LogDate.String() })
	return out, nil
}

func (m *memWeightStore) ListByDate(ctx context.Context, date models.Date) ([]models.WeightLog, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.WeightLog, 0)
	for _, row := range m.rows {
		if row.LogDate.String() == date.String() {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeAvatarStore struct {
	uploads   []string
	deletes   []string
	uploadErr error
}

func (f *fakeAvatarStore) Upload(ctx context.Context, key, contentType string, data io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	io.Copy(io.Discard, data)
	f.uploads = append(f.uploads, key)
	return "https://storage.googleapis.com/avatars/" + key, nil
}

func (f *fakeAvatarStore) Delete(ctx context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

type testEnv struct {
	router   *chi.Mux
	identity *fakeIdentity
	profiles *memProfileStore
	weights  *memWeightStore
	avatars  *fakeAvatarStore
}

func newTestEnv() *testEnv {
	return newTestEnvWithUploadCap(5 * 1024 * 1024)
}

func newTestEnvWithUploadCap(maxUploadBytes int64) *testEnv {
	env := &testEnv{
		identity: &fakeIdentity{},
		profiles: newMemProfileStore(),
		weights:  newMemWeightStore(),
		avatars:  &fakeAvatarStore{},
	}
	env.router = NewRouter(RouterConfig{
		AllowedOrigins: []string{"*"},
		MaxUploadBytes: maxUploadBytes,
	}, env.identity, env.profiles, env.weights, env.avatars, zerolog.Nop())
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, path, token, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="avatar%s"`, ".bin"))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func errorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	decodeBody(t, rec, &body)
	return body.Detail
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}
