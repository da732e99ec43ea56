package handlers_test

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
	"strings"
	"sync"
	"testing"
	"time"

	"Gallerist/internal/config"
	"Gallerist/internal/handlers"
	"Gallerist/internal/media"
	"Gallerist/internal/repo"
	"Gallerist/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cdnPrefix = "https://cdn.test/"

// memStore — media.Store в памяти с управляемыми сбоями.
type memStore struct {
	mu         sync.Mutex
	objects    map[string]int
	deleted    []string
	n          int
	failStore  bool
	failDelete bool
}

func newMemStore() *memStore { return &memStore{objects: map[string]int{}} }

func (s *memStore) Store(_ context.Context, f media.File) (media.StoredImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStore {
		return media.StoredImage{}, fmt.Errorf("%w: host unavailable", media.ErrUpload)
	}
	s.n++
	h := fmt.Sprintf("subline-gallery/img-%d", s.n)
	s.objects[h] = len(f.Data)
	return media.StoredImage{URL: cdnPrefix + h + ".png", Handle: h, Size: int64(len(f.Data))}, nil
}

func (s *memStore) Delete(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, handle)
	if s.failDelete {
		return fmt.Errorf("%w: host unavailable", media.ErrDelete)
	}
	delete(s.objects, handle)
	return nil
}

func (s *memStore) DeriveHandle(url string) (string, error) {
	if !strings.HasPrefix(url, cdnPrefix) {
		return "", media.ErrBadURL
	}
	// ?v=N — другая версия того же объекта
	url, _, _ = strings.Cut(url, "?")
	return strings.TrimSuffix(strings.TrimPrefix(url, cdnPrefix), ".png"), nil
}

func (s *memStore) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type testServer struct {
	router http.Handler
	db     *gorm.DB
	store  *memStore
	cfg    *config.Config
}

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		AppEnv:            config.EnvDevelopment,
		AuthSecret:        "test-secret",
		TokenTTL:          time.Hour,
		AllowRegistration: "false",
		CORSOrigins:       "*",
		MediaMaxMB:        1,
	}
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zap.NewNop().Sugar()
	store := newMemStore()
	guard := media.NewGuard(store, cfg.MediaMaxBytes())

	admins := repo.NewAdminRepository(db)
	categories := repo.NewCategoryRepository(db)
	items := repo.NewGalleryRepository(db)

	auth := service.NewAuthService(admins, service.AuthOptions{
		Secret: cfg.AuthSecret, TTL: cfg.TokenTTL, AllowRegistration: cfg.RegistrationEnabled(),
	}, logger)
	_, _, err = auth.EnsureAdmin(context.Background(), "admin", "admin@subline.com", "admin123")
	require.NoError(t, err)

	h := handlers.NewHandler(handlers.Services{
		Auth:       auth,
		Categories: service.NewCategoryService(categories, items, logger),
		Gallery:    service.NewGalleryService(items, categories, guard, logger),
		Uploads:    service.NewUploadService(guard, logger),
	}, logger, cfg)
	return &testServer{router: h.Router, db: db, store: store, cfg: cfg}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Error   string          `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	return rr.Code, env
}

func (ts *testServer) json(t *testing.T, method, path, token string, payload any) (int, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return ts.do(t, method, path, token, body, "application/json")
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	code, env := ts.json(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (ts *testServer) createCategory(t *testing.T, token, name string) string {
	t.Helper()
	code, env := ts.json(t, http.MethodPost, "/api/categories", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var c struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &c))
	return c.ID
}

// multipartBody собирает форму: fields — текстовые поля, files — имя поля → содержимое.
func multipartBody(t *testing.T, fields map[string]string, fileField string, files ...[]byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for i, data := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="f%d.png"`, fileField, i))
		hdr.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, _ = part.Write(data)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
