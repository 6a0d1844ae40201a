package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/db/dbtest"
	"github.com/Skotchmaster/content_backend/internal/events"
	"github.com/Skotchmaster/content_backend/internal/hash"
	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/middleware/auth"
	"github.com/Skotchmaster/content_backend/internal/repo"
	"github.com/Skotchmaster/content_backend/internal/service"
	"github.com/Skotchmaster/content_backend/internal/storage"
	"github.com/Skotchmaster/content_backend/internal/tokens"
)

type testEnv struct {
	e         *echo.Echo
	db        *gorm.DB
	staticDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := dbtest.New(t)
	r := &repo.GormRepo{DB: gdb}
	codec, err := tokens.NewCodec([]byte("http-test-secret"), "HS256", 30*time.Minute)
	require.NoError(t, err)

	authSvc := &service.AuthService{
		Repo:   r,
		Hasher: hash.New(bcrypt.MinCost),
		Codec:  codec,
		Events: events.Noop{},
	}
	static := t.TempDir()

	e := New(&Deps{
		DB:               gdb,
		Logger:           logging.NewWithWriter(io.Discard, "error"),
		Gate:             auth.NewGate(authSvc),
		UsersHandler:     &UsersHTTP{Svc: authSvc},
		BlogsHandler:     &BlogsHTTP{Svc: &service.BlogService{Repo: r, Images: storage.NewLocal(static, "http://test"), MaxImageBytes: 1 << 20}},
		FAQsHandler:      &FAQsHTTP{Svc: &service.FAQService{Repo: r}},
		ContactsHandler:  &ContactsHTTP{Svc: &service.ContactService{Repo: r, Events: events.Noop{}}},
		DashboardHandler: &DashboardHTTP{Svc: &service.DashboardService{Repo: r}},
		CORSOrigins:      []string{"*"},
		StaticDir:        static,
	})
	return &testEnv{e: e, db: gdb, staticDir: static}
}

func (env *testEnv) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSON(method, path string, payload any, token string) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	return env.do(method, path, body, echo.MIMEApplicationJSON, token)
}

func (env *testEnv) register(t *testing.T, username, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return env.doJSON(http.MethodPost, "/users/register", map[string]string{
		"username": username, "email": email, "password": password,
	}, "")
}

func (env *testEnv) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	return env.do(http.MethodPost, "/users/login", strings.NewReader(form.Encode()), echo.MIMEApplicationForm, "")
}

// signup registers and logs in, returning the access token.
func (env *testEnv) signup(t *testing.T, username string) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, env.register(t, username, username+"@x.com", "pw12345").Code)
	rec := env.login(t, username, "pw12345")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, rec, &tok)
	return tok.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()
	var body map[string]any
	decode(t, rec, &body)
	return body["detail"]
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 64)...)

func blogForm(t *testing.T, fields map[string]string, imageType string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageType != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="cover.png"`)
		h.Set("Content-Type", imageType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(pngBytes)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
