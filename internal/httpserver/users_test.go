package httpserver

import (
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/content_backend/internal/models"
)

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.register(t, "alice", "alice@x.com", "pw12345")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user map[string]any
	decode(t, rec, &user)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@x.com", user["email"])
	assert.Equal(t, true, user["is_active"])
	assert.NotContains(t, user, "hashed_password")
	assert.NotContains(t, rec.Body.String(), "pw12345")

	rec = env.register(t, "alice", "alice2@x.com", "pw12345")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username or email already registered", detail(t, rec))
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.register(t, "al", "not-an-email", "pw")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields, ok := detail(t, rec).(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.register(t, "alice", "alice@x.com", "pw12345").Code)

	rec := env.login(t, "alice", "pw12345")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, rec, &tok)
	assert.Equal(t, "bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)

	rec = env.do(http.MethodGet, "/users/me", nil, "", tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	decode(t, rec, &me)
	assert.Equal(t, "alice", me["username"])

	rec = env.do(http.MethodPost, "/users/logout", nil, "", tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully logged out", detail(t, rec))

	rec = env.do(http.MethodGet, "/users/me", nil, "", tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	assert.Equal(t, "Could not validate credentials", detail(t, rec))

	var n int64
	require.NoError(t, env.db.Model(&models.RevokedToken{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.register(t, "alice", "alice@x.com", "pw12345").Code)

	for _, tc := range [][2]string{{"alice", "wrong"}, {"nobody", "pw12345"}} {
		rec := env.login(t, tc[0], tc[1])
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
		assert.Equal(t, "Incorrect username or password", detail(t, rec))
	}
}

func TestProtectedRoutes_RequireBearer(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodPost, "/users/logout"},
		{http.MethodGet, "/users/1"},
		{http.MethodPost, "/blogs"},
		{http.MethodPost, "/faqs"},
		{http.MethodGet, "/contacts"},
		{http.MethodGet, "/dashboard/stats"},
	}
	for _, r := range routes {
		rec := env.do(r.method, r.path, nil, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.path)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate), r.path)
		assert.Equal(t, "Not authenticated", detail(t, rec), r.path)
	}

	rec := env.do(http.MethodGet, "/users/me", nil, "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	assert.Equal(t, "Could not validate credentials", detail(t, rec))
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	const n = 2
	codes := make([]int, n)
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			rec := env.register(t, []string{"racer1", "racer2"}[i], "race@x.com", "pw12345")
			codes[i] = rec.Code
		}(i)
	}
	close(start)
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusBadRequest}, codes)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "race@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUsersByID_SelfOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	rec := env.do(http.MethodGet, "/users/1", nil, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/users/1", nil, "", bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/users/abc", nil, "", bob)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(http.MethodDelete, "/users/1", nil, "", bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodDelete, "/users/2", nil, "", bob)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The token outlives its account but no longer resolves a principal.
	rec = env.do(http.MethodGet, "/users/me", nil, "", bob)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.signup(t, "alice")

	rec := env.doJSON(http.MethodPut, "/users/me/password", map[string]string{
		"current_password": "wrong-one", "new_password": "newpass1",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodPut, "/users/me/password", map[string]string{
		"currentPassword": "pw12345", "newPassword": "newpass1",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, env.login(t, "alice", "pw12345").Code)
	assert.Equal(t, http.StatusOK, env.login(t, "alice", "newpass1").Code)
}

func TestPasswordLimitCountsBytes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	long := strings.Repeat("é", 40)

	rec := env.register(t, "alice", "alice@x.com", long)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	fields, ok := detail(t, rec).(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "password")

	token := env.signup(t, "bob")
	rec = env.doJSON(http.MethodPut, "/users/me/password", map[string]string{
		"current_password": "pw12345", "new_password": long,
	}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, env.login(t, "bob", "pw12345").Code)
}
