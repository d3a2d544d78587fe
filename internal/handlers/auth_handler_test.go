package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/services"
)

type authEnv struct {
	users  *fakeUserStore
	emails *fakeEmailSender
	auth   services.AuthService
	router *gin.Engine
}

func newAuthEnv(t *testing.T, verifyTTL time.Duration) *authEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newFakeUserStore()
	emails := &fakeEmailSender{}
	auth := services.NewAuthService("test-secret", verifyTTL, time.Hour)
	h := NewAuthHandler(users, auth, emails, "http://localhost:8080")

	r := gin.New()
	r.POST("/api/v1/register", h.Register)
	r.GET("/api/v1/verify/:id/:token", h.Verify)
	r.POST("/api/v1/login", h.Login)
	r.POST("/api/v1/forgot-password", h.ForgotPassword)
	r.GET("/api/v1/reset/:userId", h.ResetPasswordPage)
	r.POST("/api/v1/reset-password/:userId", h.ResetPassword)
	r.POST("/api/v1/signout", func(c *gin.Context) { c.Set("user_id", 1); h.SignOut(c) })

	return &authEnv{users: users, emails: emails, auth: auth, router: r}
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAlice(t *testing.T, env *authEnv) {
	t.Helper()
	w := doJSON(env.router, http.MethodPost, "/api/v1/register", gin.H{
		"firstName": "aLICE",
		"lastName":  "sMITH",
		"email":     "Alice@X.com",
		"password":  "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	env := newAuthEnv(t, time.Minute)

	registerAlice(t, env)

	u := env.users.mustGet(1)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "Smith", u.LastName)
	assert.Equal(t, "alice@x.com", u.Email)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "password1", u.PasswordHash)
	require.NotNil(t, u.Token)
	require.NoError(t, env.auth.CheckToken(*u.Token))

	require.Eventually(t, func() bool {
		v, _, _ := env.emails.counts()
		return v == 1
	}, time.Second, 10*time.Millisecond, "verification email was not sent")
}

func TestRegister_DuplicateEmailAnyCase(t *testing.T) {
	env := newAuthEnv(t, time.Minute)
	registerAlice(t, env)

	w := doJSON(env.router, http.MethodPost, "/api/v1/register", gin.H{
		"firstName": "alice",
		"lastName":  "smith",
		"email":     "ALICE@x.COM",
		"password":  "password2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")

	// второй учётки не появилось
	u, err := env.users.GetByID(2)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRegister_ValidationFailureIs500(t *testing.T) {
	env := newAuthEnv(t, time.Minute)

	w := doJSON(env.router, http.MethodPost, "/api/v1/register", gin.H{
		"firstName": "alice",
		"email":     "not-an-email",
		"password":  "password1",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestVerify_ValidTokenFlipsState(t *testing.T) {
	env := newAuthEnv(t, time.Minute)
	registerAlice(t, env)

	u := env.users.mustGet(1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verify/1/"+*u.Token, nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "successfully verified")
	assert.True(t, env.users.mustGet(1).IsVerified)
}

func TestVerify_ExpiredTokenReissuesAndResends(t *testing.T) {
	env := newAuthEnv(t, -1*time.Second) // verify-токены рождаются протухшими
	registerAlice(t, env)

	old := *env.users.mustGet(1).Token
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verify/1/"+old, nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")

	u := env.users.mustGet(1)
	assert.False(t, u.IsVerified)
	require.NotNil(t, u.Token)
	assert.NotEqual(t, old, *u.Token)

	require.Eventually(t, func() bool {
		_, rv, _ := env.emails.counts()
		return rv == 1
	}, time.Second, 10*time.Millisecond, "re-verification email was not sent")
}

func TestVerify_GarbageTokenAlsoReissues(t *testing.T) {
	env := newAuthEnv(t, time.Minute)
	registerAlice(t, env)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verify/1/not.a.token", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_Branches(t *testing.T) {
	env := newAuthEnv(t, time.Minute)
	registerAlice(t, env)

	// не зарегистрирован
	w := doJSON(env.router, http.MethodPost, "/api/v1/login", gin.H{
		"email": "bob@x.com", "password": "password1",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not registered")

	// неверный пароль — другое сообщение
	w = doJSON(env.router, http.MethodPost, "/api/v1/login", gin.H{
		"email": "alice@x.com", "password": "wrong",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Password is incorrect")

	// пароль верный, но аккаунт не верифицирован
	w = doJSON(env.router, http.MethodPost, "/api/v1/login", gin.H{
		"email": "alice@x.com", "password": "password1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not verified")

	// успех после верификации
	require.NoError(t, env.users.MarkVerified(1))
	w = doJSON(env.router, http.MethodPost, "/api/v1/login", gin.H{
		"email": "Alice@X.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "Welcome Alice Smith")
	require.NotEmpty(t, resp.Token)

	// токен сохранён на пользователе
	u := env.users.mustGet(1)
	require.NotNil(t, u.Token)
	assert.Equal(t, resp.Token, *u.Token)
}

func TestForgotPassword(t *testing.T) {
	env := newAuthEnv(t, time.Minute)
	registerAlice(t, env)

	w := doJSON(env.router, http.MethodPost, "/api/v1/forgot-password", gin.H{"email": "nobody@x.com"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Email does not exist")

	w = doJSON(env.router, http.MethodPost, "/api/v1/forgot-password", gin.H{"email": "alice@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Eventually(t, func() bool {
		_, _, reset := env.emails.counts()
		return reset == 1
	}, time.Second, 10*time.Millisecond, "reset email was not sent")
}

func TestResetPasswordPage(t *testing.T) {
	env := newAuthEnv(t, time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reset/1", nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/api/v1/reset-password/1")
}

func TestResetPassword(t *testing.T) {
	env := newAuthEnv(t, time.Minute)
	registerAlice(t, env)
	oldHash := env.users.mustGet(1).PasswordHash

	w := doJSON(env.router, http.MethodPost, "/api/v1/reset-password/1", gin.H{"password": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password cannot be empty")
	assert.Equal(t, oldHash, env.users.mustGet(1).PasswordHash)

	w = doJSON(env.router, http.MethodPost, "/api/v1/reset-password/1", gin.H{"password": "newpassword"})
	require.Equal(t, http.StatusOK, w.Code)

	u := env.users.mustGet(1)
	assert.NotEqual(t, oldHash, u.PasswordHash)
	require.NoError(t, env.auth.CheckPassword(u.PasswordHash, "newpassword"))
}

func TestSignOut(t *testing.T) {
	env := newAuthEnv(t, time.Minute)

	// пользователя нет
	w := doJSON(env.router, http.MethodPost, "/api/v1/signout", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	registerAlice(t, env)
	require.NotNil(t, env.users.mustGet(1).Token)

	w = doJSON(env.router, http.MethodPost, "/api/v1/signout", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, env.users.mustGet(1).Token)
}
