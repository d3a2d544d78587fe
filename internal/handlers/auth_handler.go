package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"rollcall/internal/models"
	"rollcall/internal/services"
	"rollcall/internal/utils"
)

type AuthHandler struct {
	users   services.UserService
	auth    services.AuthService
	emails  services.EmailService
	baseURL string
}

func NewAuthHandler(users services.UserService, auth services.AuthService, emails services.EmailService, baseURL string) *AuthHandler {
	return &AuthHandler{
		users:   users,
		auth:    auth,
		emails:  emails,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// @Summary      Register a new account
// @Description  Creates an unverified account and emails a verification link
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      200       {object}  map[string]interface{}
// @Failure      500       {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// контракт исходного API: ошибки валидатора уходят как 500
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := h.users.GetByEmail(email)
	if err != nil {
		internalError(c, err)
		return
	}
	if existing != nil {
		log.Printf("[auth][register] duplicate email=%q", email)
		c.JSON(http.StatusOK, gin.H{"message": "Email already exists"})
		return
	}

	hash, err := h.auth.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		internalError(c, err)
		return
	}

	user := &models.User{
		FirstName:    utils.TitleCase(req.FirstName),
		LastName:     utils.TitleCase(req.LastName),
		Email:        email,
		PasswordHash: hash,
	}
	if err := h.users.Create(user); err != nil {
		internalError(c, err)
		return
	}

	token, err := h.auth.NewVerificationToken(user)
	if err != nil {
		internalError(c, err)
		return
	}
	if err := h.users.UpdateToken(user.ID, &token); err != nil {
		internalError(c, err)
		return
	}
	user.Token = &token

	link := h.verifyLink(user.ID, token)
	h.sendAsync("verification", user.Email, func() error {
		return h.emails.SendVerificationEmail(user.Email, user.FirstName, link)
	})

	log.Printf("[auth][register] created userID=%d email=%q", user.ID, user.Email)
	c.JSON(http.StatusOK, gin.H{
		"message": "User profile created successfully",
		"data":    user,
	})
}

// @Summary      Verify an account by emailed link
// @Tags         Auth
// @Produce      html
// @Param        id     path  int     true  "User ID"
// @Param        token  path  string  true  "Verification token"
// @Success      200  {string}  string  "HTML confirmation"
// @Failure      401  {string}  string  "HTML link-expired page"
// @Router       /verify/{id}/{token} [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		internalError(c, err)
		return
	}
	token := c.Param("token")

	if err := h.auth.CheckToken(token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			h.reissueVerification(c, id)
			return
		}
		internalError(c, err)
		return
	}

	if err := h.users.MarkVerified(id); err != nil {
		internalError(c, err)
		return
	}
	log.Printf("[auth][verify] userID=%d verified", id)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(verifiedPage))
}

// Протухший или битый токен: выписываем новый, шлём письмо повторно и
// отдаём страницу "ссылка устарела" со статусом 401.
func (h *AuthHandler) reissueVerification(c *gin.Context, id int) {
	user, err := h.users.GetByID(id)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		internalError(c, fmt.Errorf("user %d not found", id))
		return
	}

	newToken, err := h.auth.NewVerificationToken(user)
	if err != nil {
		internalError(c, err)
		return
	}
	if err := h.users.UpdateToken(user.ID, &newToken); err != nil {
		internalError(c, err)
		return
	}

	link := h.verifyLink(user.ID, newToken)
	h.sendAsync("re-verification", user.Email, func() error {
		return h.emails.SendReVerificationEmail(user.Email, user.FirstName, link)
	})

	log.Printf("[auth][verify] userID=%d token expired, reissued", id)
	c.Data(http.StatusUnauthorized, "text/html; charset=utf-8", []byte(expiredPage))
}

// @Summary      Log in
// @Description  Issues a session token for a verified account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.users.GetByEmail(email)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		log.Printf("[auth][login] unknown email=%q", email)
		c.JSON(http.StatusNotFound, gin.H{"message": "User not registered"})
		return
	}

	if err := h.auth.CheckPassword(user.PasswordHash, strings.TrimSpace(req.Password)); err != nil {
		log.Printf("[auth][login] password mismatch userID=%d", user.ID)
		c.JSON(http.StatusNotFound, gin.H{"message": "Password is incorrect"})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Sorry user not verified yet."})
		return
	}

	token, err := h.auth.NewSessionToken(user.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	if err := h.users.UpdateToken(user.ID, &token); err != nil {
		internalError(c, err)
		return
	}

	log.Printf("[auth][login] success userID=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successfully! Welcome " + user.FirstName + " " + user.LastName,
		"token":   token,
	})
}

// @Summary      Request a password-reset email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      models.ForgotPasswordRequest  true  "Account email"
// @Success      200     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Email does not exist"})
		return
	}

	link := fmt.Sprintf("%s/api/v1/reset/%d", h.baseURL, user.ID)
	h.sendAsync("password-reset", user.Email, func() error {
		return h.emails.SendPasswordResetEmail(user.Email, user.FirstName, link)
	})

	c.JSON(http.StatusOK, gin.H{"message": "Kindly check your email to reset your password"})
}

// @Summary      Password-reset form
// @Tags         Auth
// @Produce      html
// @Param        userId  path  int  true  "User ID"
// @Success      200  {string}  string  "HTML form"
// @Router       /reset/{userId} [get]
func (h *AuthHandler) ResetPasswordPage(c *gin.Context) {
	action := fmt.Sprintf("%s/api/v1/reset-password/%s", h.baseURL, c.Param("userId"))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(resetPageTemplate, action)))
}

// @Summary      Reset the password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        userId  path      int                           true  "User ID"
// @Param        reset   body      models.ResetPasswordRequest   true  "New password"
// @Success      200     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Router       /reset-password/{userId} [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		internalError(c, err)
		return
	}

	var req models.ResetPasswordRequest
	_ = c.ShouldBind(&req)
	password := strings.TrimSpace(req.Password)
	if password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password cannot be empty"})
		return
	}

	hash, err := h.auth.HashPassword(password)
	if err != nil {
		internalError(c, err)
		return
	}
	// сознательно без проверки владения: достаточно знать id (поведение
	// исходного API, см. DESIGN.md)
	if err := h.users.UpdatePassword(id, hash); err != nil {
		internalError(c, err)
		return
	}

	log.Printf("[auth][reset] password reset userID=%d", id)
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// @Summary      Sign out
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := h.users.UpdateToken(userID, nil); err != nil {
		internalError(c, err)
		return
	}

	log.Printf("[auth][signout] userID=%d", userID)
	c.JSON(http.StatusCreated, gin.H{"message": "user has been signed out successfully"})
}

func (h *AuthHandler) verifyLink(userID int, token string) string {
	return fmt.Sprintf("%s/api/v1/verify/%d/%s", h.baseURL, userID, token)
}

// Письма уходят вне запроса; неуспех только логируем.
func (h *AuthHandler) sendAsync(kind, to string, send func() error) {
	go func() {
		if err := send(); err != nil {
			log.Printf("[email][%s] send to %s failed: %v", kind, to, err)
		}
	}()
}
