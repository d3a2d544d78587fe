package models

import "time"

type User struct {
	ID         int    `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	PasswordHash string `json:"-"` // не отдаём наружу
	IsVerified bool   `json:"is_verified"`

	// Token — последний выданный подписанный токен (верификация или сессия).
	// NULL после sign-out.
	Token *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest принимает и JSON, и сабмит HTML-формы.
type ResetPasswordRequest struct {
	Password string `json:"password" form:"password"`
}
