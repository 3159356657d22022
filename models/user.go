package models

import "time"

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	FullName          string     `json:"full_name"`
	PasswordHash      string     `json:"-"`
	Provider          string     `json:"provider"`
	GoogleID          string     `json:"-"`
	EmailConfirmedAt  *time.Time `json:"email_confirmed_at,omitempty"`
	PreferredLanguage string     `json:"preferred_language"`
	CreatedAt         time.Time  `json:"created_at"`
	LastLoginAt       time.Time  `json:"last_login_at"`
}

// Confirmed reports whether the user has verified their email address.
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Provider   string    `json:"provider"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

type TokenKind string

const (
	TokenKindConfirmEmail TokenKind = "confirm_email"
	TokenKindRecovery     TokenKind = "recovery"
)

// AuthToken is a single-use token delivered by email. Only the hash is stored.
type AuthToken struct {
	TokenHash string
	UserID    string
	Kind      TokenKind
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

type SignUpRequest struct {
	FullName       string `json:"full_name" form:"full_name" validate:"notblank,fullname"`
	Email          string `json:"email" form:"email" validate:"required,emailaddr"`
	Password       string `json:"password" form:"password" validate:"required,password"`
	RepeatPassword string `json:"repeat_password" form:"repeat_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,emailaddr"`
	Password string `json:"password" form:"password" validate:"required"`
}

// GoogleLoginRequest carries either an authorization code or a One Tap ID token.
type GoogleLoginRequest struct {
	Code       string `json:"code"`
	Credential string `json:"credential"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,emailaddr"`
}

type ResetPasswordRequest struct {
	Token          string `json:"token" form:"token"`
	Password       string `json:"password" form:"password" validate:"required,password"`
	RepeatPassword string `json:"repeat_password" form:"repeat_password" validate:"required,eqfield=Password"`
}

type LanguageRequest struct {
	Language string `json:"language" form:"language" validate:"required,lang"`
}
