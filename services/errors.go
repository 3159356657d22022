package services

import "errors"

// Common service-level errors
var (
	// Auth errors
	ErrUserAlreadyRegistered = errors.New("user already registered")
	ErrInvalidCredentials    = errors.New("invalid login credentials")
	ErrEmailNotConfirmed     = errors.New("email not confirmed")
	ErrWeakPassword          = errors.New("password does not meet requirements")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrSignupDisabled        = errors.New("signups are disabled")
	ErrResetTokenInvalid     = errors.New("reset link is invalid or has expired")
	ErrConfirmTokenInvalid   = errors.New("confirmation link is invalid or has expired")
	ErrSessionNotFound       = errors.New("session not found")
	ErrGoogleDisabled        = errors.New("google sign-in is not configured")
	ErrInvalidAuthCode       = errors.New("invalid authorization code")
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidUserInfo       = errors.New("invalid user information")
	ErrUnauthorized          = errors.New("unauthorized access")

	// Agenda errors
	ErrAgendaNotFound          = errors.New("agenda not found")
	ErrInvalidAgenda           = errors.New("invalid agenda")
	ErrForbidden               = errors.New("not the owner of this agenda")
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// Vote errors
	ErrInvalidVote = errors.New("vote must be like or dislike")
)

// AuthErrorField maps an auth error to the form field it belongs to and the
// translation key shown to the user. flow is the translation prefix used for
// the generic fallback ("signup", "login", "resetPassword", ...).
func AuthErrorField(err error, flow string) (field, key string) {
	switch {
	case errors.Is(err, ErrUserAlreadyRegistered):
		return "email", "signup.errors.emailExists"
	case errors.Is(err, ErrWeakPassword):
		return "password", "signup.errors.passwordInvalid"
	case errors.Is(err, ErrInvalidEmail):
		return "email", "signup.errors.emailInvalid"
	case errors.Is(err, ErrSignupDisabled):
		return "general", "signup.errors.signupDisabled"
	case errors.Is(err, ErrResetTokenInvalid):
		return "general", "resetPassword.resetLinkExpired"
	case errors.Is(err, ErrConfirmTokenInvalid):
		return "general", "confirm.linkExpired"
	case errors.Is(err, ErrInvalidCredentials):
		return "general", "login.errors.invalidCredentials"
	case errors.Is(err, ErrEmailNotConfirmed):
		return "general", "login.errors.emailNotConfirmed"
	default:
		return "general", flow + ".unexpectedError"
	}
}
