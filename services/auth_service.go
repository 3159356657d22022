package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"nepal-reforms/database"
	"nepal-reforms/models"
	"nepal-reforms/validator"
)

const (
	ConfirmTokenTTL  = 24 * time.Hour
	RecoveryTokenTTL = 1 * time.Hour
)

// AuthOptions configures the auth flows
type AuthOptions struct {
	SiteURL                  string
	SignupEnabled            bool
	RequireEmailConfirmation bool
	GoogleClientID           string
	GoogleClientSecret       string
	GoogleRedirectURL        string
}

// IDTokenValidator verifies a Google ID token for the given audience
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// AuthService handles authentication business logic
type AuthService struct {
	repo            AuthRepository
	sessionStore    SessionStore
	notifier        AuthNotifier
	opts            AuthOptions
	oauthConfig     *oauth2.Config
	validateIDToken IDTokenValidator
	logger          *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repo AuthRepository, sessionStore SessionStore, notifier AuthNotifier, opts AuthOptions, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	as := &AuthService{
		repo:            repo,
		sessionStore:    sessionStore,
		notifier:        notifier,
		opts:            opts,
		validateIDToken: idtoken.Validate,
		logger:          logger,
	}

	if opts.GoogleClientID != "" && opts.GoogleClientSecret != "" {
		as.oauthConfig = &oauth2.Config{
			ClientID:     opts.GoogleClientID,
			ClientSecret: opts.GoogleClientSecret,
			RedirectURL:  opts.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return as
}

// SignUp registers an email/password account. When confirmation is required a
// confirmation link is emailed; otherwise the account is confirmed immediately.
func (as *AuthService) SignUp(req *models.SignUpRequest, lang string) (*models.User, error) {
	if !as.opts.SignupEnabled {
		return nil, ErrSignupDisabled
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validator.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !validator.ValidatePassword(req.Password).IsValid {
		return nil, ErrWeakPassword
	}

	existing, err := as.repo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:                newID(),
		Email:             email,
		FullName:          fullName,
		PasswordHash:      string(hash),
		Provider:          models.ProviderEmail,
		PreferredLanguage: lang,
		CreatedAt:         now,
		LastLoginAt:       now,
	}
	if !as.opts.RequireEmailConfirmation {
		user.EmailConfirmedAt = &now
	}

	if err := as.repo.CreateUser(user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUserAlreadyRegistered
		}
		return nil, err
	}

	if as.opts.RequireEmailConfirmation {
		as.sendConfirmation(user)
	}

	return user, nil
}

// Login verifies email/password credentials and starts a session
func (as *AuthService) Login(email, password string) (*models.Session, error) {
	user, err := as.repo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if as.opts.RequireEmailConfirmation && !user.Confirmed() {
		return nil, ErrEmailNotConfirmed
	}

	return as.startSession(user)
}

// Logout handles user logout
func (as *AuthService) Logout(sessionID string) error {
	return as.sessionStore.Delete(sessionID)
}

// GetSessionInfo returns current session information
func (as *AuthService) GetSessionInfo(sessionID string) (*models.Session, error) {
	sess, err := as.sessionStore.Get(sessionID)
	if err != nil || sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetUser returns the user behind a session
func (as *AuthService) GetUser(userID string) (*models.User, error) {
	user, err := as.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// ConfirmEmail consumes a confirmation token, marks the email verified and
// signs the user in.
func (as *AuthService) ConfirmEmail(rawToken string) (*models.Session, error) {
	token, err := as.consumeToken(rawToken, models.TokenKindConfirmEmail)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrConfirmTokenInvalid
	}

	if err := as.repo.ConfirmUserEmail(token.UserID); err != nil {
		return nil, err
	}

	user, err := as.repo.GetUser(token.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrConfirmTokenInvalid
	}

	return as.startSession(user)
}

// ResendConfirmation issues a fresh confirmation link for an unconfirmed account.
// Unknown or already confirmed emails are ignored.
func (as *AuthService) ResendConfirmation(email string) error {
	user, err := as.repo.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil || user.Confirmed() {
		return nil
	}
	as.sendConfirmation(user)
	return nil
}

// RequestPasswordReset emails a recovery link. It never reveals whether an
// account exists for the email.
func (as *AuthService) RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validator.ValidateEmail(email) {
		return ErrInvalidEmail
	}

	user, err := as.repo.GetUserByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		as.logger.Info("password reset requested for unknown email")
		return nil
	}

	if err := as.repo.InvalidateAuthTokens(user.ID, models.TokenKindRecovery); err != nil {
		return err
	}

	raw, err := as.issueToken(user.ID, models.TokenKindRecovery, RecoveryTokenTTL)
	if err != nil {
		return err
	}

	link := as.opts.SiteURL + "/auth/reset-password?token=" + url.QueryEscape(raw)
	if err := as.notifier.PasswordReset(user, link); err != nil {
		as.logger.Error("failed to send password reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

// VerifyResetToken reports the user a recovery token belongs to without using it up
func (as *AuthService) VerifyResetToken(rawToken string) (*models.User, error) {
	if rawToken == "" {
		return nil, ErrResetTokenInvalid
	}

	token, err := as.repo.GetAuthToken(hashToken(rawToken), models.TokenKindRecovery)
	if err != nil {
		return nil, err
	}
	if token == nil || token.UsedAt != nil || !time.Now().Before(token.ExpiresAt) {
		return nil, ErrResetTokenInvalid
	}

	user, err := as.repo.GetUser(token.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrResetTokenInvalid
	}
	return user, nil
}

// ResetPassword sets a new password using a recovery token. Every other
// session of the user ends and a fresh one is returned.
func (as *AuthService) ResetPassword(rawToken, password string) (*models.Session, error) {
	if !validator.ValidatePassword(password).IsValid {
		return nil, ErrWeakPassword
	}

	token, err := as.consumeToken(rawToken, models.TokenKindRecovery)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrResetTokenInvalid
	}

	user, err := as.repo.GetUser(token.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrResetTokenInvalid
	}

	if err := as.setPassword(user.ID, password, ""); err != nil {
		return nil, err
	}

	// The link arrived by email, so the address is proven.
	if !user.Confirmed() {
		if err := as.repo.ConfirmUserEmail(user.ID); err != nil {
			return nil, err
		}
	}

	return as.startSession(user)
}

// UpdatePassword changes the password of a signed-in user and ends their other sessions
func (as *AuthService) UpdatePassword(userID, currentSessionID, password string) error {
	if !validator.ValidatePassword(password).IsValid {
		return ErrWeakPassword
	}
	return as.setPassword(userID, password, currentSessionID)
}

// UpdateLanguage stores the user's preferred language
func (as *AuthService) UpdateLanguage(userID, lang string) error {
	return as.repo.UpdatePreferredLanguage(userID, lang)
}

// GoogleEnabled reports whether Google sign-in is configured
func (as *AuthService) GoogleEnabled() bool {
	return as.oauthConfig != nil
}

// GoogleAuthURL returns the consent screen URL for the OAuth redirect flow
func (as *AuthService) GoogleAuthURL(state string) (string, error) {
	if as.oauthConfig == nil {
		return "", ErrGoogleDisabled
	}
	return as.oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// LoginWithGoogle handles login via OAuth authorization code
func (as *AuthService) LoginWithGoogle(ctx context.Context, code string) (*models.Session, error) {
	if as.oauthConfig == nil {
		return nil, ErrGoogleDisabled
	}

	token, err := as.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, ErrInvalidAuthCode
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrInvalidToken
	}

	return as.LoginWithIDToken(ctx, rawIDToken)
}

// LoginWithIDToken handles login via a Google ID token (One Tap or the code flow)
func (as *AuthService) LoginWithIDToken(ctx context.Context, rawIDToken string) (*models.Session, error) {
	if as.oauthConfig == nil {
		return nil, ErrGoogleDisabled
	}

	payload, err := as.validateIDToken(ctx, rawIDToken, as.opts.GoogleClientID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	googleID := payload.Subject

	if googleID == "" || email == "" {
		return nil, ErrInvalidUserInfo
	}
	// An unverified address must never be matched against a local account.
	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, ErrInvalidUserInfo
	}

	user, err := as.findOrCreateGoogleUser(googleID, email, name)
	if err != nil {
		return nil, err
	}

	return as.startSession(user)
}

// findOrCreateGoogleUser matches by Google subject, then by email (linking the
// account), and finally creates a new confirmed user.
func (as *AuthService) findOrCreateGoogleUser(googleID, email, name string) (*models.User, error) {
	user, err := as.repo.GetUserByGoogleID(googleID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = as.repo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := as.repo.LinkGoogleAccount(user.ID, googleID); err != nil {
			return nil, err
		}
		user.GoogleID = googleID
		return user, nil
	}

	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	now := time.Now().UTC()
	user = &models.User{
		ID:               newID(),
		Email:            email,
		FullName:         name,
		Provider:         models.ProviderGoogle,
		GoogleID:         googleID,
		EmailConfirmedAt: &now,
		CreatedAt:        now,
		LastLoginAt:      now,
	}
	if err := as.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (as *AuthService) startSession(user *models.User) (*models.Session, error) {
	if err := as.repo.TouchLastLogin(user.ID); err != nil {
		as.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	return as.sessionStore.Create(user)
}

func (as *AuthService) setPassword(userID, password, keepSessionID string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := as.repo.UpdatePasswordHash(userID, string(hash)); err != nil {
		return err
	}
	if err := as.sessionStore.DeleteByUserID(userID, keepSessionID); err != nil {
		as.logger.Warn("failed to end other sessions", "user_id", userID, "error", err)
	}
	return nil
}

func (as *AuthService) sendConfirmation(user *models.User) {
	if err := as.repo.InvalidateAuthTokens(user.ID, models.TokenKindConfirmEmail); err != nil {
		as.logger.Error("failed to invalidate confirmation tokens", "user_id", user.ID, "error", err)
		return
	}

	raw, err := as.issueToken(user.ID, models.TokenKindConfirmEmail, ConfirmTokenTTL)
	if err != nil {
		as.logger.Error("failed to issue confirmation token", "user_id", user.ID, "error", err)
		return
	}

	link := as.opts.SiteURL + "/auth/confirm?token=" + url.QueryEscape(raw)
	if err := as.notifier.ConfirmEmail(user, link); err != nil {
		as.logger.Error("failed to send confirmation email", "user_id", user.ID, "error", err)
	}
}

// issueToken stores the hash of a new random token and returns the raw value
func (as *AuthService) issueToken(userID string, kind models.TokenKind, ttl time.Duration) (string, error) {
	raw, err := generateToken()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	err = as.repo.CreateAuthToken(&models.AuthToken{
		TokenHash: hashToken(raw),
		UserID:    userID,
		Kind:      kind,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

// consumeToken marks a token used and returns it, or nil when it is unknown,
// used or expired.
func (as *AuthService) consumeToken(rawToken string, kind models.TokenKind) (*models.AuthToken, error) {
	if rawToken == "" {
		return nil, nil
	}

	hash := hashToken(rawToken)
	ok, err := as.repo.ConsumeAuthToken(hash, kind)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return as.repo.GetAuthToken(hash, kind)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.New("failed to generate token")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
