// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// totpIssuer is the label authenticator apps display for enrolled accounts.
const totpIssuer = "Inkwell"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	users  *store.UserStore
	tokens *token.Service
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Service) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type registerRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"password_confirm"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Avatar          *string `json:"avatar"`
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type authResponse struct {
	User    *models.User `json:"user,omitempty"`
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
}

// Register creates a new account and returns the user with a token pair.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errs := validateRegistration(req.Email, req.Password, req.PasswordConfirm, req.FirstName, req.LastName); !errs.empty() {
		respondFieldErrors(w, errs)
		return
	}

	user, err := a.users.Create(req.Email, req.Password, req.FirstName, req.LastName, req.Avatar)
	if err == store.ErrConflict {
		respondError(w, http.StatusConflict, "a user with this email already exists")
		return
	}
	if err != nil {
		slog.Error("register failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	pair, err := a.tokens.Issue(r.Context(), user)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{User: user, Access: pair.Access, Refresh: pair.Refresh})
}

// Token exchanges credentials for a token pair. Accounts with 2FA enabled
// must also send a valid otp_code.
func (a *Auth) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusUnauthorized, "account is deactivated")
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(req.OTPCode, *user.TOTPSecret) {
			respondError(w, http.StatusUnauthorized, "invalid or missing one-time code")
			return
		}
	}

	pair, err := a.tokens.Issue(r.Context(), user)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// TokenRefresh rotates a refresh token into a fresh pair. Each refresh
// token works exactly once.
func (a *Auth) TokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, err := a.tokens.Consume(r.Context(), req.Refresh)
	if err == token.ErrInvalidToken {
		respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		slog.Error("refresh consume failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	user, err := a.users.FindByID(userID)
	if err != nil {
		slog.Error("refresh lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if user == nil || !user.IsActive {
		respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := a.tokens.Issue(r.Context(), user)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Access: pair.Access, Refresh: pair.Refresh})
}

type twoFASetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauth_url"`
	QRCode string `json:"qr_code"`
}

// TwoFASetup generates a TOTP secret for the authenticated user and
// returns it with a base64-encoded QR code PNG. Enrollment completes on
// the first successful TwoFAVerify.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())
	if !actor.Needs2FASetup() {
		// Rotating the secret of an enrolled account would lock out the
		// authenticator the user already trusts.
		respondError(w, http.StatusBadRequest, "2fa is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: actor.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	if err := a.users.SetTOTPSecret(actor.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	respondJSON(w, http.StatusOK, twoFASetupResponse{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	OTPCode string `json:"otp_code"`
}

// TwoFAVerify validates the first TOTP code and turns 2FA on for the
// authenticated user.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	var req twoFAVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByID(actor.ID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, http.StatusBadRequest, "2fa setup has not been started")
		return
	}

	if !totp.Validate(req.OTPCode, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "invalid one-time code")
		return
	}

	if user.Needs2FASetup() {
		if err := a.users.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			respondError(w, http.StatusInternalServerError, "unexpected error")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"enabled": true})
}
