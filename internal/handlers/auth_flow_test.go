// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	email := "register-flow@example.com"
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })

	rec := httptest.NewRecorder()
	env.Auth.Register(rec, jsonRequest("POST", "/auth/register", map[string]string{
		"email":            email,
		"password":         "long-enough-pass",
		"password_confirm": "long-enough-pass",
		"first_name":       "Reggie",
		"last_name":        "Strar",
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["access"] == "" || body["refresh"] == "" {
		t.Error("register response missing token pair")
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatal("register response missing user")
	}
	if user["email"] != email {
		t.Errorf("user email = %v, want %s", user["email"], email)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("register response leaked the password hash")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		payload map[string]string
		field   string
	}{
		{
			name: "password mismatch",
			payload: map[string]string{
				"email": "mismatch@example.com", "password": "long-enough-pass",
				"password_confirm": "different-pass", "first_name": "A", "last_name": "B",
			},
			field: "password_confirm",
		},
		{
			name: "restricted domain",
			payload: map[string]string{
				"email": "someone@yahoo.com", "password": "long-enough-pass",
				"password_confirm": "long-enough-pass", "first_name": "A", "last_name": "B",
			},
			field: "email",
		},
		{
			name: "email local part in name",
			payload: map[string]string{
				"email": "walter@example.com", "password": "long-enough-pass",
				"password_confirm": "long-enough-pass", "first_name": "Walter", "last_name": "White",
			},
			field: "email",
		},
		{
			name: "missing first name",
			payload: map[string]string{
				"email": "noname@example.com", "password": "long-enough-pass",
				"password_confirm": "long-enough-pass", "last_name": "B",
			},
			field: "first_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Auth.Register(rec, jsonRequest("POST", "/auth/register", tt.payload))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if _, ok := body[tt.field]; !ok {
				t.Errorf("response %v missing error for field %q", body, tt.field)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	email := "register-dup@example.com"
	env.createUser(t, email)

	rec := httptest.NewRecorder()
	env.Auth.Register(rec, jsonRequest("POST", "/auth/register", map[string]string{
		"email":            email,
		"password":         "long-enough-pass",
		"password_confirm": "long-enough-pass",
		"first_name":       "Dup",
		"last_name":        "Licate",
	}))

	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestTokenFlow(t *testing.T) {
	env := newTestEnv(t)
	email := "token-flow@example.com"
	env.createUser(t, email)

	// Wrong password is rejected.
	rec := httptest.NewRecorder()
	env.Auth.Token(rec, jsonRequest("POST", "/auth/token", map[string]string{
		"email": email, "password": "wrong-password",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", rec.Code)
	}

	// Correct credentials issue a pair.
	rec = httptest.NewRecorder()
	env.Auth.Token(rec, jsonRequest("POST", "/auth/token", map[string]string{
		"email": email, "password": "sup3r-secret",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("token status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	refresh, _ := body["refresh"].(string)
	if refresh == "" {
		t.Fatal("token response missing refresh token")
	}

	// The refresh token rotates exactly once.
	rec = httptest.NewRecorder()
	env.Auth.TokenRefresh(rec, jsonRequest("POST", "/auth/token/refresh", map[string]string{
		"refresh": refresh,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	env.Auth.TokenRefresh(rec, jsonRequest("POST", "/auth/token/refresh", map[string]string{
		"refresh": refresh,
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("reused refresh status = %d, want 401", rec.Code)
	}
}

func TestTwoFAEnrollmentAndLogin(t *testing.T) {
	env := newTestEnv(t)
	email := "twofa-flow@example.com"
	user := env.createUser(t, email)

	// Setup returns a secret and QR code.
	rec := httptest.NewRecorder()
	env.Auth.TwoFASetup(rec, asActor(jsonRequest("POST", "/auth/2fa/setup", nil), user))
	if rec.Code != http.StatusOK {
		t.Fatalf("2fa setup status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	secret, _ := body["secret"].(string)
	if secret == "" {
		t.Fatal("2fa setup response missing secret")
	}
	if qr, _ := body["qr_code"].(string); qr == "" {
		t.Error("2fa setup response missing QR code")
	}

	// A bad code does not enable 2FA.
	rec = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, asActor(jsonRequest("POST", "/auth/2fa/verify", map[string]string{
		"otp_code": "000000",
	}), user))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad otp verify status = %d, want 401", rec.Code)
	}

	// The real code completes enrollment.
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate totp code: %v", err)
	}
	rec = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, asActor(jsonRequest("POST", "/auth/2fa/verify", map[string]string{
		"otp_code": code,
	}), user))
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// Password alone no longer logs in.
	rec = httptest.NewRecorder()
	env.Auth.Token(rec, jsonRequest("POST", "/auth/token", map[string]string{
		"email": email, "password": "sup3r-secret",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login without otp status = %d, want 401", rec.Code)
	}

	// Password plus a fresh code does.
	code, err = totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate totp code: %v", err)
	}
	rec = httptest.NewRecorder()
	env.Auth.Token(rec, jsonRequest("POST", "/auth/token", map[string]string{
		"email": email, "password": "sup3r-secret", "otp_code": code,
	}))
	if rec.Code != http.StatusOK {
		t.Errorf("login with otp status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// An enrolled account may not silently rotate its secret.
	enrolled, err := env.UserStore.FindByID(user.ID)
	if err != nil || enrolled == nil {
		t.Fatalf("reload enrolled user: %v", err)
	}
	rec = httptest.NewRecorder()
	env.Auth.TwoFASetup(rec, asActor(jsonRequest("POST", "/auth/2fa/setup", nil), enrolled))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("setup after enrollment status = %d, want 400", rec.Code)
	}
}
