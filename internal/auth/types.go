// Package auth provides social login (Google, Apple) against the marketplace
// backend and inspection of the access tokens it issues.
package auth

import (
	"context"
	"errors"
)

// SocialLoginInput is the Google sign-in payload.
type SocialLoginInput struct {
	IDToken           string  `json:"idToken"`
	AuthorizationCode *string `json:"authorizationCode,omitempty"`
	Nonce             *string `json:"nonce,omitempty"`
}

// AppleLoginInput is the Sign in with Apple payload.
type AppleLoginInput struct {
	IdentityToken     string  `json:"identityToken"`
	AuthorizationCode *string `json:"authorizationCode,omitempty"`
	Nonce             *string `json:"nonce,omitempty"`
}

// User is the account returned after a successful login.
type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Role      string  `json:"role"`
	CreatedAt *string `json:"createdAt,omitempty"`
}

// AuthResponse carries the backend access token and the signed-in user.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	User        User   `json:"user"`
}

// ErrInvalidInput is matched by every *InputError.
var ErrInvalidInput = errors.New("invalid login input")

// InputError reports a missing or malformed login field. Message is the
// user-facing text.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// AuthManager defines the social login operations.
type AuthManager interface {
	LoginWithGoogle(ctx context.Context, input SocialLoginInput) (*AuthResponse, error)
	LoginWithApple(ctx context.Context, input AppleLoginInput) (*AuthResponse, error)
}
