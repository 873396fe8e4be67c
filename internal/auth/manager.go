package auth

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jamesprial/marketplace-mcp/internal/graphql"
)

const loginWithGoogleMutation = `mutation LoginWithGoogle($input: SocialLoginInput!) {
  loginWithGoogle(input: $input) {
    accessToken
    tokenType
    user { id name email role }
  }
}`

const loginWithAppleMutation = `mutation LoginWithApple($input: AppleLoginInput!) {
  loginWithApple(input: $input) {
    accessToken
    tokenType
    user { id name email role }
  }
}`

// Compile-time interface check.
var _ AuthManager = (*GraphQLAuthManager)(nil)

// GraphQLAuthManager implements AuthManager over the backend GraphQL API.
type GraphQLAuthManager struct {
	runner *graphql.Runner
}

// NewGraphQLAuthManager returns a GraphQLAuthManager backed by runner.
func NewGraphQLAuthManager(runner *graphql.Runner) *GraphQLAuthManager {
	if runner == nil {
		panic("graphql runner must not be nil")
	}
	return &GraphQLAuthManager{runner: runner}
}

// requireToken validates that a provider token was sent.
func requireToken(field, value string) error {
	msg := field + " requerido."
	if err := validation.Validate(value, validation.Required.Error(msg)); err != nil {
		return &InputError{Field: field, Message: msg}
	}
	return nil
}

// ValidateGoogle reports a missing idToken.
func ValidateGoogle(input SocialLoginInput) error {
	return requireToken("idToken", input.IDToken)
}

// ValidateApple reports a missing identityToken.
func ValidateApple(input AppleLoginInput) error {
	return requireToken("identityToken", input.IdentityToken)
}

// LoginWithGoogle exchanges a Google ID token for a marketplace access token.
func (m *GraphQLAuthManager) LoginWithGoogle(ctx context.Context, input SocialLoginInput) (*AuthResponse, error) {
	if err := ValidateGoogle(input); err != nil {
		return nil, err
	}

	data, err := m.runner.Mutate(ctx, loginWithGoogleMutation, map[string]any{"input": input}, "")
	if err != nil {
		return nil, fmt.Errorf("auth loginWithGoogle: %w", err)
	}

	resp, err := graphql.Decode[struct {
		LoginWithGoogle AuthResponse `json:"loginWithGoogle"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("auth loginWithGoogle: %w", err)
	}
	return &resp.LoginWithGoogle, nil
}

// LoginWithApple exchanges an Apple identity token for a marketplace access
// token.
func (m *GraphQLAuthManager) LoginWithApple(ctx context.Context, input AppleLoginInput) (*AuthResponse, error) {
	if err := ValidateApple(input); err != nil {
		return nil, err
	}

	data, err := m.runner.Mutate(ctx, loginWithAppleMutation, map[string]any{"input": input}, "")
	if err != nil {
		return nil, fmt.Errorf("auth loginWithApple: %w", err)
	}

	resp, err := graphql.Decode[struct {
		LoginWithApple AuthResponse `json:"loginWithApple"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("auth loginWithApple: %w", err)
	}
	return &resp.LoginWithApple, nil
}
