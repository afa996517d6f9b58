package auth

import "context"

const TokenType = "Bearer"

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

// AuthService composes credential checking, token issuance and token
// verification.
type AuthService struct {
	validator     *CredentialValidator
	issuer        *TokenIssuer
	authenticator *TokenAuthenticator
}

func NewAuthService(validator *CredentialValidator, issuer *TokenIssuer, authenticator *TokenAuthenticator) *AuthService {
	return &AuthService{
		validator:     validator,
		issuer:        issuer,
		authenticator: authenticator,
	}
}

// Login returns a fresh access token for valid credentials, or
// common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.validator.Validate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, _, err := s.issuer.Issue(*user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   int64(s.issuer.TTL().Seconds()),
	}, nil
}

// RequireAuth is the gate in front of protected operations.
func (s *AuthService) RequireAuth(token string) (*Principal, error) {
	return s.authenticator.Authenticate(token)
}
