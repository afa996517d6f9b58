package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/hsm-gustavo/userauth-api/internal/common"
	"github.com/hsm-gustavo/userauth-api/internal/db"
)

// Claims is the payload of an access token. The user id travels in the
// registered "sub" claim.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Principal is the identity a verified token grants to a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

var signingMethod = jwt.SigningMethodHS256

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenIssuer fails with common.ErrConfiguration when the secret is blank
// or the ttl is not positive, so a misconfigured process never starts
// handing out tokens.
func NewTokenIssuer(secret string, ttl time.Duration, issuer string) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, oops.Code("AUTH_SECRET_MISSING").Wrapf(common.ErrConfiguration, "token secret is empty")
	}
	if ttl <= 0 {
		return nil, oops.Code("AUTH_TTL_INVALID").
			With("ttl", ttl.String()).
			Wrapf(common.ErrConfiguration, "token ttl must be positive")
	}

	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for user and the moment it expires.
func (i *TokenIssuer) Issue(user db.SafeUser) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, oops.Code("AUTH_TOKEN_SIGN").Wrap(err)
	}

	return token, expiresAt, nil
}

// TokenAuthenticator verifies access tokens and turns them into principals.
type TokenAuthenticator struct {
	secret []byte
	parser *jwt.Parser
	now    func() time.Time
}

func NewTokenAuthenticator(secret string, issuer string) (*TokenAuthenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, oops.Code("AUTH_SECRET_MISSING").Wrapf(common.ErrConfiguration, "token secret is empty")
	}

	a := &TokenAuthenticator{
		secret: []byte(secret),
		now:    time.Now,
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return a.now() }),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	a.parser = jwt.NewParser(opts...)

	return a, nil
}

// Authenticate verifies signature, algorithm, issuer and expiry. A token is
// expired once now reaches its exp claim. Every failure is reported as
// common.ErrUnauthenticated.
func (a *TokenAuthenticator) Authenticate(token string) (*Principal, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	claims := &Claims{}
	parsed, err := a.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, common.ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	return &Principal{
		UserID: userID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
