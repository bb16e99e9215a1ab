package auth

import (
	"errors"
	"strconv"
	"time"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultAccessTTL = 24 * time.Hour

// AccessClaims authenticates API calls after login.
type AccessClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

// AccessTokens signs and parses bearer tokens. Recovery tokens share the key
// but are refused here because their purpose differs.
type AccessTokens struct {
	cfg  TokenConfig
	opts options
}

func NewAccessTokens(cfg TokenConfig, opts ...Option) (*AccessTokens, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultAccessTTL
	}
	return &AccessTokens{cfg: cfg, opts: buildOptions(opts)}, nil
}

func (a *AccessTokens) TTL() time.Duration { return a.cfg.TTL }

func (a *AccessTokens) Sign(identity models.Identity) (string, error) {
	now := a.opts.now().UTC()
	claims := AccessClaims{
		UserID:   identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
		Purpose:  PurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.ID, 10),
			ID:        a.opts.newID(),
			Issuer:    a.cfg.Issuer,
			Audience:  jwt.ClaimStrings{a.cfg.Issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(a.cfg.Key)
	if err != nil {
		return "", domain.InternalError{Msg: "sign access token", Err: err}
	}
	return signed, nil
}

// ErrWrongPurpose marks a correctly signed token minted for another use.
var ErrWrongPurpose = errors.New("token minted for another purpose")

func (a *AccessTokens) Parse(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return a.cfg.Key, nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(a.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.opts.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.TokenError{Kind: domain.TokenExpired, Err: err}
		}
		if errors.Is(err, jwt.ErrTokenInvalidIssuer) {
			return nil, domain.TokenError{Kind: domain.TokenInvalidIssuer, Err: err}
		}
		return nil, classify(err)
	}
	if claims.Purpose != PurposeAccess {
		return nil, domain.TokenError{Kind: domain.TokenMalformed, Err: ErrWrongPurpose}
	}
	return claims, nil
}
