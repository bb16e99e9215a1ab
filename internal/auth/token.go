// Package auth signs and checks the HS256 tokens handed out by the service:
// password-recovery tokens and bearer access tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultRecoveryTTL = 120 * time.Minute

	PurposePasswordReset = "password_reset"
	PurposeAccess        = "access"
)

var signingMethod = jwt.SigningMethodHS256

// TokenConfig is read once at startup and never mutated afterwards.
type TokenConfig struct {
	Key    []byte
	Issuer string
	TTL    time.Duration
}

func (c TokenConfig) check() error {
	if len(c.Key) == 0 {
		return errors.New("auth: signing key is empty")
	}
	if strings.TrimSpace(c.Issuer) == "" {
		return errors.New("auth: issuer is empty")
	}
	return nil
}

// RecoveryClaims is the payload of a password-recovery token.
type RecoveryClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Option customizes an Issuer or Validator.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides the jti source.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Issuer mints recovery tokens bound to one identity.
type Issuer struct {
	cfg  TokenConfig
	opts options
}

func NewIssuer(cfg TokenConfig, opts ...Option) (*Issuer, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultRecoveryTTL
	}
	return &Issuer{cfg: cfg, opts: buildOptions(opts)}, nil
}

// TTL is the lifetime of every token this issuer signs.
func (i *Issuer) TTL() time.Duration { return i.cfg.TTL }

// Issue signs a token for identity. Every call yields a fresh jti.
func (i *Issuer) Issue(identity models.Identity) (string, error) {
	if strings.TrimSpace(identity.Email) == "" {
		return "", domain.ValidationError{Field: "email", Msg: "identity has no email"}
	}

	now := i.opts.now().UTC()
	claims := RecoveryClaims{
		Email:   identity.Email,
		Purpose: PurposePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			ID:        i.opts.newID(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(i.cfg.Key)
	if err != nil {
		return "", domain.InternalError{Msg: "sign recovery token", Err: err}
	}
	return signed, nil
}

// Validator checks recovery tokens. It holds no state besides its config, so
// validating the same token twice gives the same answer.
type Validator struct {
	cfg  TokenConfig
	opts options
}

func NewValidator(cfg TokenConfig, opts ...Option) (*Validator, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &Validator{cfg: cfg, opts: buildOptions(opts)}, nil
}

// Validate runs the checks in a fixed order and reports the first failure as
// a domain.TokenError: malformed, signature, issuer, expiry, then email. A
// signed token minted for another purpose counts as malformed. The email
// comparison is exact.
func (v *Validator) Validate(token, claimedEmail string) (*RecoveryClaims, error) {
	claims := &RecoveryClaims{}
	if err := v.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposePasswordReset {
		return nil, domain.TokenError{Kind: domain.TokenMalformed, Err: ErrWrongPurpose}
	}

	if claims.Issuer != v.cfg.Issuer {
		return nil, domain.TokenError{Kind: domain.TokenInvalidIssuer}
	}
	if err := checkExpiry(claims.RegisteredClaims, v.opts.now()); err != nil {
		return nil, err
	}
	if claims.Email != claimedEmail {
		return nil, domain.TokenError{Kind: domain.TokenEmailMismatch}
	}
	return claims, nil
}

func (v *Validator) parse(token string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.cfg.Key, nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err == nil {
		return nil
	}
	return classify(err)
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.TokenError{Kind: domain.TokenInvalidSignature, Err: err}
	default:
		return domain.TokenError{Kind: domain.TokenMalformed, Err: err}
	}
}

// A missing exp counts as expired.
func checkExpiry(rc jwt.RegisteredClaims, now time.Time) error {
	if rc.ExpiresAt == nil {
		return domain.TokenError{Kind: domain.TokenExpired, Err: errors.New("no exp claim")}
	}
	if !now.Before(rc.ExpiresAt.Time) {
		return domain.TokenError{
			Kind: domain.TokenExpired,
			Err:  fmt.Errorf("expired at %s", rc.ExpiresAt.UTC().Format(time.RFC3339)),
		}
	}
	return nil
}
