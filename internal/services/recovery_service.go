package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gameslibrary/internal/auth"
	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/logger"
	"gameslibrary/internal/metrics"
	"gameslibrary/internal/notify"
	"gameslibrary/internal/utils"
)

// IdentityStore is the part of the user store the recovery flow needs.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (models.Identity, error)
	ChangePassword(ctx context.Context, identity models.Identity, resetCredential, newPassword string) error
}

type TokenIssuer interface {
	Issue(identity models.Identity) (string, error)
}

type TokenValidator interface {
	Validate(token, claimedEmail string) (*auth.RecoveryClaims, error)
}

// Ledger records consumed token ids. cache.Client satisfies it.
type Ledger interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// RecoveryService runs the forgot-password and reset-password flows.
type RecoveryService struct {
	Identities IdentityStore
	Issuer     TokenIssuer
	Validator  TokenValidator
	Sender     notify.Sender
	Ledger     Ledger
	Metrics    *metrics.Metrics

	ResetURLBase string
	// SingleUse refuses a token whose jti was already consumed. Needs Ledger.
	SingleUse bool
	// MaskUnknownEmail makes RequestReset succeed silently for unknown
	// addresses instead of returning NotFoundError.
	MaskUnknownEmail bool

	Now func() time.Time
}

func (s RecoveryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RequestReset looks up the account, issues a recovery token and mails a
// reset link to the account's address.
func (s RecoveryService) RequestReset(ctx context.Context, email string) (err error) {
	log := logger.From(ctx).With(logger.Op("recovery.request"), logger.Email(utils.MaskEmail(email)))
	defer func() { s.Metrics.ObserveRecovery(metrics.StageRequest, outcome(err)) }()

	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ValidationError{Field: "email", Msg: "is required"}
	}

	identity, err := s.lookup(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) && s.MaskUnknownEmail {
			log.Info("reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.Issuer.Issue(identity)
	if err != nil {
		log.Error("issue token failed", logger.Err(err))
		return err
	}
	link, err := notify.BuildResetLink(s.ResetURLBase, identity.Email, token)
	if err != nil {
		return domain.InternalError{Msg: "build reset link", Err: err}
	}

	if err := s.Sender.Send(ctx, identity.Email, notify.ResetSubject, notify.ResetBody(link)); err != nil {
		log.Error("send reset email failed", logger.Err(err))
		return domain.UpstreamError{Collaborator: "notification sender", Err: err}
	}
	log.Info("reset email sent", logger.UserID(identity.ID))
	return nil
}

// ConfirmReset checks token against email and, only when every check
// passes, sets the new password.
func (s RecoveryService) ConfirmReset(ctx context.Context, email, token, newPassword string) (err error) {
	log := logger.From(ctx).With(logger.Op("recovery.confirm"), logger.Email(utils.MaskEmail(email)))
	defer func() { s.Metrics.ObserveRecovery(metrics.StageConfirm, outcome(err)) }()

	identity, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}

	claims, err := s.Validator.Validate(token, email)
	if err != nil {
		kind, _ := domain.TokenErrorKindOf(err)
		log.Warn("recovery token rejected", logger.Kind(string(kind)), logger.Err(err))
		return err
	}

	if err := auth.CheckPasswordPolicy(newPassword); err != nil {
		return err
	}

	release, err := s.consume(ctx, claims)
	if err != nil {
		if kind, ok := domain.TokenErrorKindOf(err); ok {
			log.Warn("recovery token rejected", logger.Kind(string(kind)))
		}
		return err
	}

	if err := s.Identities.ChangePassword(ctx, identity, claims.ID, newPassword); err != nil {
		release()
		log.Error("change password failed", logger.Err(err))
		if domain.IsConflict(err) || domain.IsValidation(err) {
			return err
		}
		return domain.UpstreamError{Collaborator: "identity store", Err: err}
	}
	log.Info("password reset", logger.UserID(identity.ID))
	return nil
}

func (s RecoveryService) lookup(ctx context.Context, email string) (models.Identity, error) {
	identity, err := s.Identities.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return identity, nil
	case domain.IsNotFound(err):
		return models.Identity{}, domain.NotFoundError{Resource: "user", Err: err}
	default:
		logger.From(ctx).Error("identity lookup failed", logger.Op("recovery.lookup"), logger.Err(err))
		return models.Identity{}, domain.UpstreamError{Collaborator: "identity store", Err: err}
	}
}

// consume claims the token id in the ledger until the token expires. The
// returned release undoes the claim.
func (s RecoveryService) consume(ctx context.Context, claims *auth.RecoveryClaims) (release func(), err error) {
	noop := func() {}
	if !s.SingleUse || s.Ledger == nil {
		return noop, nil
	}
	if claims.ID == "" {
		return nil, domain.TokenError{Kind: domain.TokenMalformed, Err: errors.New("no jti claim")}
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil, domain.TokenError{Kind: domain.TokenExpired}
	}

	key := ledgerKey(claims.ID)
	ok, err := s.Ledger.SetNX(ctx, key, claims.Subject, ttl)
	if err != nil {
		return nil, domain.UpstreamError{Collaborator: "consumption ledger", Err: err}
	}
	if !ok {
		return nil, domain.TokenError{Kind: domain.TokenReused}
	}
	return func() {
		// The request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := s.Ledger.Delete(ctx, key); err != nil {
			logger.From(ctx).Warn("release token claim failed", logger.Err(err))
		}
	}, nil
}

func ledgerKey(jti string) string { return "recovery:jti:" + jti }

// outcome is the metrics label for a flow result.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := domain.TokenErrorKindOf(err); ok {
		return string(kind)
	}
	switch {
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsValidation(err):
		return "invalid_input"
	case domain.IsConflict(err):
		return "conflict"
	case domain.IsUpstream(err):
		return "upstream"
	default:
		return "error"
	}
}
