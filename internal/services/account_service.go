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
	"gameslibrary/internal/utils"
)

type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (models.Identity, error)
	FindByUsername(ctx context.Context, username string) (models.Identity, error)
	FindByID(ctx context.Context, id int64) (models.Identity, error)
	List(ctx context.Context) ([]models.Identity, error)
	Create(ctx context.Context, identity models.Identity, password string) (models.Identity, error)
	ChangePassword(ctx context.Context, identity models.Identity, resetCredential, newPassword string) error
}

type AccessSigner interface {
	Sign(identity models.Identity) (string, error)
	TTL() time.Duration
}

// AccountService handles registration, login and the user listing.
type AccountService struct {
	Users  AccountStore
	Tokens AccessSigner
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresIn int64             `json:"expiresIn"`
	User      models.PublicUser `json:"user"`
}

var errBadCredentials = domain.UnauthorizedError{Msg: "invalid username/email or password"}

func (s AccountService) Register(ctx context.Context, in RegisterInput) (models.PublicUser, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := auth.CheckPasswordPolicy(in.Password); err != nil {
		var ve domain.ValidationError
		if errors.As(err, &ve) {
			ve.Field = "password"
			return models.PublicUser{}, ve
		}
		return models.PublicUser{}, err
	}

	u, err := s.Users.Create(ctx, models.Identity{
		Username: in.Username,
		Email:    in.Email,
		Role:     models.RoleClient,
	}, in.Password)
	if err != nil {
		if domain.IsConflict(err) {
			return models.PublicUser{}, err
		}
		return models.PublicUser{}, domain.UpstreamError{Collaborator: "identity store", Err: err}
	}

	logger.From(ctx).Info("user registered", logger.Op("account.register"), logger.UserID(u.ID), logger.Email(utils.MaskEmail(u.Email)))
	return u.ToPublic(), nil
}

// Login accepts either the email or the username as login.
func (s AccountService) Login(ctx context.Context, login, password string) (LoginResult, error) {
	login = strings.TrimSpace(login)
	find := s.Users.FindByUsername
	if strings.Contains(login, "@") {
		find = s.Users.FindByEmail
	}

	u, err := find(ctx, login)
	if err != nil {
		if domain.IsNotFound(err) {
			return LoginResult{}, errBadCredentials
		}
		return LoginResult{}, domain.UpstreamError{Collaborator: "identity store", Err: err}
	}
	if !auth.ComparePassword(u.PasswordHash, password) {
		logger.From(ctx).Info("login rejected", logger.Op("account.login"), logger.UserID(u.ID))
		return LoginResult{}, errBadCredentials
	}

	token, err := s.Tokens.Sign(u)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:     token,
		ExpiresIn: int64(s.Tokens.TTL().Seconds()),
		User:      u.ToPublic(),
	}, nil
}

func (s AccountService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, domain.UpstreamError{Collaborator: "identity store", Err: err}
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	return out, nil
}

func (s AccountService) GetUser(ctx context.Context, id int64) (models.PublicUser, error) {
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.PublicUser{}, err
		}
		return models.PublicUser{}, domain.UpstreamError{Collaborator: "identity store", Err: err}
	}
	return u.ToPublic(), nil
}

// UpdatePassword changes the password of a signed-in account after checking
// the current one. Nothing is written unless both passwords pass.
func (s AccountService) UpdatePassword(ctx context.Context, userID int64, current, newPassword string) error {
	log := logger.From(ctx).With(logger.Op("account.update_password"), logger.UserID(userID))

	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return domain.UpstreamError{Collaborator: "identity store", Err: err}
	}
	if !auth.ComparePassword(u.PasswordHash, current) {
		log.Info("current password rejected")
		return domain.ValidationError{Field: "currentPassword", Msg: "is incorrect"}
	}
	if err := auth.CheckPasswordPolicy(newPassword); err != nil {
		return err
	}

	if err := s.Users.ChangePassword(ctx, u, "", newPassword); err != nil {
		if domain.IsConflict(err) || domain.IsNotFound(err) {
			return err
		}
		return domain.UpstreamError{Collaborator: "identity store", Err: err}
	}
	log.Info("password updated")
	return nil
}
