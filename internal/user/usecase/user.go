package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/user/entity"
	"github.com/Jayeshfarkunde27/To-let/internal/user/repository"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleAlreadySet     = errors.New("role has already been selected")
	ErrInvalidRole        = errors.New("invalid role")
)

const tokenTTL = 24 * time.Hour

// UserRepository is the persistence port for user profiles and session
// tokens.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, userID string) (*entity.User, error)
	UpdateRole(ctx context.Context, userID string, role entity.Role) error
	CacheToken(ctx context.Context, userID, token string, expiration time.Duration) error
	InvalidateToken(ctx context.Context, userID string) error
	GetToken(ctx context.Context, userID string) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type Mailer interface {
	SendWelcomeEmail(toEmail, name string) error
}

type UserUsecase struct {
	repo      UserRepository
	publisher Publisher
	mailer    Mailer
	jwtSecret string
	logger    *logger.Logger
}

func NewUserUsecase(repo UserRepository, publisher Publisher, mailer Mailer, jwtSecret string, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		repo:      repo,
		publisher: publisher,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		logger:    log.Named("UserUsecase"),
	}
}

type userRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Register creates a new account with no role selected. The caller is sent to
// role selection next; the returned token carries an empty role claim until
// then.
func (u *UserUsecase) Register(ctx context.Context, email, password, name string) (*entity.User, string, error) {
	user := &entity.User{
		Email:    email,
		Name:     name,
		Password: password, // hashed in the repository
		Role:     entity.RoleUnset,
	}

	if err := u.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	if err := u.publisher.Publish(ctx, "user.registered", userRegisteredEvent{UserID: user.ID, Email: user.Email}); err != nil {
		u.logger.Warn("failed to publish user.registered event", zap.String("user_id", user.ID), zap.Error(err))
	}
	if err := u.mailer.SendWelcomeEmail(user.Email, user.Name); err != nil {
		u.logger.Warn("failed to send welcome email", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := u.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *UserUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	// Reuse a still-valid cached session if there is one.
	token, err := u.repo.GetToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	if token != "" {
		return user, token, nil
	}

	token, err = u.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *UserUsecase) Logout(ctx context.Context, userID string) error {
	return u.repo.InvalidateToken(ctx, userID)
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return u.repo.GetUserByID(ctx, userID)
}

// SelectRole sets the account role exactly once. A second selection fails
// with ErrRoleAlreadySet. A fresh token carrying the role claim is returned.
func (u *UserUsecase) SelectRole(ctx context.Context, userID string, role entity.Role) (*entity.User, string, error) {
	if !role.Valid() {
		return nil, "", ErrInvalidRole
	}

	user, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user.Role != entity.RoleUnset {
		return nil, "", ErrRoleAlreadySet
	}

	if err := u.repo.UpdateRole(ctx, userID, role); err != nil {
		return nil, "", err
	}
	user.Role = role

	// The old token still carries an empty role claim; replace it.
	if err := u.repo.InvalidateToken(ctx, userID); err != nil {
		u.logger.Warn("failed to invalidate stale token", zap.String("user_id", userID), zap.Error(err))
	}
	token, err := u.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *UserUsecase) issueToken(ctx context.Context, user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.jwtSecret))
	if err != nil {
		u.logger.Error("failed to sign token", zap.String("user_id", user.ID), zap.Error(err))
		return "", err
	}
	if err := u.repo.CacheToken(ctx, user.ID, token, tokenTTL); err != nil {
		u.logger.Warn("failed to cache token", zap.String("user_id", user.ID), zap.Error(err))
	}
	return token, nil
}
