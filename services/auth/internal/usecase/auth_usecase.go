package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"geekplay/pkg/jwt"
	"geekplay/pkg/logger"
	"geekplay/pkg/notify"
	"geekplay/services/auth/internal/entity"
	"geekplay/services/auth/internal/repo/persistent"
	"geekplay/services/auth/internal/repo/webapi"
)

const (
	welcomeTitle           = "¡Bienvenido a GeekPlay!"
	welcomeMessageTemplate = "Hola %s, gracias por unirte a nuestra comunidad. ¡Explora, publica y comenta!"
)

type AuthConfig struct {
	// AdminSecretKey must match the registration admin key exactly. An
	// empty secret disables elevation.
	AdminSecretKey string
	// AdminEmailSuffix is the reserved organizational domain, e.g.
	// "@geekplay.com".
	AdminEmailSuffix string
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

type TokenIssuer interface {
	GenerateToken(sub jwt.Subject) (string, error)
}

type AvatarStorage interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	AdminKey *string
}

type AuthResult struct {
	Token string
	User  *entity.User
}

type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetUser(ctx context.Context, userID int64) (*entity.User, error)
	UploadAvatar(ctx context.Context, userID int64, file io.Reader, fileKey, contentType string) (*entity.User, error)
}

type authUseCase struct {
	cfg           AuthConfig
	userRepo      persistent.UserRepository
	hasher        PasswordHasher
	tokens        TokenIssuer
	profileClient webapi.ProfileClient
	notifier      notify.Dispatcher
	storage       AvatarStorage
	logger        *logger.Logger
}

func NewAuthUseCase(
	cfg AuthConfig,
	userRepo persistent.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	profileClient webapi.ProfileClient,
	notifier notify.Dispatcher,
	storage AvatarStorage,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		cfg:           cfg,
		userRepo:      userRepo,
		hasher:        hasher,
		tokens:        tokens,
		profileClient: profileClient,
		notifier:      notifier,
		storage:       storage,
		logger:        logger,
	}
}

// RoleFor grants ADMIN only to reserved-domain emails presenting the exact
// secret. Any other combination is USER, with no hint of which part failed.
func RoleFor(cfg AuthConfig, email string, adminKey *string) entity.UserRole {
	if cfg.AdminEmailSuffix == "" || !strings.HasSuffix(email, cfg.AdminEmailSuffix) {
		return entity.RoleUser
	}
	if adminKey == nil || cfg.AdminSecretKey == "" || *adminKey != cfg.AdminSecretKey {
		return entity.RoleUser
	}
	return entity.RoleAdmin
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	_, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, persistent.ErrNotFound) {
		uc.logger.Error("Failed to check existing user: %v", err)
		return nil, fmt.Errorf("failed to process registration: %w", err)
	}

	hashedPassword, err := uc.hasher.Hash(in.Password)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to process registration: %w", err)
	}

	user := &entity.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashedPassword,
		Role:     RoleFor(uc.cfg, in.Email, in.AdminKey),
		Banned:   false,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, persistent.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		uc.logger.Error("Failed to create user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Not transactional with the user insert: on failure the user exists
	// without a profile and registration still succeeds.
	if err := uc.profileClient.CreateProfile(ctx, user.ID, user.Name, user.Email, string(user.Role)); err != nil {
		uc.logger.Warn("[PROFILE] Failed to create profile for user %d, profile is missing: %v", user.ID, err)
	} else {
		uc.logger.Info("[PROFILE] Created profile for user %d", user.ID)
	}

	uc.notifier.Dispatch(user.ID, notify.KindWelcome, welcomeTitle, fmt.Sprintf(welcomeMessageTemplate, user.Name))

	return uc.issue(user)
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		uc.logger.Error("Failed to load user for login: %v", err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Banned users get the suspension message whether or not the password
	// is correct, so the ban check runs before verification.
	if user.Banned {
		uc.logger.Info("Rejected login for suspended user %d", user.ID)
		return nil, &SuspendedError{Reason: user.BanReasonText()}
	}

	if err := uc.hasher.Verify(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return uc.issue(user)
}

func (uc *authUseCase) GetUser(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) UploadAvatar(ctx context.Context, userID int64, file io.Reader, fileKey, contentType string) (*entity.User, error) {
	if uc.storage == nil {
		return nil, ErrStorageUnavailable
	}

	avatarURL, err := uc.storage.UploadFile(fileKey, file, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar: %v", err)
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := uc.userRepo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		uc.logger.Error("Failed to update user avatar: %v", err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return uc.GetUser(ctx, userID)
}

func (uc *authUseCase) issue(user *entity.User) (*AuthResult, error) {
	token, err := uc.tokens.GenerateToken(jwt.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
		Avatar: user.AvatarURL,
	})
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = ""
	return &AuthResult{Token: token, User: user}, nil
}
