package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/identity"
	"github.com/smartpos/backend/internal/domain/shared"
	"github.com/smartpos/backend/internal/infrastructure/auth"
	"github.com/smartpos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Credential failures deliberately share one message so a caller cannot
// probe which usernames exist.
var errInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")

// AuthService handles registration, login, and token refresh. Each
// registered user gets their own shop; all of the user's data hangs off
// that shop ID carried in the JWT.
type AuthService struct {
	userRepo     identity.UserRepository
	jwtService   *auth.JWTService
	maxAttempts  int
	lockDuration time.Duration
	logger       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		maxAttempts:  cfg.MaxLoginAttempts,
		lockDuration: cfg.LockoutDuration,
		logger:       logger,
	}
}

// Register creates a user together with a fresh shop and signs them in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	shopID := uuid.New()
	user, err := identity.NewUser(shopID, input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(input.Email); err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
		}
		return nil, err
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		ShopID:   user.ShopID,
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("shop_id", user.ShopID.String()),
		zap.String("username", user.Username))

	return &AuthResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Login verifies credentials and issues a token pair. Failed attempts are
// counted and eventually lock the account for the configured window.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
		}
		return nil, errInvalidCredentials
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.maxAttempts, s.lockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after repeated failures",
				zap.String("username", user.Username),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
		}
		return nil, errInvalidCredentials
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		ShopID:   user.ShopID,
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &AuthResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account is not active")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		ShopID:   user.ShopID,
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Tokens: tokens}, nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword changes the authenticated user's password
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}
