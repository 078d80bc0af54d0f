package service

import (
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/utils"
	"github.com/inkpress/inkpress/pkg/logger"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type AuthService struct {
	userRepo        *repository.UserRepository
	jwtSecret       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, accessTokenTTL, refreshTokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		jwtSecret:       jwtSecret,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

type RegisterInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
	Role                 models.Role
	Bio                  string
}

func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", input.Username),
		zap.String("email", input.Email),
	)

	if err := validateRegisterInput(&input); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", input.Username),
			zap.Error(err),
		)
		return nil, err
	}

	existing, err := s.userRepo.GetUserByUsername(input.Username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", input.Username),
			zap.Error(err),
		)
		return nil, apperr.Internal("failed to check username", err)
	}
	if existing != nil {
		return nil, apperr.Validation("username already exists")
	}

	existing, err = s.userRepo.GetUserByEmail(input.Email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", input.Email),
			zap.Error(err),
		)
		return nil, apperr.Internal("failed to check email", err)
	}
	if existing != nil {
		return nil, apperr.Validation("email already exists")
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Bio:          input.Bio,
		Role:         input.Role,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", input.Username),
			zap.Error(err),
		)
		return nil, apperr.Internal("failed to create user", err)
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, nil
}

// Login checks credentials and issues an access/refresh token pair.
func (s *AuthService) Login(username, password string) (*models.User, *utils.TokenPair, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to get user by username",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, nil, apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found", zap.String("username", username))
		return nil, nil, apperr.Auth("invalid credentials")
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, nil, apperr.Internal("failed to verify password", err)
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("username", username),
			zap.String("user_id", user.ID.String()),
		)
		return nil, nil, apperr.Auth("invalid credentials")
	}

	tokens, err := utils.GenerateTokenPair(user, s.jwtSecret, s.accessTokenTTL, s.refreshTokenTTL)
	if err != nil {
		logger.Log.Error("Failed to generate token pair",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, nil, apperr.Internal("failed to generate tokens", err)
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user
// row is re-read so tokens for deleted accounts stop refreshing.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := utils.ValidateToken(refreshToken, s.jwtSecret, utils.TokenTypeRefresh)
	if err != nil {
		return "", apperr.Auth("invalid or expired refresh token")
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return "", apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		return "", apperr.Auth("invalid or expired refresh token")
	}

	access, err := utils.GenerateToken(user, s.jwtSecret, s.accessTokenTTL, utils.TokenTypeAccess)
	if err != nil {
		return "", apperr.Internal("failed to generate access token", err)
	}

	logger.Log.Debug("Access token refreshed", zap.String("user_id", user.ID.String()))
	return access, nil
}

func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func validateRegisterInput(input *RegisterInput) error {
	if len(input.Username) < 3 {
		return apperr.Validation("username must be at least 3 characters")
	}
	if len(input.Username) > 50 {
		return apperr.Validation("username must be at most 50 characters")
	}

	if !emailRegex.MatchString(input.Email) {
		return apperr.Validation("invalid email format")
	}
	if len(input.Email) > 100 {
		return apperr.Validation("email too long")
	}

	if err := validatePassword(input.Password); err != nil {
		return err
	}
	if input.Password != input.PasswordConfirmation {
		return apperr.Validation("password fields didn't match")
	}

	if input.FirstName == "" || input.LastName == "" {
		return apperr.Validation("first_name and last_name are required")
	}

	if input.Role == "" {
		input.Role = models.RoleReader
	}
	if !models.ValidRole(input.Role) {
		return apperr.Validation("role must be one of ADMIN, AUTHOR, READER")
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return apperr.Validation("password too long")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperr.Validation("password must contain at least one letter and one digit")
	}

	return nil
}
