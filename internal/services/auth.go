package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/pkg/cache"
	"github.com/inkwell/inkwell/pkg/logger"
	"github.com/inkwell/inkwell/pkg/mailer"
	"github.com/inkwell/inkwell/pkg/queue"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	userRepo       *repository.UserRepository
	cache          *cache.RedisClient
	mailer         *mailer.Mailer
	producer       *queue.KafkaProducer
	logger         *logger.Logger
	clientURL      string
	googleClientID string
}

func NewAuthService(userRepo *repository.UserRepository, cache *cache.RedisClient, mailer *mailer.Mailer, producer *queue.KafkaProducer, logger *logger.Logger, clientURL, googleClientID string) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		cache:          cache,
		mailer:         mailer,
		producer:       producer,
		logger:         logger,
		clientURL:      clientURL,
		googleClientID: googleClientID,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=50"`
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if existing != nil {
		return nil, ErrConflict("email already registered")
	}

	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if existing != nil {
		return nil, ErrConflict("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, ErrInternal(err)
	}

	s.publish(ctx, user.ID.String(), queue.Event{
		Type:      queue.EventUserRegistered,
		Timestamp: user.CreatedAt,
		User: &queue.UserEventData{
			UserID:   user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		},
	})

	s.logger.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user == nil {
		return nil, ErrNotFound("user does not exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized("incorrect password")
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, nil
}

// GoogleLogin verifies a Google ID token and finds or creates the matching
// account. First-time OAuth users get a random password they never use.
func (s *AuthService) GoogleLogin(ctx context.Context, req *GoogleLoginRequest) (*models.User, error) {
	payload, err := idtoken.Validate(ctx, req.Token, s.googleClientID)
	if err != nil {
		return nil, ErrUnauthorized("google login failed")
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrUnauthorized("google login failed")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user != nil {
		return user, nil
	}

	random, err := randomToken(8)
	if err != nil {
		return nil, ErrInternal(err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(random), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	user = &models.User{
		Username: name,
		Email:    email,
		Password: string(hashed),
		Avatar:   picture,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, ErrInternal(err)
	}

	s.logger.WithField("user_id", user.ID).Info("User created via Google login")
	return user, nil
}

// ForgotPassword stores a one-time reset token in redis with a one hour
// TTL and emails the reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return ErrInternal(err)
	}
	if user == nil {
		return ErrNotFound("user not found with this email")
	}

	token, err := randomToken(32)
	if err != nil {
		return ErrInternal(err)
	}

	if err := s.cache.Set(ctx, resetTokenKey(token), user.ID.String(), resetTokenTTL); err != nil {
		return ErrInternal(fmt.Errorf("failed to store reset token: %w", err))
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	body := fmt.Sprintf(`<h3>Password Reset</h3>
<p>Click the link below to reset your password:</p>
<a href=%q target="_blank">%s</a>
<p>This link expires in 1 hour.</p>`, resetURL, resetURL)

	if err := s.mailer.Send(user.Email, "Password Reset Request", body); err != nil {
		return ErrInternal(fmt.Errorf("failed to send reset email: %w", err))
	}

	s.logger.WithField("user_id", user.ID).Info("Password reset email sent")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, req *ResetPasswordRequest) error {
	userID, err := s.cache.Get(ctx, resetTokenKey(token))
	if err != nil {
		return ErrInternal(fmt.Errorf("failed to look up reset token: %w", err))
	}
	if userID == "" {
		return ErrValidation("invalid or expired token")
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return ErrInternal(err)
	}

	// One-time token: drop it as soon as it is spent.
	if err := s.cache.Delete(ctx, resetTokenKey(token)); err != nil {
		s.logger.WithError(err).Warn("Failed to delete spent reset token")
	}

	s.logger.WithField("user_id", user.ID).Info("Password reset successfully")
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if user == nil {
		return nil, ErrNotFound("user not found")
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, key string, event queue.Event) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish auth event")
	}
}

func resetTokenKey(token string) string {
	return "reset_token:" + token
}

func randomToken(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
