package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"Gallerist/internal/model"
	"Gallerist/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Claims — содержимое bearer токена: только id администратора и время жизни.
type Claims struct {
	AdminID string `json:"id"`
	jwt.RegisteredClaims
}

// AuthOptions — параметры выпуска токенов и регистрации.
type AuthOptions struct {
	Secret            string
	TTL               time.Duration
	AllowRegistration bool
}

// AuthService выпускает и проверяет токены администратора.
type AuthService struct {
	admins repo.AdminRepository
	opts   AuthOptions
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewAuthService(admins repo.AdminRepository, opts AuthOptions, logger *zap.SugaredLogger) *AuthService {
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &AuthService{admins: admins, opts: opts, logger: logger, now: time.Now}
}

// dummyHash сравнивается при неизвестном логине, чтобы время ответа не выдавало наличие пользователя.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("gallerist-dummy-password"), bcrypt.DefaultCost)
	return h
})

// Login проверяет пару логин/пароль и выпускает токен.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Admin, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", newError(ErrValidation, "Please provide username and password")
	}
	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, "", fmt.Errorf("load admin: %w", err)
	}
	if admin == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		s.logger.Warnw("login failed", "username", username, "reason", "unknown user")
		return nil, "", newError(ErrInvalidCredentials, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.logger.Warnw("login failed", "username", username, "reason", "password mismatch")
		return nil, "", newError(ErrInvalidCredentials, "Invalid credentials")
	}
	token, err := s.issue(admin.ID)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// Verify проверяет подпись и срок токена и загружает администратора.
func (s *AuthService) Verify(ctx context.Context, token string) (*model.Admin, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, newError(ErrUnauthorized, "Not authorized, no token")
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.opts.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.AdminID == "" {
		return nil, newError(ErrUnauthorized, "Not authorized, token invalid")
	}
	admin, err := s.admins.GetAdminByID(ctx, claims.AdminID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, newError(ErrUnauthorized, "Not authorized, admin not found")
	case err != nil:
		return nil, fmt.Errorf("load admin: %w", err)
	}
	return admin, nil
}

// Register создаёт администратора. Доступно только когда регистрация разрешена конфигурацией.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.Admin, string, error) {
	if !s.opts.AllowRegistration {
		return nil, "", newError(ErrForbidden, "Registration is disabled")
	}
	admin, err := s.createAdmin(ctx, username, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.issue(admin.ID)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// EnsureAdmin создаёт администратора, если логин ещё свободен. Используется galleryctl.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (*model.Admin, bool, error) {
	existing, err := s.admins.GetAdminByUsername(ctx, strings.TrimSpace(username))
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, repo.ErrNotFound):
		return nil, false, fmt.Errorf("load admin: %w", err)
	}
	admin, err := s.createAdmin(ctx, username, email, password)
	if err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

func (s *AuthService) createAdmin(ctx context.Context, username, email, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, newError(ErrValidation, "Please provide username, email and password")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, newError(ErrValidation, "Please provide a valid email")
	}
	if len(password) < minPasswordLen {
		return nil, newError(ErrValidation, "Password must be at least %d characters", minPasswordLen)
	}
	exists, err := s.admins.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return nil, newError(ErrConflict, "Admin already exists with this email or username")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin, err := s.admins.CreateAdmin(ctx, &model.Admin{Username: username, Email: email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, newError(ErrConflict, "Admin already exists with this email or username")
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	s.logger.Infow("admin created", "admin_id", admin.ID, "username", admin.Username)
	return admin, nil
}

func (s *AuthService) issue(adminID string) (string, error) {
	now := s.now()
	claims := Claims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
