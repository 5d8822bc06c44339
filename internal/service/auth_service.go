package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldworks/parts-order-api/internal/models"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
)

type authUserStore interface {
	GetUserByID(id string) (*models.User, error)
	UpdateUser(id string, upd models.UserUpdate) (bool, error)
	AppendLog(entry models.LogEntry) error
}

// AuthServiceConfig carries token signing parameters.
type AuthServiceConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// AuthService handles credential verification and token issuance.
type AuthService struct {
	users  authUserStore
	logger *zap.Logger
	now    func() time.Time
	cfg    AuthServiceConfig
}

// NewAuthService constructs an AuthService with sane defaults.
func NewAuthService(users authUserStore, logger *zap.Logger, cfg AuthServiceConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:  users,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
}

// Login verifies credentials and issues a signed token. Unknown accounts and
// wrong passwords return the same error so the response does not leak which
// part failed.
func (s *AuthService) Login(input models.LoginRequest) (*models.LoginResponse, error) {
	userID := strings.TrimSpace(input.UserID)
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, appErrors.ErrInactiveAccount
	}
	if !verifyPassword(user.PasswordHash, input.Password) {
		s.logger.Warn("failed login attempt", zap.String("userId", userID))
		return nil, appErrors.ErrInvalidCredentials
	}

	issuedAt := s.now()
	token, err := s.issueToken(user, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	redirect := "/dashboard"
	if user.Role == models.RoleAdmin {
		redirect = "/admin"
	}

	s.appendAuthLog("로그인", user.ID, input.IP)

	return &models.LoginResponse{
		Token:       token,
		ExpiresIn:   int64(s.cfg.TokenTTL.Seconds()),
		IssuedAt:    issuedAt,
		RedirectURL: redirect,
		User: models.UserInfo{
			UserID:       user.ID,
			Name:         user.Name,
			Role:         user.Role,
			Team:         user.Team,
			EmployeeCode: user.EmployeeCode,
			Region:       user.Region,
		},
	}, nil
}

func (s *AuthService) issueToken(user *models.User, issuedAt time.Time) (string, error) {
	claims := models.JWTClaims{
		UserID:       user.ID,
		Role:         user.Role,
		Name:         user.Name,
		Team:         user.Team,
		EmployeeCode: user.EmployeeCode,
		Region:       user.Region,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

// VerifyToken parses and validates a signed token, returning its claims.
func (s *AuthService) VerifyToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// ChangePassword rehashes the actor's own password after verifying the old
// one. Accounts migrated without a stored hash skip the old-password check.
func (s *AuthService) ChangePassword(userID string, input models.ChangePasswordRequest) error {
	user, err := s.users.GetUserByID(strings.TrimSpace(userID))
	if err != nil {
		return err
	}
	if user == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if user.PasswordHash != "" && !verifyPassword(user.PasswordHash, input.OldPassword) {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "old password does not match")
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	found, err := s.users.UpdateUser(user.ID, models.UserUpdate{PasswordHash: &hash})
	if err != nil {
		return err
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}

	s.appendAuthLog("비밀번호 변경", user.ID, "")
	return nil
}

func (s *AuthService) appendAuthLog(action, userID, detail string) {
	err := s.users.AppendLog(models.LogEntry{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Level:     models.LogLevelInfo,
		Action:    action,
		UserID:    userID,
		Detail:    detail,
	})
	if err != nil {
		s.logger.Warn("failed to append audit log", zap.String("action", action), zap.Error(err))
	}
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword checks a candidate against the stored hash. Rows imported
// from the legacy workbook hold unsalted hex sha256 digests; everything
// written by this service is bcrypt.
func verifyPassword(stored, candidate string) bool {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return false
	}
	if isLegacySHA256(stored) {
		sum := sha256.Sum256([]byte(candidate))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(digest)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

func isLegacySHA256(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
