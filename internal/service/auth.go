package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

var errInvalidCredentials = &AuthenticationError{Reason: "Unable to log in with provided credentials."}

// TokenRevoker remembers token ids that were logged out until they expire
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisTokenRevoker keeps revoked token ids in Redis with the remaining token lifetime as TTL
type RedisTokenRevoker struct {
	redis  *redis.Client
	prefix string
}

// NewRedisTokenRevoker creates a revoker that stores keys under "auth:revoked:"
func NewRedisTokenRevoker(client *redis.Client) *RedisTokenRevoker {
	return &RedisTokenRevoker{redis: client, prefix: "auth:revoked:"}
}

func (r *RedisTokenRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.redis.Set(ctx, r.prefix+tokenID, 1, ttl).Err()
}

func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.redis.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AuthService issues and validates bearer tokens
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
	revoker   TokenRevoker
}

// NewAuthService creates a new AuthService. A nil revoker disables logout
// revocation; tokens then stay valid until they expire.
func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, revoker TokenRevoker) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		revoker:   revoker,
	}
}

// Login checks the credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errInvalidCredentials
	}
	if err != nil {
		return "", wrapDBError(err, "find user", "user", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Info().Uint("user_id", user.ID).Msg("login rejected")
		return "", errInvalidCredentials
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return "", err
	}

	log.Info().Uint("user_id", user.ID).Msg("user logged in")
	return token, nil
}

// GenerateToken signs a token for user
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses tokenString and returns its claims. Expired, malformed
// and revoked tokens are rejected with an AuthenticationError.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, &AuthenticationError{Reason: "Invalid token."}
	}
	if claims.UserID == 0 {
		return nil, &AuthenticationError{Reason: "Invalid token claims."}
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Warn().Err(err).Msg("token revocation check failed")
		} else if revoked {
			return nil, &AuthenticationError{Reason: "Token has been revoked."}
		}
	}

	return claims, nil
}

// Logout revokes the token held by principal for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, principal types.Principal) error {
	if s.revoker == nil || principal.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, principal.TokenID, time.Until(principal.ExpiresAt)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	log.Info().Uint("user_id", principal.UserID).Msg("user logged out")
	return nil
}
