package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-admin/models"
)

const tokenIssuer = "hotel-admin"

// AuthService verifies admin credentials and issues HS256 bearer tokens.
type AuthService struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{DB: db, Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Login returns a signed token for valid credentials, ErrUnauthorized otherwise.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	var admin models.Admin
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return "", nil, fmt.Errorf("load admin: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.IssueToken(admin.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &admin, nil
}

func (s *AuthService) IssueToken(adminID uint) (string, error) {
	now := s.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(adminID), 10),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature, issuer and expiry and returns the admin id.
func (s *AuthService) ParseToken(raw string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}
	return uint(id), nil
}

func (s *AuthService) GetAdmin(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.WithContext(ctx).First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admin %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load admin: %w", err)
	}
	return &admin, nil
}
