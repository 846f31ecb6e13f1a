package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vendora/internal/cache"
	"github.com/vendora/internal/config"
	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// 登录主体
const (
	AuthSubjectAdmin  = "admin"
	AuthSubjectVendor = "vendor"
)

// ErrTokenInvalid token 无效或已失效
var ErrTokenInvalid = errors.New("invalid token")

// AuthService 管理员与商户认证
type AuthService struct {
	cfg        *config.Config
	adminRepo  repository.AdminRepository
	vendorRepo repository.VendorRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository, vendorRepo repository.VendorRepository) *AuthService {
	return &AuthService{
		cfg:        cfg,
		adminRepo:  adminRepo,
		vendorRepo: vendorRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims 管理员 JWT 声明
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// VendorJWTClaims 商户 JWT 声明
type VendorJWTClaims struct {
	VendorID     uint   `json:"vendor_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

func signClaims(claims jwt.Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseClaims(tokenString, secret string, claims jwt.Claims) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func registeredClaims(expireHours int) (jwt.RegisteredClaims, time.Time) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}, expiresAt
}

// GenerateJWT 生成管理员 JWT
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	registered, expiresAt := registeredClaims(s.cfg.JWT.ExpireHours)
	token, err := signClaims(JWTClaims{
		AdminID:          admin.ID,
		Username:         admin.Username,
		TokenVersion:     admin.TokenVersion,
		RegisteredClaims: registered,
	}, s.cfg.JWT.SecretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseJWT 解析管理员 JWT
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := parseClaims(tokenString, s.cfg.JWT.SecretKey, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateVendorJWT 生成商户 JWT
func (s *AuthService) GenerateVendorJWT(vendor *models.Vendor) (string, time.Time, error) {
	registered, expiresAt := registeredClaims(s.cfg.VendorJWT.ExpireHours)
	token, err := signClaims(VendorJWTClaims{
		VendorID:         vendor.ID,
		Email:            vendor.Email,
		TokenVersion:     vendor.TokenVersion,
		RegisteredClaims: registered,
	}, s.cfg.VendorJWT.SecretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseVendorJWT 解析商户 JWT
func (s *AuthService) ParseVendorJWT(tokenString string) (*VendorJWTClaims, error) {
	claims := &VendorJWTClaims{}
	if err := parseClaims(tokenString, s.cfg.VendorJWT.SecretKey, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Login 管理员登录
func (s *AuthService) Login(username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	admin.LastLoginAt = &now
	if err := s.adminRepo.TouchLastLogin(admin.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetAuthState(context.Background(), AdminAuthState(admin))
	logger.Infow("admin_login", "admin_id", admin.ID, "username", admin.Username)
	return admin, token, expiresAt, nil
}

// VendorLogin 商户登录
func (s *AuthService) VendorLogin(email, password string) (*models.Vendor, string, time.Time, error) {
	vendor, err := s.vendorRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if vendor == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(vendor.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if vendor.Status != constants.VendorStatusActive {
		return nil, "", time.Time{}, ErrAccountDisabled
	}

	token, expiresAt, err := s.GenerateVendorJWT(vendor)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	vendor.LastLoginAt = &now
	if err := s.vendorRepo.TouchLastLogin(vendor.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetAuthState(context.Background(), VendorAuthState(vendor))
	logger.Infow("vendor_login", "vendor_id", vendor.ID)
	return vendor, token, expiresAt, nil
}

// ResolveAdminState 读取管理员鉴权快照，缓存未命中时查库并回填
func (s *AuthService) ResolveAdminState(ctx context.Context, adminID uint) (*cache.AuthState, error) {
	if state, hit, err := cache.GetAuthState(ctx, AuthSubjectAdmin, adminID); err == nil && hit {
		return state, nil
	}
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	state := AdminAuthState(admin)
	_ = cache.SetAuthState(ctx, state)
	return state, nil
}

// ResolveVendorState 读取商户鉴权快照
func (s *AuthService) ResolveVendorState(ctx context.Context, vendorID uint) (*cache.AuthState, error) {
	if state, hit, err := cache.GetAuthState(ctx, AuthSubjectVendor, vendorID); err == nil && hit {
		return state, nil
	}
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrNotFound
	}
	state := VendorAuthState(vendor)
	_ = cache.SetAuthState(ctx, state)
	return state, nil
}

// ChangeVendorPassword 商户修改密码，所有旧 token 失效
func (s *AuthService) ChangeVendorPassword(vendorID uint, oldPassword, newPassword string) error {
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return ErrNotFound
	}
	if err := VerifyPassword(vendor.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	if len([]rune(newPassword)) < 8 {
		return ErrPasswordTooShort
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.vendorRepo.UpdatePassword(vendor.ID, hash); err != nil {
		return err
	}
	_ = cache.DelAuthState(context.Background(), AuthSubjectVendor, vendor.ID)
	return nil
}

// AdminAuthState 管理员快照
func AdminAuthState(admin *models.Admin) *cache.AuthState {
	return &cache.AuthState{
		Subject:      AuthSubjectAdmin,
		ID:           admin.ID,
		TokenVersion: admin.TokenVersion,
		IsSuper:      admin.IsSuper,
	}
}

// VendorAuthState 商户快照
func VendorAuthState(vendor *models.Vendor) *cache.AuthState {
	return &cache.AuthState{
		Subject:      AuthSubjectVendor,
		ID:           vendor.ID,
		Status:       vendor.Status,
		TokenVersion: vendor.TokenVersion,
	}
}
