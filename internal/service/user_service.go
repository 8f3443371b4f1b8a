package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alertdesk_go/internal/model"
	"alertdesk_go/internal/repository"
	"alertdesk_go/pkg/hash"
	"alertdesk_go/pkg/log"
	"alertdesk_go/pkg/token"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// TokenBlacklistPrefix 与 AuthMiddleware 读取黑名单时使用同一前缀
const TokenBlacklistPrefix = "token_blacklist:"

type UserService interface {
	Register(ctx context.Context, username, password, email string) (*model.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	GetProfile(ctx context.Context, username string) (*model.User, error)
	// Logout 把 token 写入 Redis 黑名单，过期时间与 token 剩余有效期一致
	Logout(ctx context.Context, tokenString string) error
}

type userService struct {
	userRepo   repository.UserRepository
	jwtManager *token.JWTManager
	rdb        *redis.Client
}

func NewUserService(userRepo repository.UserRepository, jwtManager *token.JWTManager, rdb *redis.Client) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		rdb:        rdb,
	}
}

func (s *userService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	// 1. 检查用户是否存在
	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// 查无记录是正常分支，继续注册
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	// 2. 密码进行哈希
	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. 用户存入数据库生成id
	newUser := &model.User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Password: hashedPassword,
		Role:     model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error) {
	if s.jwtManager == nil {
		return "", "", ErrInternal
	}
	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredentials
		}
		log.Errorf("Login: failed to query user %q: %v", username, err)
		return "", "", ErrInternal
	}
	if existingUser == nil {
		return "", "", ErrInvalidCredentials
	}

	// 密码错误与"用户不存在"返回相同的错误，防止用户枚举
	if !hash.CheckPasswordHash(password, existingUser.Password) {
		return "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err = s.jwtManager.GenerateToken(existingUser.ID, existingUser.Username, existingUser.Role)
	if err != nil {
		log.Errorf("Login: failed to generate token for user %q: %v", existingUser.Username, err)
		return "", "", ErrInternal
	}
	return accessToken, refreshToken, nil
}

func (s *userService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Errorf("GetProfile: failed to query user %q: %v", username, err)
		return nil, ErrInternal
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) Logout(ctx context.Context, tokenString string) error {
	if s.jwtManager == nil || s.rdb == nil {
		return ErrInternal
	}
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil || claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidCredentials
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		// 已过期的 token 本身就不可用，无需写黑名单
		return nil
	}
	if err := s.rdb.Set(ctx, TokenBlacklistPrefix+tokenString, claims.Username, ttl).Err(); err != nil {
		log.Errorf("Logout: failed to blacklist token for user %q: %v", claims.Username, err)
		return ErrInternal
	}
	return nil
}
