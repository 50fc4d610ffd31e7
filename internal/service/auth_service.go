package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tmsftt/backend/config"
	"tmsftt/backend/internal/dto"
	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
	"tmsftt/backend/pkg/apperrors"
	"tmsftt/backend/pkg/jwt"
	"tmsftt/backend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = apperrors.Validation("职工号或密码错误")
	ErrInvalidRefresh     = apperrors.Validation("refresh token 无效")
)

// 账号角色，按权限组成员关系推导
const (
	RoleSchoolAdmin     = "school_admin"
	RoleDepartmentAdmin = "department_admin"
	RoleTeacher         = "teacher"
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 将 Token 加入黑名单直至其自然过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := s.deriveRole(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, role, req.RememberMe)
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("查询 Token 黑名单失败", zap.Error(err))
			return nil, err
		}
		if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// 角色按当前组成员关系重新推导，防止持旧 Token 保留已撤销的角色
	role, err := s.deriveRole(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, role, claims.RememberMe)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

// ── 内部辅助方法 ──

// deriveRole 按权限组成员关系推导账号角色：
// 学校根节点管理员组成员为校级管理员，其余管理员组成员为院系管理员
func (s *authService) deriveRole(ctx context.Context, user *model.User) (string, error) {
	groups, err := s.repo.Group.ListUserGroups(ctx, user.UserID)
	if err != nil {
		s.logger.Error("查询用户权限组失败", zap.String("user_id", user.UserID), zap.Error(err))
		return "", err
	}

	role := RoleTeacher
	for i := range groups {
		if groups[i].Role != model.GroupRoleAdmin {
			continue
		}
		dept, err := s.repo.Department.GetByID(ctx, groups[i].DepartmentID)
		if err != nil {
			return "", err
		}
		if dept.RawDepartmentID == s.cfg.Sync.SchoolRawID {
			return RoleSchoolAdmin, nil
		}
		role = RoleDepartmentAdmin
	}
	return role, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User, role string, rememberMe bool) (*dto.TokenResponse, error) {
	departmentID := ""
	if user.DepartmentID != nil {
		departmentID = *user.DepartmentID
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, role, departmentID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, role, departmentID, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	var dept *dto.DepartmentResponse
	if departmentID != "" {
		department, err := s.repo.Department.GetByID(ctx, departmentID)
		if err == nil {
			dept = &dto.DepartmentResponse{
				ID:    department.DepartmentID,
				RawID: department.RawDepartmentID,
				Name:  department.Name,
			}
		}
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:         user.UserID,
			Username:   user.Username,
			Name:       user.FirstName,
			Role:       role,
			Department: dept,
		},
	}, nil
}
