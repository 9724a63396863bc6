package service

import (
	"errors"
	"sync"

	"github.com/nsxzhou1114/notification-api/internal/database"
	"github.com/nsxzhou1114/notification-api/internal/dto"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/model"
	"github.com/nsxzhou1114/notification-api/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUserExists 用户名已存在
	ErrUserExists = errors.New("用户名已存在")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")

	userService     *UserService
	userServiceOnce sync.Once
)

// UserService 用户业务逻辑层
type UserService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// GetUserService 获取用户服务单例
func GetUserService() *UserService {
	userServiceOnce.Do(func() {
		userService = &UserService{
			db:     database.GetDB(),
			logger: logger.GetLogger(),
		}
	})
	return userService
}

// Register 注册用户
func (s *UserService) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username: req.Username,
		Password: string(hash),
		Email:    req.Email,
		Role:     model.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	s.logger.Info("用户注册成功",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return toUserResponse(&user), nil
}

// Login 登录并签发token
func (s *UserService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user model.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(&user),
	}, nil
}

// GetByID 按ID获取用户信息
func (s *UserService) GetByID(id uint) (*dto.UserResponse, error) {
	var user model.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toUserResponse(&user), nil
}

// CreateAdmin 创建管理员账号，供命令行工具使用
func (s *UserService) CreateAdmin(username, password string) (*dto.UserResponse, error) {
	user, err := s.Register(&dto.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.User{}).Where("id = ?", user.ID).Update("role", model.RoleAdmin).Error; err != nil {
		return nil, err
	}
	user.Role = model.RoleAdmin
	return user, nil
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
