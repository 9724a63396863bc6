package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt"
	"github.com/nsxzhou1114/notification-api/internal/config"
)

var (
	// ErrInvalidToken token无效
	ErrInvalidToken = errors.New("无效的token")

	node     *snowflake.Node
	nodeOnce sync.Once
)

// Claims 自定义JWT声明
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// getNode 获取雪花ID生成节点，用于生成token唯一标识
func getNode() *snowflake.Node {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
	})
	return node
}

// GenerateToken 生成访问token
func GenerateToken(userID uint, role string) (string, error) {
	cfg := config.GetConfig().JWT
	now := time.Now()

	claims := Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Id:        getNode().Generate().String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(cfg.AccessExpireSeconds) * time.Second).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SecretKey))
}

// ParseToken 解析并校验token
func ParseToken(tokenString string) (*Claims, error) {
	cfg := config.GetConfig().JWT

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
