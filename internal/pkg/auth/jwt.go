package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken 生成一个新的 JWT Access Token
func GenerateToken(userID uint, username string, groupID uint, orgCode string, permissions []string, secretKey []byte) (string, error) {
	if len(secretKey) == 0 {
		return "", fmt.Errorf("JWT Secret 不能为空")
	}

	now := time.Now()
	claims := CustomClaims{
		UserID:      userID,
		Username:    username,
		GroupID:     groupID,
		OrgCode:     orgCode,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "qingshu-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken 解析并校验一个 Access Token，返回其中的 Claims。
func ParseToken(tokenString string, secretKey []byte) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名算法: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("无效的 Token")
	}
	return claims, nil
}
