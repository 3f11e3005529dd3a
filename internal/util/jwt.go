package util

import (
	"time"

	"github.com/MIKU-7437/astrawood/config"
	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/dgrijalva/jwt-go"
)

// GenerateAccessToken 为登录用户签发访问令牌
func GenerateAccessToken(userID int) (string, error) {
	return generateToken(userID, time.Duration(config.AppConfig.AccessTokenTTL)*time.Hour)
}

// GenerateVerificationToken 签发短期的邮箱验证令牌
func GenerateVerificationToken(userID int) (string, error) {
	return generateToken(userID, time.Duration(config.AppConfig.VerificationTokenTTL)*time.Hour)
}

func generateToken(userID int, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验令牌签名和有效期并返回其中的用户ID。
// 过期与无法解码分别返回 ErrTokenExpired 和 ErrInvalidToken，
// 以便上层区分“链接过期”和“令牌被篡改”两种情况。
func ValidateToken(tokenString string) (int, error) {
	if tokenString == "" {
		return 0, errors.New(errors.ErrInvalidToken, "Invalid token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(errors.ErrInvalidToken, "意外的签名方法")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return 0, errors.Wrap(errors.ErrTokenExpired, "Activation Expired", err)
		}
		return 0, errors.Wrap(errors.ErrInvalidToken, "Invalid token", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return 0, errors.New(errors.ErrInvalidToken, "Invalid token")
		}
		return int(userID), nil
	}

	return 0, errors.New(errors.ErrInvalidToken, "Invalid token")
}
