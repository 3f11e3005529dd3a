package util

import (
	"os"
	"testing"
	"time"

	"github.com/MIKU-7437/astrawood/config"
	"github.com/MIKU-7437/astrawood/internal/errors"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	config.AppConfig = config.Config{
		JWTSecret:            "test-secret",
		VerificationTokenTTL: 1,
		AccessTokenTTL:       24,
	}
	InitLogger("error")
	os.Exit(m.Run())
}

// TestTokenRoundTrip 签发的令牌必须能通过校验并还原用户ID
func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateVerificationToken(42)
	assert.NoError(t, err)

	userID, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, 42, userID)

	token, err = GenerateAccessToken(7)
	assert.NoError(t, err)

	userID, err = ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, 7, userID)
}

// TestValidateTokenExpired 过期令牌返回过期错误
func TestValidateTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.AppConfig.JWTSecret))
	assert.NoError(t, err)

	_, err = ValidateToken(tokenString)
	assert.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrTokenExpired, appErr.Code)
	assert.Equal(t, "Activation Expired", appErr.Message)
}

// TestValidateTokenBadSignature 签名不匹配的令牌被拒绝
func TestValidateTokenBadSignature(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	assert.NoError(t, err)

	_, err = ValidateToken(tokenString)
	assert.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrInvalidToken, appErr.Code)
	assert.Equal(t, "Invalid token", appErr.Message)
}

// TestValidateTokenGarbage 空令牌和乱码一律无效
func TestValidateTokenGarbage(t *testing.T) {
	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ValidateToken(tokenString)
		assert.Error(t, err)

		appErr, ok := err.(*errors.AppError)
		assert.True(t, ok)
		assert.Equal(t, errors.ErrInvalidToken, appErr.Code)
		assert.Equal(t, "Invalid token", appErr.Message)
	}
}
