package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anheyu-press/pkg/idgen"
)

func TestGenerateAndParseToken(t *testing.T) {
	require.NoError(t, idgen.InitSqidsEncoderWithSeed("auth-test"))
	secret := []byte("secret")

	token, err := GenerateToken(42, secret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	userID, err := claims.DBUserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "错误的密钥", token: token, secret: []byte("other")},
		{name: "空密钥", token: token, secret: nil},
		{name: "格式错误", token: "not-a-jwt", secret: secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestParseToken_Expired(t *testing.T) {
	require.NoError(t, idgen.InitSqidsEncoder())
	secret := []byte("secret")

	token, err := GenerateToken(1, secret, time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	_, err = ParseToken(token, secret)
	assert.Error(t, err)
}
