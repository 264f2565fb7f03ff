package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmptyKey(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestSignAndParse(t *testing.T) {
	j, err := New("test-secret")
	require.NoError(t, err)

	expires := time.Now().Add(time.Hour).Unix()
	token, err := j.SignToken(&User{ID: 42, IsAdmin: true, Expires: expires})
	require.NoError(t, err)

	user, err := j.ParseUser(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), user.ID)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, expires, user.Expires)
}

func TestParseInvalid(t *testing.T) {
	j, err := New("test-secret")
	require.NoError(t, err)

	_, err = j.ParseUser("")
	assert.Error(t, err)

	_, err = j.ParseUser("not.a.token")
	assert.Error(t, err)

	// 别的密钥签出来的令牌不认
	other, err := New("other-secret")
	require.NoError(t, err)
	token, err := other.SignToken(&User{ID: 1, Expires: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)
	_, err = j.ParseUser(token)
	assert.Error(t, err)

	// 过期令牌
	token, err = j.SignToken(&User{ID: 1, Expires: time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, err)
	_, err = j.ParseUser(token)
	assert.Error(t, err)
}

func TestParseMissingClaims(t *testing.T) {
	j, err := New("test-secret")
	require.NoError(t, err)

	// 同一把密钥签出来、但缺 id 声明的令牌：签名有效，解析也必须报错而不是崩溃
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"adm": true,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = j.ParseUser(signed)
	assert.Error(t, err)
}
