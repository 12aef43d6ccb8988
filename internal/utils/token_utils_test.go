package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ifm_report_app/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestIssueAndParseToken(t *testing.T) {
	token, err := utils.IssueToken("analyst-1", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := utils.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "analyst-1", claims.Subject)
	assert.Equal(t, utils.TokenIssuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueToken_RequiresSecretAndSubject(t *testing.T) {
	_, err := utils.IssueToken("analyst-1", "", time.Hour)
	assert.Error(t, err)

	_, err = utils.IssueToken("", testSecret, time.Hour)
	assert.Error(t, err)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := utils.IssueToken("analyst-1", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = utils.ParseToken(expired, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := utils.IssueToken("analyst-1", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = utils.ParseToken(valid, "another-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = utils.ParseToken(noSubject, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)

	_, err = utils.ParseToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}
