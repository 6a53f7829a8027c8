package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginChecker(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	checker := NewLoginChecker(time.Hour, rdb)
	require.NotNil(t, checker)

	userID := uuid.New()
	now := time.Now()
	token := "valid_token"
	sessionKey := sessionKeyPrefix + token

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%s::%d", userID, now.Unix()))
	gotID, err := checker.SessionUserID(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%s::%d", userID, now.Unix()))
	logged, err := checker.IsLogged(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, logged)

	// unknown token
	mock.ExpectGet(sessionKey).RedisNil()
	logged, err = checker.IsLogged(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, logged)

	// expired session
	expired := now.Add(-2 * time.Hour)
	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%s::%d", userID, expired.Unix()))
	_, err = checker.SessionUserID(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
