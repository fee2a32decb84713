package middleware

import (
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissAsNil(t *testing.T) {
	// Absent key: the fiber.Storage contract wants (nil, nil), not
	// redis.Nil.
	val, err := missAsNil("", redis.Nil)
	require.NoError(t, err)
	assert.Nil(t, val)

	val, err = missAsNil("3", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)

	_, err = missAsNil("", errors.New("connection refused"))
	assert.Error(t, err)
}
