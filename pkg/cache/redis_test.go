package cache

import (
	"testing"

	"go-supermarket-pos/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClientDisabled(t *testing.T) {
	c, err := NewRedisClient(config.RedisConfig{})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrCacheDisabled)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	// Port 1 is reserved and never serves Redis.
	c, err := NewRedisClient(config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Nil(t, c)
	assert.Error(t, err)
}
