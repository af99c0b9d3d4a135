package engine

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliteSamurai/RehabFlow-sub000/pkg/redis"
)

func newTestRunLock(t *testing.T) (*RunLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	adapter := redis.NewRedisAdapterWithClient("test", goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return NewRunLock(adapter), mr
}

func TestRunLock(t *testing.T) {
	t.Run("acquire, contend, release, reacquire", func(t *testing.T) {
		lock, _ := newTestRunLock(t)

		release, err := lock.Acquire()
		require.NoError(t, err)

		_, err = lock.Acquire()
		assert.ErrorIs(t, err, ErrRunInProgress)

		release()

		release2, err := lock.Acquire()
		require.NoError(t, err)
		release2()
	})

	t.Run("lock expires on its own after the TTL", func(t *testing.T) {
		lock, mr := newTestRunLock(t)

		_, err := lock.Acquire()
		require.NoError(t, err)

		mr.FastForward(RunLockTTL + time.Second)

		release, err := lock.Acquire()
		require.NoError(t, err)
		release()
	})

	t.Run("release is safe on the contended path", func(t *testing.T) {
		lock, _ := newTestRunLock(t)

		_, err := lock.Acquire()
		require.NoError(t, err)

		release, err := lock.Acquire()
		assert.ErrorIs(t, err, ErrRunInProgress)
		require.NotNil(t, release)
		release()

		// The loser's release must not free the winner's lock.
		_, err = lock.Acquire()
		assert.ErrorIs(t, err, ErrRunInProgress)
	})
}
