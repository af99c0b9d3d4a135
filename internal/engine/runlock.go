package engine

import (
	"errors"
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/redis"
)

// ErrRunInProgress means another dispatch run holds the lock.
var ErrRunInProgress = errors.New("dispatch run already in progress")

const (
	runLockKey = "dispatch:run-lock"

	// RunLockTTL caps how long a crashed run can block the next one.
	RunLockTTL = 4 * time.Minute
)

// RunLock is a redis SetNX single-flight guard around the dispatch loop.
// Two overlapping cron ticks would otherwise both resolve the same due
// set before either wrote a log row, and the patient would get the
// message twice.
type RunLock struct {
	redis redis.RedisAdapter
	ttl   time.Duration
}

func NewRunLock(r redis.RedisAdapter) *RunLock {
	return &RunLock{redis: r, ttl: RunLockTTL}
}

// Acquire takes the lock or returns ErrRunInProgress. The returned
// release func is safe to defer even on the error path.
func (l *RunLock) Acquire() (func(), error) {
	ok, err := l.redis.SetNX(runLockKey, []byte("1"), l.ttl)
	if err != nil {
		return func() {}, err
	}
	if !ok {
		return func() {}, ErrRunInProgress
	}
	return func() {
		if err := l.redis.Del(runLockKey); err != nil {
			logger.Warn("failed to release run lock", "error", err)
		}
	}, nil
}
