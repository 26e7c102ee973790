package service

import (
	"study_tracker/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *repository.UserRepository {
	t.Helper()
	backend, err := repository.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return repository.NewUserRepository(backend)
}

// movableClock 测试中可前进的时钟
type movableClock struct {
	now time.Time
}

func (c *movableClock) Now() time.Time {
	return c.now
}

func (c *movableClock) AddDays(n int) {
	c.now = c.now.AddDate(0, 0, n)
}

func newTestCalendar(start time.Time) (*Calendar, *movableClock) {
	clock := &movableClock{now: start}
	return NewCalendar(clock.Now, time.UTC), clock
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string {
	return &s
}
