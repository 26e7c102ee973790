package database

import (
	"path/filepath"
	"strconv"
	"study_tracker/internal/config"
	applog "study_tracker/pkg/logger"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs 把全局 logger 换成可断言的内存 logger
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	prev := applog.Log
	applog.Log = zap.New(core)
	t.Cleanup(func() { applog.Log = prev })
	return logs
}

func TestInitDB_SQLiteMigrates(t *testing.T) {
	logs := observeLogs(t)

	db, err := InitDB(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "tracker.db"),
	}, "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	assert.True(t, db.Migrator().HasTable("user_documents"))
	assert.Equal(t, 1, logs.FilterMessage("Database connection established").Len())
	assert.Equal(t, 1, logs.FilterMessage("Database migration completed").Len())
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "oracle"}, "test")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestInitRedis(t *testing.T) {
	logs := observeLogs(t)
	mr := miniredis.RunT(t)

	rdb, err := InitRedis(&config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr.Port())})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	entries := logs.FilterMessage("Redis connection established").All()
	require.Len(t, entries, 1)
	assert.Equal(t, mr.Addr(), entries[0].ContextMap()["addr"])
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port := mustPort(t, mr.Port())
	mr.Close()

	_, err := InitRedis(&config.RedisConfig{Host: "127.0.0.1", Port: port})
	assert.Error(t, err)
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return p
}
