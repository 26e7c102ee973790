package repository

import (
	"context"
	"os"
	"path/filepath"
	"study_tracker/internal/config"
	"study_tracker/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserDocument{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// 各实现共用的行为校验
func exerciseBackend(t *testing.T, b RecordBackend) {
	ctx := context.Background()

	require.NoError(t, b.Ping(ctx))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	ok, err := b.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = b.Read(ctx, "alice")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	require.NoError(t, b.Write(ctx, "alice", []byte(`{"v":1}`)))
	require.NoError(t, b.Write(ctx, "bob", []byte(`{"v":1}`)))
	require.NoError(t, b.Write(ctx, "alice", []byte(`{"v":2}`)))

	ok, err = b.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := b.Read(ctx, "alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(data))

	keys, err = b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, keys)
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestFileBackend_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))
	require.NoError(t, b.Write(context.Background(), "alice", []byte("{}")))

	keys, err := b.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, keys)
}

func TestFileBackend_RequiresPath(t *testing.T) {
	_, err := NewFileBackend("")
	assert.Error(t, err)
}

func TestDBBackend(t *testing.T) {
	exerciseBackend(t, NewDBBackend(newTestDB(t)))
}

func TestObjectKeys(t *testing.T) {
	assert.Equal(t, "users/alice.json", objectKey("users/", "alice"))

	key, ok := keyFromObject("users/", "users/alice.json")
	assert.True(t, ok)
	assert.Equal(t, "alice", key)

	_, ok = keyFromObject("users/", "users/archive/alice.json")
	assert.False(t, ok)
	_, ok = keyFromObject("users/", "users/alice.txt")
	assert.False(t, ok)
	_, ok = keyFromObject("users/", "other/alice.json")
	assert.False(t, ok)
}

func TestNewRecordBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "file"
	cfg.Storage.LocalPath = t.TempDir()

	b, err := NewRecordBackend(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	cfg.Storage.Type = "database"
	_, err = NewRecordBackend(cfg, nil)
	assert.Error(t, err)

	b, err = NewRecordBackend(cfg, newTestDB(t))
	require.NoError(t, err)
	assert.IsType(t, &DBBackend{}, b)

	cfg.Storage.Type = "tape"
	_, err = NewRecordBackend(cfg, nil)
	assert.Error(t, err)
}
