package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"study_tracker/internal/util"
)

// FileBackend 每个用户一个 JSON 文件：{dir}/{user_id}.json
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("file storage requires local_path")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{Dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.Dir, key+util.RecordExt)
}

func (b *FileBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(b.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (b *FileBackend) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write 先写临时文件再 rename，读方不会看到半截文件
func (b *FileBackend) Write(ctx context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(b.Dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, b.path(key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (b *FileBackend) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), util.RecordExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), util.RecordExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *FileBackend) Ping(ctx context.Context) error {
	info, err := os.Stat(b.Dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", b.Dir)
	}
	return nil
}
