// Package secrets 在启动时取出外部服务凭据
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound 指定名称的密钥不存在
	ErrNotFound = errors.New("secret not found")
	// ErrKeyringUnavailable 系统 keyring 不可用
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Provider 按名称获取密钥
type Provider interface {
	Get(name string) (string, error)
}

// EnvProvider 从环境变量读取
type EnvProvider struct{}

func (EnvProvider) Get(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v, nil
}

// KeyringProvider 从系统 keyring 读取，service 为应用名，name 为账户名
type KeyringProvider struct {
	Service string
}

func (p KeyringProvider) Get(name string) (string, error) {
	v, err := keyring.Get(p.Service, name)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// Set 写入 keyring，供运维初始化凭据
func (p KeyringProvider) Set(name, value string) error {
	if value == "" {
		return errors.New("secret value cannot be empty")
	}
	if err := keyring.Set(p.Service, name, value); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

// CachedProvider 每个名称只向底层读取一次，成功结果在进程内复用
type CachedProvider struct {
	next   Provider
	mu     sync.Mutex
	values map[string]string
}

func NewCachedProvider(next Provider) *CachedProvider {
	return &CachedProvider{next: next, values: make(map[string]string)}
}

func (p *CachedProvider) Get(name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.values[name]; ok {
		return v, nil
	}
	v, err := p.next.Get(name)
	if err != nil {
		return "", err
	}
	p.values[name] = v
	return v, nil
}

// NewProvider 根据配置选择实现
func NewProvider(kind, service string) (Provider, error) {
	switch kind {
	case "", "env":
		return EnvProvider{}, nil
	case "keyring":
		return KeyringProvider{Service: service}, nil
	default:
		return nil, fmt.Errorf("unknown secrets provider %q", kind)
	}
}
