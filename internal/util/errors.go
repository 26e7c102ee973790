package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrInvalidUserID = errors.New("invalid user_id")
	ErrMissingUserID = errors.New("missing user_id")
)

// 外部协作方名称
const (
	CollaboratorStorage   = "storage"
	CollaboratorSecrets   = "secrets"
	CollaboratorAI        = "text-generation"
	CollaboratorPubSub    = "pubsub"
	CollaboratorLockStore = "lock"
)

// CollaboratorError 外部依赖（存储、密钥、AI、消息发布）调用失败，不做重试
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failure: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// WrapCollaborator 包装外部调用错误，nil 原样返回
func WrapCollaborator(collaborator string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return err
	}
	return &CollaboratorError{Collaborator: collaborator, Err: err}
}

// IsValidationError 判断是否属于请求参数类错误
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUserID) || errors.Is(err, ErrMissingUserID) || errors.Is(err, ErrUserExists)
}
