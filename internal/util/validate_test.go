package util

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		id   string
		want error
	}{
		{"alice", nil},
		{"user_01.test-2", nil},
		{strings.Repeat("a", MaxUserIDLength), nil},
		{"", ErrMissingUserID},
		{"   ", ErrMissingUserID},
		{strings.Repeat("a", MaxUserIDLength+1), ErrInvalidUserID},
		{".", ErrInvalidUserID},
		{"..", ErrInvalidUserID},
		{"../secret", ErrInvalidUserID},
		{"a/b", ErrInvalidUserID},
		{" alice", ErrInvalidUserID},
		{"名字", ErrInvalidUserID},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateUserID(tt.id)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestWrapCollaborator(t *testing.T) {
	assert.NoError(t, WrapCollaborator(CollaboratorStorage, nil))

	base := errors.New("timeout")
	err := WrapCollaborator(CollaboratorStorage, base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "storage failure: timeout", err.Error())

	// 已包装过的错误保留原协作方
	again := WrapCollaborator(CollaboratorAI, err)
	var ce *CollaboratorError
	assert.ErrorAs(t, again, &ce)
	assert.Equal(t, CollaboratorStorage, ce.Collaborator)
	assert.False(t, IsValidationError(again))
}
