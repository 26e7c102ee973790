package util

import (
	"fmt"
	"regexp"
	"strings"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateUserID 校验用户标识，user_id 会直接作为文件名/对象键使用
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUserID
	}
	if len(userID) > MaxUserIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidUserID, MaxUserIDLength)
	}
	if userID == "." || userID == ".." || !userIDPattern.MatchString(userID) {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return nil
}
