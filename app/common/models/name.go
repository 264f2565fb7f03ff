package models

import (
	"errors"
	"regexp"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("name may only contain letters, digits, underscores and dashes")
)

// 用户名、团队名、仓库名共用的命名约束：必须可以安全地作为路径片段
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateName 校验路径安全名称，用户、团队、仓库共用这一个函数
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}
