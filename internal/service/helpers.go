package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func isDuplicate(err error) bool { return errors.Is(err, gorm.ErrDuplicatedKey) }

func isForeignKey(err error) bool { return errors.Is(err, gorm.ErrForeignKeyViolated) }

// nilIfBlank 创建时空串按未填处理
func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// blankPtr 显式提供但为空白
func blankPtr(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
