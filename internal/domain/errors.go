package domain

import "errors"

var (
	// ErrNotFound 记录不存在，或不属于当前用户
	ErrNotFound = errors.New("record not found")
	// ErrConflict 唯一约束冲突
	ErrConflict = errors.New("record conflict")
)
