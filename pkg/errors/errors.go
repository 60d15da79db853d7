package errors

import (
	"errors"
	"fmt"

	"todo/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"

	// 任务存储错误码
	CodeInvalidInput   ErrorCode = "INVALID_INPUT"
	CodeStorageCorrupt ErrorCode = "STORAGE_CORRUPT"
	CodePersistFailed  ErrorCode = "PERSIST_FAILED"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误转换为应用错误。
// 通过 errors.Is 匹配领域哨兵错误，未识别的错误一律视为内部错误。
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// 存储类错误优先：其 Cause 可能包含校验类哨兵（如快照中的空文本）
	switch {
	case errors.Is(err, shared.ErrStorageCorrupt):
		return Wrap(err, CodeStorageCorrupt, "task storage is corrupt; reset or repair the snapshot")
	case errors.Is(err, shared.ErrPersistFailed):
		return Wrap(err, CodePersistFailed, "failed to persist tasks; the change was not applied")
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeInvalidInput, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
