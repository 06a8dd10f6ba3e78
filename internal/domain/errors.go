package domain

import "errors"

// 错误类别，调用方通过 errors.Is 判断
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage error")
)

// Error 是带有类别的业务错误，Error() 只返回面向客户端的消息
type Error struct {
	kind error
	msg  string
}

func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

var (
	ErrWorkerNameRequired = NewError(ErrInvalidInput, "Worker name is required.")
	ErrInvalidShiftStart  = NewError(ErrInvalidInput, "Invalid shift start time.")
	ErrInvalidShiftDate   = NewError(ErrInvalidInput, "Invalid shift date.")
	ErrInvalidID          = NewError(ErrInvalidInput, "Invalid id.")

	ErrWorkerNotFound = NewError(ErrNotFound, "Worker not found.")
	ErrShiftNotFound  = NewError(ErrNotFound, "Shift not found.")

	ErrWorkerNameTaken = NewError(ErrConflict, "Worker name already exists.")
	ErrShiftDateTaken  = NewError(ErrConflict, "Worker already has a shift on this date.")

	ErrUpdatedShiftDateTaken = NewError(ErrConflict, "Worker already has a shift on the updated date.")
)

// StorageError 包装未归类的存储层错误。
// 它不实现 Unwrap，因此被包装的错误不会再被识别为其他类别。
type StorageError struct {
	Err error
}

func NewStorageError(err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Err: err}
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
