package model

import (
	"fmt"

	"github.com/ferdian3456/staffroster/internal/constant"
)

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UnauthorizedError is returned when the caller lacks the privilege an
// operation requires. Nothing is mutated when it is returned.
type UnauthorizedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewNoAccessError() *UnauthorizedError {
	return &UnauthorizedError{
		Code:    constant.ERR_UNATHORIZED_ERROR,
		Message: constant.ERR_NO_ACCESS_MESSAGE,
	}
}

func NewAdministratorOnlyError() *UnauthorizedError {
	return &UnauthorizedError{
		Code:    constant.ERR_UNATHORIZED_ERROR,
		Message: constant.ERR_ADMINISTRATOR_ONLY_MESSAGE,
	}
}

// StoreError wraps a persistent store failure. Code is either
// constant.ERR_IO_FAILURE or constant.ERR_MALFORMED_DOCUMENT.
type StoreError struct {
	Code string
	Op   string
	Key  string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Code, e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Malformed() bool {
	return e.Code == constant.ERR_MALFORMED_DOCUMENT
}
