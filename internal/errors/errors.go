// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType 定义错误类型
type ErrorType string

const (
	// 通用错误类型
	ErrorTypeValidation ErrorType = "validation_error" // 表单/参数校验失败
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeUpstream   ErrorType = "upstream_http_error" // 上游返回非2xx
	ErrorTypeAPI        ErrorType = "api_error"           // 上游业务层面报错
	ErrorTypeError      ErrorType = "processing_error"
)

// AppError 应用程序错误结构
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Status  int // 上游HTTP错误携带的状态码，其余类型为0
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 实现错误链接
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 映射为对外响应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUpstream, ErrorTypeAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError 创建新的 AppError
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
	}
}

// NewValidationError 创建验证错误
func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

// NewProcessingError 创建处理错误
func NewProcessingError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeError, message, originalError)
}

// NewUpstreamHTTPError 创建上游HTTP错误，401/429附加用户可读的提示
func NewUpstreamHTTPError(status int) *AppError {
	message := fmt.Sprintf("上游服务返回异常状态 %d", status)
	switch status {
	case http.StatusUnauthorized:
		message = "接口密钥无效或已过期 (401)"
	case http.StatusTooManyRequests:
		message = "请求过于频繁，请稍后再试 (429)"
	}
	return &AppError{Type: ErrorTypeUpstream, Message: message, Status: status}
}

// NewAPIError 创建上游业务错误，原样保留后端消息
func NewAPIError(message string) *AppError {
	if message == "" {
		message = "上游服务处理失败"
	}
	return &AppError{Type: ErrorTypeAPI, Message: message}
}

// IsValidationError 检查是否为验证错误
func IsValidationError(err error) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == ErrorTypeValidation
	}
	return false
}

// IsNotFoundError 检查是否为未找到错误
func IsNotFoundError(err error) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == ErrorTypeNotFound
	}
	return false
}

// IsUpstreamHTTPError 检查是否为上游HTTP错误
func IsUpstreamHTTPError(err error) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == ErrorTypeUpstream
	}
	return false
}

// IsAPIError 检查是否为上游业务错误
func IsAPIError(err error) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == ErrorTypeAPI
	}
	return false
}
