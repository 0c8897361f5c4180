package middleware

import (
	"errors"
	"strings"

	"hrcore/internal/domain"
	"hrcore/internal/logger"
	"hrcore/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const classificationGuidance = "Retry in a moment or choose the parent role manually."

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// FromDomain maps the domain error taxonomy onto HTTP errors.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var dup *domain.DuplicateError
	switch {
	case errors.As(err, &dup):
		return NewAppError(fiber.StatusConflict, "Already exists", fiber.Map{
			"entity": dup.Entity,
			"name":   dup.Name,
			"scope":  dup.Scope,
		}, err)
	case errors.Is(err, domain.ErrValidation):
		return NewAppError(fiber.StatusBadRequest, "Validation failed", fiber.Map{"error": detail(err, domain.ErrValidation)}, err)
	case errors.Is(err, domain.ErrAuthorization):
		return NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, domain.ErrNotFound):
		return NewAppError(fiber.StatusNotFound, "Not found", fiber.Map{"error": detail(err, domain.ErrNotFound)}, err)
	case errors.Is(err, domain.ErrClassification):
		return NewAppError(fiber.StatusUnprocessableEntity, "Classification failed", fiber.Map{
			"error":    detail(err, domain.ErrClassification),
			"guidance": classificationGuidance,
		}, err)
	case errors.Is(err, domain.ErrConflict):
		return NewAppError(fiber.StatusConflict, "Conflict", fiber.Map{"error": detail(err, domain.ErrConflict)}, err)
	default:
		return NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	msg = strings.TrimPrefix(msg, ":")
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(log *zap.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger.OrNop(log).Named("http")}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered", zap.Any("panic", r), zap.Stack("stack"), requestID(c))
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logger.Error("request failed", zap.Error(err), requestID(c))
		}
		return response.Error(c, status, msg, data)
	}
}

func requestID(c fiber.Ctx) zap.Field {
	rid, _ := c.Locals(CtxRequestIDKey).(string)
	return zap.String("request_id", rid)
}

func normalizeError(err error) (int, string, interface{}) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode <= 0 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		status := appErr.StatusCode
		msg := appErr.Message
		if msg == "" {
			msg = defaultMessageForStatus(status)
		}

		if status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		return status, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 {
			status = fiber.StatusInternalServerError
		}

		if status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		msg := fiberErr.Message
		if msg == "" {
			msg = defaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	return normalizeError(FromDomain(err))
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return response.MessageBadRequest
	case fiber.StatusUnauthorized:
		return response.MessageUnauthorized
	case fiber.StatusForbidden:
		return response.MessageForbidden
	case fiber.StatusNotFound:
		return response.MessageNotFound
	case fiber.StatusConflict:
		return response.MessageConflict
	case fiber.StatusUnprocessableEntity:
		return response.MessageUnprocessableEntity
	default:
		if status >= 500 {
			return response.MessageInternalServerError
		}
		return response.MessageError
	}
}
