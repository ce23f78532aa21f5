package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/liftco/backend/internal/model"
	"github.com/liftco/backend/internal/service"
	"go.uber.org/zap"
)

type errorMapping struct {
	target error
	status int
	reason string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{service.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{service.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{service.ErrTokenMismatch, http.StatusBadRequest, "token_mismatch"},
	{service.ErrNoActiveWindow, http.StatusNotFound, "no_active_window"},
	{service.ErrNoEligibleSession, http.StatusNotFound, "no_eligible_session"},
	{service.ErrConflict, http.StatusConflict, "conflict"},
	{service.ErrSessionFull, http.StatusBadRequest, "session_full"},
	{service.ErrScheduleConflict, http.StatusBadRequest, "schedule_conflict"},
	{service.ErrNotJoinable, http.StatusBadRequest, "not_joinable"},
	{service.ErrTimeout, http.StatusGatewayTimeout, "timeout"},
}

// writeError - 서비스 에러를 HTTP 응답으로 변환
func writeError(c *gin.Context, err error) {
	var wc *service.WindowClosedError
	if errors.As(err, &wc) {
		c.JSON(http.StatusBadRequest, model.WindowClosedResponse{
			Error:    "window_closed",
			Details:  "attendance window is closed",
			OpensAt:  wc.OpensAt,
			ClosesAt: wc.ClosesAt,
			Now:      wc.Now,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			resp := model.ErrorResponse{Error: m.reason}
			// 내부 원인은 노출하지 않음
			if m.status < http.StatusInternalServerError {
				resp.Details = details(err, m.target)
			}
			c.JSON(m.status, resp)
			return
		}
	}

	loggerFrom(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "internal"})
}

// details strips the sentinel text so only the added context remains.
func details(err, target error) string {
	msg := err.Error()
	if msg == target.Error() {
		return ""
	}
	return strings.TrimPrefix(strings.TrimPrefix(msg, target.Error()), ": ")
}

// writeBindError reports request schema violations as invalid_input.
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error:   "invalid_input",
		Details: describeBindError(err),
	})
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "request body too large"
		}
		return "malformed request body"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describeFieldError(fe))
	}
	return strings.Join(parts, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "uuid":
		return field + " must be a uuid"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
