package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/liftco/backend/internal/model"
	"github.com/liftco/backend/internal/service"
)

type tokenIssuer interface {
	Issue(ctx context.Context, caller *model.AuthUser, sessionID string) (*model.AttendanceTokenResponse, error)
}

type attendanceVerifier interface {
	Verify(ctx context.Context, in service.VerifyInput) (*model.Attendance, string, error)
}

type scannerAuthenticator interface {
	Authenticate(ctx context.Context, gymID int64, scannerID, key string) (*model.Scanner, error)
}

type AttendanceHandler struct {
	tokens   tokenIssuer
	verifier attendanceVerifier
	scanners scannerAuthenticator
}

func NewAttendanceHandler(tokens tokenIssuer, verifier attendanceVerifier, scanners scannerAuthenticator) *AttendanceHandler {
	return &AttendanceHandler{tokens: tokens, verifier: verifier, scanners: scanners}
}

// IssueToken godoc
// @Summary Issue attendance token
// @Description Returns the proximity token for the caller's current 30-second window.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.AttendanceTokenRequest true "Session"
// @Success 200 {object} model.AttendanceTokenResponse
// @Failure 400 {object} model.WindowClosedResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 504 {object} model.ErrorResponse
// @Router /api/v1/attendance/token [post]
func (h *AttendanceHandler) IssueToken(c *gin.Context) {
	var req model.AttendanceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.tokens.Issue(c.Request.Context(), GetAuthUser(c), req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Verify godoc
// @Summary Verify scanned token
// @Description Authenticates the scanner, checks the token and records attendance.
// @Tags attendance
// @Accept json
// @Produce json
// @Param X-Scanner-Key header string true "Scanner key"
// @Param request body model.AttendanceVerifyRequest true "Scan"
// @Success 200 {object} model.AttendanceVerifyResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Failure 504 {object} model.ErrorResponse
// @Router /api/v1/attendance/verify [post]
func (h *AttendanceHandler) Verify(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(ScannerKeyHeader))
	if key == "" {
		writeError(c, service.ErrUnauthorized)
		return
	}

	var req model.AttendanceVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	att, sessionID, err := h.verifier.Verify(c.Request.Context(), service.VerifyInput{
		ScannerKey: key,
		ScannerID:  strings.TrimSpace(req.ScannerID),
		UserID:     req.UserID,
		GymID:      req.GymID,
		TokenU32:   uint32(*req.TokenU32),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.AttendanceVerifyResponse{
		OK:         true,
		Attendance: att,
		SessionID:  sessionID,
	})
}

// ValidateScanner godoc
// @Summary Validate scanner credentials
// @Tags attendance
// @Accept json
// @Produce json
// @Param X-Scanner-Key header string true "Scanner key"
// @Param request body model.ScannerValidateRequest true "Scanner"
// @Success 200 {object} model.ScannerValidateResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /api/v1/attendance/scanner/validate [post]
func (h *AttendanceHandler) ValidateScanner(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(ScannerKeyHeader))
	if key == "" {
		writeError(c, service.ErrUnauthorized)
		return
	}

	var req model.ScannerValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	scanner, err := h.scanners.Authenticate(c.Request.Context(), req.GymID, req.ScannerID, key)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ScannerValidateResponse{OK: true, KeyHint: scanner.KeyHint})
}
