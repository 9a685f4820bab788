package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/valpere/mortgate/internal"
	"github.com/valpere/mortgate/internal/segment"
)

// translateRequest is the wire shape the MORT client sends.
type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// translateResponse mirrors the historical gateway contract: result is a
// sequence of translated strings (empty on failure), plus an error code and
// message.
type translateResponse struct {
	Result       []string `json:"result"`
	ErrorCode    string   `json:"errorCode"`
	ErrorMessage string   `json:"errorMessage"`
}

func (s *Server) handleTranslate(c *gin.Context) {
	requestID := uuid.NewString()
	start := time.Now()

	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, translateResponse{
			Result:       []string{},
			ErrorCode:    internal.CodeBadRequest,
			ErrorMessage: "invalid request body",
		})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, translateResponse{
			Result:       []string{},
			ErrorCode:    internal.CodeBadRequest,
			ErrorMessage: "no text to translate",
		})
		return
	}

	s.controlLogf("[%s] new request: %s -> %s, %d bytes", requestID, req.Source, req.Target, len(req.Text))
	s.auditRequest(c, requestID, text, req.Source, req.Target)

	res := s.router.Translate(c.Request.Context(), text, req.Source, req.Target, requestID)
	elapsed := time.Since(start)

	if !res.OK() {
		s.logf("[%s] request failed (%s): %s", requestID, res.ErrorCode, res.ErrorMessage)
		s.auditResult(c, requestID, res, elapsed)
		c.JSON(statusFor(res.ErrorCode), translateResponse{
			Result:       []string{},
			ErrorCode:    res.ErrorCode,
			ErrorMessage: res.ErrorMessage,
		})
		return
	}

	sep := s.router.Separator()
	finalText := segment.Normalize(segment.Encode(res.Segments, sep), sep)

	s.logf("[%s] OK. engine: %s (%s), time: %.2fs", requestID, res.EngineName, res.Model, elapsed.Seconds())
	s.controlLogf("[%s] final MORT text:\n%s", requestID, finalText)
	s.auditResult(c, requestID, res, elapsed)

	c.JSON(http.StatusOK, translateResponse{
		Result:       []string{finalText},
		ErrorCode:    internal.CodeOK,
		ErrorMessage: "",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	h := s.router.Health()
	status := http.StatusOK
	if h.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, h)
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"config":              s.router.ConfigSnapshot(),
		"control_log_enabled": s.controlLog,
	})
}

// statusFor maps a wire error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case internal.CodeBadRequest:
		return http.StatusBadRequest
	case internal.CodeUnavailable:
		return http.StatusServiceUnavailable
	case internal.CodeEngineFatal, internal.CodeFormatMismatch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// auditRequest records the incoming request in the store. Audit failures are
// logged and ignored; persistence must never affect translation.
func (s *Server) auditRequest(c *gin.Context, requestID, text, source, target string) {
	if s.store == nil {
		return
	}
	err := s.store.SaveRequest(c.Request.Context(), internal.TranslationRequest{
		ID:         requestID,
		SourceText: text,
		SourceLang: source,
		TargetLang: target,
		Timestamp:  time.Now(),
	})
	if err != nil {
		s.logf("[%s] audit save failed: %v", requestID, err)
	}
}

func (s *Server) auditResult(c *gin.Context, requestID string, res *internal.TranslationResult, elapsed time.Duration) {
	if s.store == nil || res.FromCache {
		return
	}
	engineName := res.EngineName
	if engineName == "" {
		engineName = "none"
	}
	translated := segment.Encode(res.Segments, s.router.Separator())
	err := s.store.SaveResult(c.Request.Context(), requestID, engineName, translated,
		int(elapsed.Milliseconds()), res.ErrorMessage)
	if err != nil {
		s.logf("[%s] audit save failed: %v", requestID, err)
	}
}
