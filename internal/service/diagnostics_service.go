// FILE: internal/service/diagnostics_service.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"petmatch/internal/dto"
	"petmatch/internal/pkg/logger"
	"petmatch/internal/repository/contract"
	"petmatch/pkg/llm"
	"petmatch/pkg/match"
	"petmatch/pkg/supabase"
)

type IDiagnosticsService interface {
	ListModels(ctx context.Context, board *match.Board) *dto.ModelsResponse
	TestConnectivity(ctx context.Context, board *match.Board) *dto.ConnectivityResponse
}

type diagnosticsService struct {
	lister      llm.ModelLister
	diagnostics contract.DiagnosticsRepository
	logger      logger.ILogger
}

// NewDiagnosticsService takes a nil lister when no credential is configured.
func NewDiagnosticsService(lister llm.ModelLister, diagnostics contract.DiagnosticsRepository, log logger.ILogger) IDiagnosticsService {
	return &diagnosticsService{
		lister:      lister,
		diagnostics: diagnostics,
		logger:      log,
	}
}

func (s *diagnosticsService) ListModels(ctx context.Context, board *match.Board) *dto.ModelsResponse {
	if s.lister == nil {
		board.SetError(match.MsgMissingAPIKey)
		return &dto.ModelsResponse{Error: match.MsgMissingAPIKey}
	}

	models, err := s.lister.ListModels(ctx)
	if err != nil {
		s.logger.Error("DiagnosticsService", "Model listing failed", map[string]interface{}{
			"error": err.Error(),
		})
		msg := match.PrefixModelsError + err.Error()
		board.SetError(msg)
		return &dto.ModelsResponse{Error: msg}
	}

	text := FormatModels(models)
	s.logger.Info("DiagnosticsService", "Models listed", map[string]interface{}{
		"count": len(models),
	})
	board.SetModels(text)
	return &dto.ModelsResponse{Text: text}
}

// FormatModels renders one "name (method, method)" line per model.
func FormatModels(models []llm.ModelInfo) string {
	if len(models) == 0 {
		return match.MsgNoModels
	}

	lines := make([]string, 0, len(models))
	for _, m := range models {
		methods := strings.Join(m.SupportedGenerationMethods, ", ")
		if methods == "" {
			methods = match.MsgNoMethods
		}
		lines = append(lines, fmt.Sprintf("%s (%s)", m.Name, methods))
	}
	return strings.Join(lines, "\n")
}

func (s *diagnosticsService) TestConnectivity(ctx context.Context, board *match.Board) *dto.ConnectivityResponse {
	ticket := board.BeginPing()

	res := s.ping(ctx)
	board.SettlePing(ticket, res.Status)
	return res
}

func (s *diagnosticsService) ping(ctx context.Context) *dto.ConnectivityResponse {
	data, err := s.diagnostics.ListTables(ctx)
	if err != nil {
		s.logger.Warn("DiagnosticsService", "Data store ping failed", map[string]interface{}{
			"error": err.Error(),
		})

		var sbErr *supabase.Error
		if errors.As(err, &sbErr) {
			return &dto.ConnectivityResponse{Status: match.PrefixStoreError + sbErr.Message}
		}
		msg := err.Error()
		if msg == "" {
			msg = match.MsgStoreUnknown
		}
		return &dto.ConnectivityResponse{Status: match.PrefixStoreError + msg}
	}

	return &dto.ConnectivityResponse{OK: true, Status: match.PrefixStoreOK + indentJSON(data)}
}

func indentJSON(data json.RawMessage) string {
	if len(data) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
