// FILE: internal/service/match_service.go
package service

import (
	"context"
	"errors"

	"petmatch/internal/dto"
	"petmatch/internal/pkg/logger"
	"petmatch/internal/repository/contract"
	"petmatch/pkg/llm"
	"petmatch/pkg/match"
	"petmatch/pkg/supabase"
)

type IMatchService interface {
	// Search runs one recommendation and records its outcome on board.
	Search(ctx context.Context, board *match.Board, query string) *dto.SearchResponse
}

type matchService struct {
	dogRepository contract.DogRepository
	generator     llm.LLMProvider
	logger        logger.ILogger
}

// NewMatchService takes a nil generator when no credential is configured;
// every search then fails with the configuration message.
func NewMatchService(dogRepository contract.DogRepository, generator llm.LLMProvider, log logger.ILogger) IMatchService {
	return &matchService{
		dogRepository: dogRepository,
		generator:     generator,
		logger:        log,
	}
}

func (s *matchService) Search(ctx context.Context, board *match.Board, query string) *dto.SearchResponse {
	res := &dto.SearchResponse{Query: query}

	if s.generator == nil {
		board.RejectSearch(query, match.MsgMissingAPIKey)
		res.Error = match.MsgMissingAPIKey
		return res
	}

	ticket := board.BeginSearch(query)
	defer board.Settle(ticket)

	dogs, err := s.dogRepository.FindAll(ctx)
	if err != nil {
		msg := storeMessage(err)
		s.logger.Error("MatchService", "Failed to load candidates", map[string]interface{}{
			"error": err.Error(),
			"dump":  match.DumpError(err),
		})
		res.Error, res.Alert = msg, msg
		res.Superseded = !board.Fail(ticket, msg, msg)
		return res
	}

	prompt, err := match.NewPromptBuilder(query, dogs).Build()
	if err != nil {
		return s.fail(board, ticket, res, err)
	}

	s.logger.Debug("MatchService", "Calling generation model", map[string]interface{}{
		"candidates": len(dogs),
	})

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return s.fail(board, ticket, res, err)
	}

	res.Result = reply
	if dog, ok := match.Recommended(reply, dogs); ok {
		res.Recommended = dog.Name()
	}
	res.Superseded = !board.Succeed(ticket, reply)
	return res
}

func (s *matchService) fail(board *match.Board, ticket match.Ticket, res *dto.SearchResponse, err error) *dto.SearchResponse {
	failure := match.DescribeGenerationFailure(err)
	s.logger.Error("MatchService", "Generation failed", map[string]interface{}{
		"error":        err.Error(),
		"rate_limited": match.IsRateLimited(err),
		"dump":         match.DumpError(err),
	})

	res.Error = failure.Detailed
	res.Alert = failure.Short
	res.Superseded = !board.Fail(ticket, failure.Detailed, failure.Short)
	return res
}

// storeMessage is the data store's own message, or a fallback when it has none.
func storeMessage(err error) string {
	var sbErr *supabase.Error
	if errors.As(err, &sbErr) && sbErr.Message != "" {
		return sbErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return match.MsgUnknownStoreError
}
