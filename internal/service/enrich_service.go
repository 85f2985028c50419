package service

import (
	"context"
	"fmt"
	"strings"

	"ipecd-chatbot-be/internal/constant"
	"ipecd-chatbot-be/internal/pkg/logger"
	"ipecd-chatbot-be/pkg/llm"
	"ipecd-chatbot-be/pkg/llm/failover"
)

// EnrichService rewrites raw data tables into short contextualized
// answers. Any failure hands the original data back untouched, so
// enrichment can never lose information.
type EnrichService struct {
	chain *failover.Chain
	log   logger.ILogger
}

func NewEnrichService(chain *failover.Chain, log logger.ILogger) *EnrichService {
	return &EnrichService{chain: chain, log: log}
}

func (s *EnrichService) Enrich(ctx context.Context, dataResponse, userQuestion string) string {
	if s.chain == nil {
		return dataResponse
	}
	if len(dataResponse) < 50 || strings.Contains(dataResponse, "Error") || strings.Contains(dataResponse, "Lo siento") {
		return dataResponse
	}

	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.EnrichmentSystemMessage},
		{Role: constant.ChatMessageRoleUser, Content: fmt.Sprintf(constant.EnrichmentPrompt, dataResponse, userQuestion)},
	}

	outcome, err := s.chain.Chat(ctx, messages)
	if err != nil || outcome.Response == "" {
		if err != nil {
			s.log.Warn("ENRICH", "enrichment failed, returning raw data", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return dataResponse
	}
	return outcome.Response
}
