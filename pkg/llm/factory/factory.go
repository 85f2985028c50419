package factory

import (
	"fmt"
	"time"

	"ipecd-chatbot-be/pkg/llm"
	"ipecd-chatbot-be/pkg/llm/groq"
	"ipecd-chatbot-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "groq":
		return groq.NewGroqProvider(apiKey, modelName, timeout), nil
	case "openai":
		return openai.NewOpenAIProvider(apiKey, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
