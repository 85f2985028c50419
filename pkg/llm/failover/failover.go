package failover

import (
	"context"
	"errors"
	"log"

	"ipecd-chatbot-be/pkg/llm"
)

// ErrAllProvidersFailed is returned when neither the primary nor the
// fallback provider produced a response.
var ErrAllProvidersFailed = errors.New("all llm providers failed")

// Outcome reports which provider answered. Callers that only need the text
// can ignore the Provider field.
type Outcome struct {
	Response string
	Provider string
}

// Chain tries a primary provider and switches to a fallback when the
// primary fails with a retryable status (5xx, auth, rate limit) or a
// transport error. The fallback is optional.
type Chain struct {
	primary  llm.LLMProvider
	fallback llm.LLMProvider
}

func NewChain(primary, fallback llm.LLMProvider) *Chain {
	return &Chain{
		primary:  primary,
		fallback: fallback,
	}
}

func (c *Chain) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (Outcome, error) {
	response, err := c.primary.Chat(ctx, history, opts...)
	if err == nil {
		return Outcome{Response: response, Provider: c.primary.Name()}, nil
	}

	log.Printf("[LLM] primary provider %s failed: %v", c.primary.Name(), err)

	if c.fallback == nil || !shouldFailover(err) {
		return Outcome{}, ErrAllProvidersFailed
	}

	log.Printf("[LLM] switching to fallback provider %s", c.fallback.Name())
	response, fallbackErr := c.fallback.Chat(ctx, history, opts...)
	if fallbackErr != nil {
		log.Printf("[LLM] fallback provider %s failed: %v", c.fallback.Name(), fallbackErr)
		return Outcome{}, ErrAllProvidersFailed
	}

	return Outcome{Response: response, Provider: c.fallback.Name()}, nil
}

func (c *Chain) Generate(ctx context.Context, prompt string, opts ...llm.Option) (Outcome, error) {
	return c.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// shouldFailover mirrors the provider switch policy: server faults, auth
// failures and rate limits move to the fallback, as do transport-level
// errors (connection refused, timeout). A clean 4xx like a malformed
// request would fail the same way on any backend, so it does not retry.
func shouldFailover(err error) bool {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	// No HTTP status at all means the request never completed.
	return true
}
