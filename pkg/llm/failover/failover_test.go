package failover

import (
	"context"
	"errors"
	"testing"

	"ipecd-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name     string
	response string
	err      error
	calls    int
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.calls++
	return p.response, p.err
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (p *fakeProvider) Name() string { return p.name }

func TestChainPrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "groq", response: "hola"}
	fallback := &fakeProvider{name: "openai", response: "backup"}
	chain := NewChain(primary, fallback)

	outcome, err := chain.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hola"}})
	require.NoError(t, err)
	assert.Equal(t, "hola", outcome.Response)
	assert.Equal(t, "groq", outcome.Provider)
	assert.Zero(t, fallback.calls)
}

func TestChainFailsOverOnRetryableStatus(t *testing.T) {
	codes := []int{500, 503, 401, 403, 429}
	for _, code := range codes {
		primary := &fakeProvider{name: "groq", err: &llm.StatusError{Provider: "groq", Code: code}}
		fallback := &fakeProvider{name: "openai", response: "backup"}
		chain := NewChain(primary, fallback)

		outcome, err := chain.Chat(context.Background(), nil)
		require.NoError(t, err, "status %d", code)
		assert.Equal(t, "backup", outcome.Response)
		assert.Equal(t, "openai", outcome.Provider)
	}
}

func TestChainFailsOverOnTransportError(t *testing.T) {
	primary := &fakeProvider{name: "groq", err: errors.New("connection refused")}
	fallback := &fakeProvider{name: "openai", response: "backup"}
	chain := NewChain(primary, fallback)

	outcome, err := chain.Chat(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", outcome.Provider)
}

func TestChainDoesNotRetryClientErrors(t *testing.T) {
	primary := &fakeProvider{name: "groq", err: &llm.StatusError{Provider: "groq", Code: 400}}
	fallback := &fakeProvider{name: "openai", response: "backup"}
	chain := NewChain(primary, fallback)

	_, err := chain.Chat(context.Background(), nil)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.Zero(t, fallback.calls)
}

func TestChainWithoutFallback(t *testing.T) {
	primary := &fakeProvider{name: "groq", err: &llm.StatusError{Provider: "groq", Code: 500}}
	chain := NewChain(primary, nil)

	_, err := chain.Chat(context.Background(), nil)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
}

func TestChainBothFail(t *testing.T) {
	primary := &fakeProvider{name: "groq", err: &llm.StatusError{Provider: "groq", Code: 500}}
	fallback := &fakeProvider{name: "openai", err: errors.New("timeout")}
	chain := NewChain(primary, fallback)

	_, err := chain.Chat(context.Background(), nil)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.Equal(t, 1, fallback.calls)
}

func TestChainGenerateWrapsPrompt(t *testing.T) {
	primary := &fakeProvider{name: "groq", response: "listo"}
	chain := NewChain(primary, nil)

	outcome, err := chain.Generate(context.Background(), "resumen")
	require.NoError(t, err)
	assert.Equal(t, "listo", outcome.Response)
}

func TestStatusErrorRetryable(t *testing.T) {
	assert.True(t, (&llm.StatusError{Code: 500}).Retryable())
	assert.True(t, (&llm.StatusError{Code: 429}).Retryable())
	assert.False(t, (&llm.StatusError{Code: 400}).Retryable())
	assert.False(t, (&llm.StatusError{Code: 404}).Retryable())
}
