package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider returns canned replies in order, recording each request.
type scriptedProvider struct {
	replies  []string
	err      error
	requests []*Request
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	i := len(p.requests) - 1
	if i >= len(p.replies) {
		i = len(p.replies) - 1
	}
	return &Response{Content: p.replies[i]}, nil
}

func TestAnswer_NilProviderEchoes(t *testing.T) {
	c := NewClient(nil, "")
	out := c.Answer(context.Background(), "hi [[PERSON_1]]", "general")

	assert.Equal(t, "hi [[PERSON_1]]", out.Answer)
	assert.Equal(t, 0.0, out.Confidence)
	assert.Equal(t, ExplainUnavailable, out.Explanations)
	assert.True(t, out.FallbackUsed)
	assert.Equal(t, "fallback", c.ProviderName())
}

func TestAnswer_FirstAttemptSucceeds(t *testing.T) {
	p := &scriptedProvider{replies: []string{`{"answer": "reach out to [[EMAIL_1]]"}`}}
	c := NewClient(p, "test-model")

	out := c.Answer(context.Background(), "mail [[EMAIL_1]]", "personal")

	assert.Equal(t, "reach out to [[EMAIL_1]]", out.Answer)
	assert.Equal(t, 0.9, out.Confidence)
	assert.Equal(t, ExplainSuccess, out.Explanations)
	assert.False(t, out.FallbackUsed)
	assert.Equal(t, "scripted", c.ProviderName())

	require.Len(t, p.requests, 1)
	assert.Equal(t, "test-model", p.requests[0].Model)
	require.Len(t, p.requests[0].Messages, 2)
	assert.Equal(t, "system", p.requests[0].Messages[0].Role)
	assert.Equal(t, BuildSystemPrompt(), p.requests[0].Messages[0].Content)
}

func TestAnswer_RetrySucceeds(t *testing.T) {
	p := &scriptedProvider{replies: []string{
		"sorry, I removed the tokens",
		`{"answer": "ok, [[EMAIL_1]] it is"}`,
	}}
	c := NewClient(p, "test-model")

	out := c.Answer(context.Background(), "mail [[EMAIL_1]]", "general")

	assert.Equal(t, "ok, [[EMAIL_1]] it is", out.Answer)
	assert.Equal(t, 0.8, out.Confidence)
	assert.Equal(t, ExplainRetrySuccess, out.Explanations)
	assert.False(t, out.FallbackUsed)

	require.Len(t, p.requests, 2)
	assert.Equal(t, RetrySystemPrompt(), p.requests[1].Messages[0].Content)
}

func TestAnswer_PlaceholderDropTriggersRetry(t *testing.T) {
	// valid JSON, but the placeholder is gone
	p := &scriptedProvider{replies: []string{
		`{"answer": "I contacted them directly"}`,
		`{"answer": "ask [[PERSON_1]]"}`,
	}}
	c := NewClient(p, "m")

	out := c.Answer(context.Background(), "ask [[PERSON_1]]", "general")
	assert.Equal(t, ExplainRetrySuccess, out.Explanations)
	assert.Equal(t, "ask [[PERSON_1]]", out.Answer)
}

func TestAnswer_BothAttemptsFail(t *testing.T) {
	p := &scriptedProvider{replies: []string{"garbage one", "garbage two"}}
	c := NewClient(p, "m")

	out := c.Answer(context.Background(), "mail [[EMAIL_1]]", "general")

	assert.True(t, out.FallbackUsed)
	assert.Equal(t, ExplainFallback, out.Explanations)
	assert.Equal(t, 0.0, out.Confidence)
	assert.Equal(t, "garbage two", out.Answer)
	assert.Len(t, p.requests, 2)
}

func TestAnswer_ProviderErrorFallsBackToSanitized(t *testing.T) {
	p := &scriptedProvider{err: errors.New("connection refused")}
	c := NewClient(p, "m")

	out := c.Answer(context.Background(), "mail [[EMAIL_1]]", "general")

	assert.True(t, out.FallbackUsed)
	assert.Equal(t, ExplainFallback, out.Explanations)
	assert.Equal(t, "mail [[EMAIL_1]]", out.Answer)
	assert.Len(t, p.requests, 2)
}
