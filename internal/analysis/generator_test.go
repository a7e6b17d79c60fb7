package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saywise/saywise-ai-platform/internal/modelruntime"
	"github.com/saywise/saywise-ai-platform/internal/schema"
)

// sequenceRuntime replays scripted responses in order; the last entry repeats.
type sequenceRuntime struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (r *sequenceRuntime) Decode(_ context.Context, prompt string, _ *schema.Schema, _ modelruntime.DecodeOptions) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.prompts = append(r.prompts, prompt)
	if r.err != nil {
		return "", r.err
	}
	idx := r.calls - 1
	if idx >= len(r.responses) {
		idx = len(r.responses) - 1
	}
	return r.responses[idx], nil
}

func (r *sequenceRuntime) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func singleLane(t *testing.T, rt modelruntime.Runtime) *modelruntime.Lane {
	t.Helper()
	pool := modelruntime.NewPool(rt, 1, 512)
	lanes, release, err := pool.Acquire(context.Background(), 1)
	require.NoError(t, err)
	t.Cleanup(release)
	return lanes[0]
}

const validIntentJSON = `{"primary":"Request a status update","secondary":"Apply schedule pressure","implicit":"The deadline is at risk"}`

func runIntent(t *testing.T, rt *sequenceRuntime) (IntentResult, error) {
	t.Helper()
	lane := singleLane(t, rt)
	return generateWithRetry[IntentResult](context.Background(), lane, "sess-1", KindIntent,
		"Where is the report?", "", intentSchema(), modelruntime.DecodeOptions{Temperature: 0.2},
		DefaultPrompts(), nil, nil)
}

func TestGenerateFirstAttemptSucceeds(t *testing.T) {
	rt := &sequenceRuntime{responses: []string{validIntentJSON}}

	out, err := runIntent(t, rt)
	require.NoError(t, err)
	assert.Equal(t, "Request a status update", out.Primary)
	assert.Equal(t, 1, rt.callCount())
}

func TestGenerateAcceptsFencedOutput(t *testing.T) {
	rt := &sequenceRuntime{responses: []string{
		"Here is the analysis:\n```json\n" + validIntentJSON + "\n```",
	}}

	out, err := runIntent(t, rt)
	require.NoError(t, err)
	assert.Equal(t, "The deadline is at risk", out.Implicit)
	assert.Equal(t, 1, rt.callCount(), "permissive parse must not burn the retry")
}

func TestGenerateRetriesOnceThenSucceeds(t *testing.T) {
	rt := &sequenceRuntime{responses: []string{"not json at all", validIntentJSON}}

	out, err := runIntent(t, rt)
	require.NoError(t, err)
	assert.Equal(t, "Apply schedule pressure", out.Secondary)
	assert.Equal(t, 2, rt.callCount())

	require.Len(t, rt.prompts, 2)
	assert.Contains(t, rt.prompts[1], rt.prompts[0], "retry prompt must embed the original prompt")
	assert.Contains(t, rt.prompts[1], "previous attempt was rejected")
}

func TestGenerateExhaustsAfterTwoAttempts(t *testing.T) {
	rt := &sequenceRuntime{responses: []string{"garbage"}}

	_, err := runIntent(t, rt)
	require.Error(t, err)
	assert.Equal(t, 2, rt.callCount(), "exactly one corrective retry, never more")

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)

	var genErr *GenerationError
	require.ErrorAs(t, exhausted.Last, &genErr)
	assert.Equal(t, FailureParse, genErr.Kind)
}

func TestGenerateValidationFailureIsRetried(t *testing.T) {
	rt := &sequenceRuntime{responses: []string{
		`{"primary":"","secondary":"Apply pressure","implicit":"Deadline risk"}`,
		validIntentJSON,
	}}

	_, err := runIntent(t, rt)
	require.NoError(t, err)
	assert.Equal(t, 2, rt.callCount())
	assert.Contains(t, rt.prompts[1], "non-empty value", "empty-string failure selects the emptiness correction")
}

func TestGenerateTruncationFailureIsRetried(t *testing.T) {
	rt := &sequenceRuntime{responses: []string{
		`{"primary":"Request a status update","secondary":"Apply pressure","implicit":"The plan is making{"}`,
		validIntentJSON,
	}}

	_, err := runIntent(t, rt)
	require.NoError(t, err)
	assert.Equal(t, 2, rt.callCount())
	assert.Contains(t, rt.prompts[1], "cut off before completion")
}

func TestGenerateRuntimeErrorNotRetried(t *testing.T) {
	transport := fmt.Errorf("bedrock: converse request failed: %w", errors.New("throttled"))
	rt := &sequenceRuntime{err: transport}

	_, err := runIntent(t, rt)
	require.Error(t, err)
	assert.Equal(t, 1, rt.callCount(), "transport failures pass through without a corrective retry")
	assert.ErrorIs(t, err, transport)

	var exhausted *ExhaustedError
	assert.False(t, errors.As(err, &exhausted))
}
