package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"apex-business/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestObservability_RecordAndShutdown(t *testing.T) {
	obs := New("apex-test", 1.0, logger.NewTestLogger(t))

	ctx, span := obs.StartSpan(context.Background(), "gateway.IdeaValidation", attribute.String("model", "fast"))
	assert.True(t, span.SpanContext().IsValid())
	obs.RecordCall(ctx, "IdeaValidation", "success", 1200*time.Millisecond)
	EndSpan(span, errors.New("boom"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, obs.Shutdown(shutdownCtx))
}

func TestNoop_DoesNotPanic(t *testing.T) {
	obs := NewNoop()
	ctx, span := obs.StartSpan(context.Background(), "gateway.MentorReply")
	obs.RecordCall(ctx, "MentorReply", "failure", time.Second)
	EndSpan(span, nil)
	assert.NoError(t, obs.Shutdown(context.Background()))
}
