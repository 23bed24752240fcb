package logging_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("WithPublisher adds publisher field", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithPublisher(ctx, "etsi")

		logging.FromContext(ctx).Info().Msg("fetching")
		tl.AssertContains(t, `"publisher":"etsi"`)
	})

	t.Run("WithOperation adds operation field", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithOperation(ctx, "reconcile")

		logging.Ctx(ctx).Info().Msg("step")
		tl.AssertContains(t, `"operation":"reconcile"`)
	})

	t.Run("WithRunID stores and logs run id", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithRunID(ctx, "run-123")

		assert.Equal(t, "run-123", logging.RunID(ctx))
		logging.FromContext(ctx).Info().Msg("sync")
		tl.AssertContains(t, `"run_id":"run-123"`)
	})

	t.Run("RunID empty when unset", func(t *testing.T) {
		assert.Empty(t, logging.RunID(context.Background()))
	})

	t.Run("WithFields adds custom fields", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithFields(ctx, map[string]any{
			"key":   "iso8601-1",
			"items": 3,
		})

		logging.FromContext(ctx).Info().Msg("entry")
		tl.AssertContains(t, `"key":"iso8601-1"`)
		tl.AssertContains(t, `"items":3`)
	})

	t.Run("WithError is a no-op for nil", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, logging.WithError(ctx, nil))
	})

	t.Run("FromContext falls back to default", func(t *testing.T) {
		assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("WithLogger nil stores default", func(t *testing.T) {
		ctx := logging.WithLogger(context.Background(), nil)
		assert.Equal(t, logging.Default(), logging.FromContext(ctx))
	})

	t.Run("chaining context functions", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithPublisher(ctx, "scte")
		ctx = logging.WithOperation(ctx, "fetch")

		logging.FromContext(ctx).Warn().Msg("retrying")
		lines := tl.Lines()
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], `"publisher":"scte"`)
		assert.Contains(t, lines[0], `"operation":"fetch"`)
		assert.Contains(t, lines[0], `"level":"warn"`)
	})
}

func TestNewNopLogger(t *testing.T) {
	logger := logging.NewNopLogger()
	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
