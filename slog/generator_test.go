package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/docsum/mock"
	docslog "github.com/fwojciec/docsum/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("logs sizes backend and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TextGenerator{
			GenerateFn: func(ctx context.Context, prompt string) (string, error) {
				return "summary", nil
			},
		}

		gen := docslog.NewLoggingGenerator(inner, "ollama", logger)
		text, err := gen.Generate(context.Background(), "0123456789")

		require.NoError(t, err)
		assert.Equal(t, "summary", text)
		output := buf.String()
		assert.Contains(t, output, "msg=generate")
		assert.Contains(t, output, "backend=ollama")
		assert.Contains(t, output, "prompt_bytes=10")
		assert.Contains(t, output, "response_bytes=7")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TextGenerator{
			GenerateFn: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("model not loaded")
			},
		}

		gen := docslog.NewLoggingGenerator(inner, "ollama", logger)
		_, err := gen.Generate(context.Background(), "prompt")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"model not loaded\"")
	})
}

func TestLoggingGenerator_Ping(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	called := false
	inner := &mock.TextGenerator{
		PingFn: func(ctx context.Context) error {
			called = true
			return nil
		},
	}

	err := docslog.NewLoggingGenerator(inner, "gemini", logger).Ping(context.Background())

	require.NoError(t, err)
	assert.True(t, called)
	assert.Contains(t, buf.String(), "msg=ping")
	assert.Contains(t, buf.String(), "backend=gemini")
}
