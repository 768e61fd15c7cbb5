package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTracingFlushesWhenStartupFails(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var flushed int
	var deadline bool
	setup := func(context.Context) (func(context.Context) error, error) {
		return func(ctx context.Context) error {
			flushed++
			_, deadline = ctx.Deadline()
			return nil
		}, nil
	}
	buildErr := errors.New("open postgres: connection refused")

	err := withTracing(context.Background(), setup, time.Second, log, func() error { return buildErr })
	require.ErrorIs(t, err, buildErr)
	assert.Equal(t, 1, flushed)
	assert.True(t, deadline, "flush runs under a bounded context")
}

func TestWithTracingSetupFailureSkipsRun(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	setupErr := errors.New("bad otlp endpoint")
	ran := false
	err := withTracing(context.Background(), func(context.Context) (func(context.Context) error, error) {
		return nil, setupErr
	}, time.Second, log, func() error { ran = true; return nil })
	require.ErrorIs(t, err, setupErr)
	assert.False(t, ran)
}
