package app

import (
	"context"
	"errors"
	"testing"
	"time"

	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/swapcore/app/telemetry"
)

func recordSpans(t *testing.T, a *App) *tracetest.SpanRecorder {
	t.Helper()
	cfg := telemetry.DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter = telemetry.ExporterNone

	recorder := tracetest.NewSpanRecorder()
	p, err := telemetry.NewProvider(context.Background(), cfg, a.ChainID(), tracesdk.WithSpanProcessor(recorder))
	require.NoError(t, err)
	a.SetTelemetry(p)
	return recorder
}

func spanNames(spans []tracesdk.ReadOnlySpan) []string {
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	return names
}

func TestTransitionsAreTraced(t *testing.T) {
	a, setter := initTestApp(t)
	recorder := recordSpans(t, a)

	a.BeginBlock(genesisTime.Add(time.Second))
	var inner trace.SpanContext
	_, err := a.Execute(func(ctx sdk.Context) error {
		inner = trace.SpanContextFromContext(ctx.Context())
		return nil
	})
	require.NoError(t, err)
	deploy(t, a, setter, "AAA")
	a.Commit()

	ended := recorder.Ended()
	require.Equal(t, []string{"app.begin_block", "app.execute", "app.execute", "app.commit"}, spanNames(ended))
	require.True(t, inner.IsValid())
	require.Equal(t, ended[1].SpanContext().SpanID(), inner.SpanID())
	for _, s := range ended {
		require.NotEqual(t, codes.Error, s.Status().Code, s.Name())
	}
	require.NoError(t, a.Close())
}

func TestFailedTransitionMarksSpan(t *testing.T) {
	a, _ := initTestApp(t)
	recorder := recordSpans(t, a)

	failure := errors.New("rejected")
	_, err := a.Execute(func(sdk.Context) error { return failure })
	require.ErrorIs(t, err, failure)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "app.execute", ended[0].Name())
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Equal(t, "rejected", ended[0].Status().Description)
}

func TestExecuteBeforeInitMarksSpan(t *testing.T) {
	a := newTestApp(t, dbm.NewMemDB())
	recorder := recordSpans(t, a)

	_, err := a.Execute(func(sdk.Context) error { return nil })
	require.ErrorIs(t, err, ErrNotInitialized)
	require.Len(t, recorder.Ended(), 1)
	require.Equal(t, codes.Error, recorder.Ended()[0].Status().Code)
}
