package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/PabloGalante/shop-assistant/internal/domain"
	"github.com/PabloGalante/shop-assistant/internal/observability"
)

func TestLoggerFromContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	observability.Init(&buf, "info", "json")
	t.Cleanup(func() { observability.Init(os.Stdout, "info", "json") })

	ctx := observability.WithRequestID(context.Background(), "req-1")
	observability.LoggerFromContext(ctx).Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["request_id"] != "req-1" {
		t.Fatalf("expected request_id=req-1, got %v", line["request_id"])
	}
}

func TestInitRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	observability.Init(&buf, "warn", "text")
	t.Cleanup(func() { observability.Init(os.Stdout, "info", "json") })

	observability.Logger().Info("dropped")
	observability.Logger().Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("unexpected output: %q", out)
	}
}

type panicHandler struct{ slog.Handler }

func (panicHandler) Enabled(context.Context, slog.Level) bool { return true }
func (panicHandler) Handle(context.Context, slog.Record) error {
	panic("sink exploded")
}

func TestLogUsageSwallowsFailures(t *testing.T) {
	log := slog.New(panicHandler{})

	// must not panic
	observability.LogUsage(log, &domain.Completion{Usage: domain.TokenUsage{InputTokens: 3, OutputTokens: 5}})
	observability.LogUsage(nil, nil)
}

func TestWithFieldsAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	observability.Init(&buf, "info", "json")
	t.Cleanup(func() { observability.Init(os.Stdout, "info", "json") })

	observability.WithFields("session_id", "s1", "turns", 2).Info("fetched")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["session_id"] != "s1" || line["turns"] != float64(2) {
		t.Fatalf("unexpected fields: %v", line)
	}
}
