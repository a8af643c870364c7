package observability

import (
	"log/slog"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

// LogUsage records token usage of one completion. It is best-effort: anything
// that goes wrong while emitting the line is swallowed here and never reaches
// the caller.
func LogUsage(log *slog.Logger, c *domain.Completion) {
	defer func() {
		_ = recover()
	}()

	if log == nil || c == nil {
		return
	}
	log.Info("chat completion usage",
		"input_tokens", c.Usage.InputTokens,
		"output_tokens", c.Usage.OutputTokens,
		"finish_reason", c.FinishReason,
	)
}
