package zaplog_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-docmodel"
	"github.com/goliatone/go-docmodel/pkg/logging/zaplog"
)

func TestLoggerRecordsDroppedEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zaplog.New(zap.New(core))

	doc, err := docmodel.New(map[string]any{"n": 0}, append(logger.Options(), docmodel.WithMaxDepth(2))...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	doc.On("ping", func(e docmodel.Event) {
		doc.Trigger("ping", nil)
	})
	doc.Trigger("ping", nil)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("event dropped").All()
	if len(warnings) != 1 {
		t.Fatalf("expected one dropped event warning, got %d", len(warnings))
	}
	if got := warnings[0].ContextMap()["event"]; got != "ping" {
		t.Fatalf("expected event field ping, got %v", got)
	}
}

func TestLoggerRecordsEvaluations(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zaplog.New(zap.New(core))

	doc, err := docmodel.New(map[string]any{"total": 12}, logger.Options()...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := doc.Evaluate("total > 10"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	entries := logs.FilterMessage("evaluation").All()
	if len(entries) != 1 {
		t.Fatalf("expected one evaluation entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["engine"]; got != "expr" {
		t.Fatalf("expected expr engine, got %v", got)
	}
	if entries[0].LoggerName != "docmodel" {
		t.Fatalf("expected named logger, got %q", entries[0].LoggerName)
	}
}
