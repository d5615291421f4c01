package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Turns counts completed conversation turns (one external user message
	// through to the settling agent reply).
	Turns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consultant_turns_total",
		Help: "Completed conversation turns.",
	})

	// ModelCalls counts language model invocations by path.
	ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consultant_model_calls_total",
		Help: "Language model invocations by path (continue|finalize).",
	}, []string{"path"})

	// ToolCalls counts research tool executions by tool and result status.
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consultant_tool_calls_total",
		Help: "Research tool executions by tool name and status.",
	}, []string{"tool", "status"})

	// FinalizeAttempts counts finalize outcomes (ok|invalid|error).
	FinalizeAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consultant_finalize_attempts_total",
		Help: "Finalize attempts by outcome.",
	}, []string{"outcome"})
)
