package sim

import (
	"strings"
	"testing"

	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/internal/testutil"
	xlog "github.com/reglet-dev/xrlayer/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(r *Report) map[string]string {
	out := make(map[string]string, len(r.Steps))
	for _, s := range r.Steps {
		out[s.Name] = s.Result
	}
	return out
}

func TestRun_Default(t *testing.T) {
	report, err := Run(Options{
		Config:     entities.DefaultLayerConfig(),
		Extensions: []string{entities.TestExtensionName},
		Frames:     2,
		Logger:     xlog.Discard(),
	})
	require.NoError(t, err)
	assert.False(t, report.Failed())

	got := results(report)
	assert.Equal(t, "XR_SUCCESS", got["negotiate"])
	assert.Equal(t, "XR_SUCCESS", got["create_instance"])
	assert.Equal(t, "XR_SUCCESS", got["resolve xrEndFrame"])
	assert.Equal(t, "XR_SUCCESS", got["resolve xrPollEvent"])
	assert.Equal(t, "XR_SUCCESS", got["resolve xrTestMeTEST"])
	assert.Equal(t, "XR_SUCCESS", got["end_frame 1"])
	assert.Equal(t, "XR_SUCCESS", got["end_frame 2"])
	assert.Equal(t, "XR_SUCCESS", got["call xrTestMeTEST"])
	assert.Equal(t, "XR_SUCCESS", got["destroy_instance"])
	assert.Equal(t, "XR_ERROR_INITIALIZATION_FAILED", got["resolve after destroy"])

	assert.Equal(t, 2.0, report.Metrics[`xrlayer_shim_invocations_total{function="xrEndFrame",result="XR_SUCCESS"}`])
	assert.Equal(t, 1.0, report.Metrics[`xrlayer_resolutions_total{outcome="no_context"}`])
}

func TestRun_InvalidLastFrame(t *testing.T) {
	report, err := Run(Options{
		Config:           entities.DefaultLayerConfig(),
		Frames:           2,
		InvalidLastFrame: true,
		Logger:           xlog.Discard(),
	})
	require.NoError(t, err)

	got := results(report)
	assert.Equal(t, "XR_SUCCESS", got["end_frame 1"])
	assert.Equal(t, "XR_ERROR_TIME_INVALID", got["end_frame 2"])
	assert.Equal(t, "XR_ERROR_FUNCTION_UNSUPPORTED", got["resolve xrTestMeTEST"], "extension not requested")
	assert.False(t, report.Failed(), "every failure code here was asked for")
}

func TestRun_CustomLayerName(t *testing.T) {
	cfg := entities.NewLayerConfig(entities.WithLayerName("XR_APILAYER_timing"))
	report, err := Run(Options{Config: cfg, Frames: 1, Logger: xlog.Discard()})
	require.NoError(t, err)
	assert.Equal(t, "XR_APILAYER_timing", report.Layer)
	assert.Equal(t, "XR_SUCCESS", results(report)["end_frame 1"])
}

func TestRun_UnfilteredExtensionRejected(t *testing.T) {
	report, err := Run(Options{
		Config:     entities.NewLayerConfig(entities.WithFilterExtensions(false)),
		Extensions: []string{entities.TestExtensionName},
		Logger:     xlog.Discard(),
	})
	require.NoError(t, err)

	last := report.Steps[len(report.Steps)-1]
	assert.Equal(t, "create_instance", last.Name)
	assert.Equal(t, "XR_ERROR_LAYER_INVALID", last.Result)
	assert.True(t, report.Failed())
}

func TestReport_Failed(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
		want  bool
	}{
		{"all success", []Step{{Name: "negotiate", Result: "XR_SUCCESS"}}, false},
		{"positive code", []Step{{Name: "poll", Result: "XR_EVENT_UNAVAILABLE"}}, false},
		{"unexpected error", []Step{{Name: "create_instance", Result: "XR_ERROR_LAYER_INVALID"}}, true},
		{"expected error", []Step{{Name: "resolve after destroy", Result: "XR_ERROR_INITIALIZATION_FAILED", Expected: "XR_ERROR_INITIALIZATION_FAILED"}}, false},
		{"expected error missing", []Step{{Name: "resolve after destroy", Result: "XR_SUCCESS", Expected: "XR_ERROR_INITIALIZATION_FAILED"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Report{Steps: tt.steps}).Failed())
		})
	}
}

func TestFormat(t *testing.T) {
	report := &Report{
		Layer:   "ExampleLayer",
		Steps:   []Step{{Name: "negotiate", Result: "XR_SUCCESS", Detail: "api 1.0.34"}},
		Metrics: map[string]float64{"b": 2, "a": 1},
	}

	text := FormatText(report)
	assert.Contains(t, text, "layer ExampleLayer")
	assert.Contains(t, text, "negotiate")
	assert.Less(t, strings.Index(text, "  a 1"), strings.Index(text, "  b 2"))

	out, err := FormatJSON(report)
	require.NoError(t, err)
	testutil.AssertJSONEqual(t, `{
		"layer": "ExampleLayer",
		"steps": [{"step": "negotiate", "result": "XR_SUCCESS", "detail": "api 1.0.34"}],
		"metrics": {"a": 1, "b": 2}
	}`, out)
}
