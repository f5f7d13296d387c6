// Package sim runs a layer inside a simulated loader and runtime and reports
// what every step of the chain returned.
package sim

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/infrastructure/metrics"
	"github.com/reglet-dev/xrlayer/internal/loader"
	"github.com/reglet-dev/xrlayer/internal/runtime"
	"github.com/reglet-dev/xrlayer/layer"
)

// Options configures one simulation.
type Options struct {
	Config entities.LayerConfig
	// Extensions are requested by the simulated application.
	Extensions []string
	// RuntimeExtensions are implemented by the simulated runtime.
	RuntimeExtensions []string
	// Frames is the number of frames submitted through xrEndFrame.
	Frames int
	// InvalidLastFrame submits the last frame with a zero display time.
	InvalidLastFrame bool
	Logger           *slog.Logger
}

// Step is one call made during the simulation.
type Step struct {
	Name   string `json:"step"`
	Result string `json:"result"`
	// Expected is set when the step is meant to end in a failure code.
	Expected string `json:"expected,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Report is the outcome of a simulation.
type Report struct {
	Layer   string             `json:"layer"`
	Steps   []Step             `json:"steps"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

func (r *Report) add(name string, res entities.Result, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, Result: res.String(), Detail: detail})
}

// expect records a step whose correct outcome is want.
func (r *Report) expect(name string, res, want entities.Result, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, Result: res.String(), Expected: want.String(), Detail: detail})
}

// Failed reports whether any step ended differently than it should have.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Expected != "" {
			if s.Result != s.Expected {
				return true
			}
			continue
		}
		if strings.HasPrefix(s.Result, "XR_ERROR") || strings.HasPrefix(s.Result, "XR_UNKNOWN_FAILURE") {
			return true
		}
	}
	return false
}

// Run negotiates, creates an instance, resolves and calls the interesting
// entry points, and destroys the instance. Failing steps are recorded, not
// returned as errors; the simulation stops at the first step the rest depend on.
func Run(opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	rt := runtime.New(runtime.WithSupportedExtensions(opts.RuntimeExtensions...))
	l := layer.New(opts.Config, layer.WithLogger(logger), layer.WithObserver(collector))
	ld := loader.New(rt, loader.WithLogger(logger))

	report := &Report{Layer: l.Name()}
	defer func() { report.Metrics = summarize(reg) }()

	res := ld.Load(loader.Manifest{Name: l.Name(), Negotiate: l.NegotiateFunc()})
	report.add("negotiate", res, fmt.Sprintf("api %s, interface %d", entities.CurrentAPIVersion, entities.CurrentLoaderAPILayerVersion))
	if res.Failed() {
		return report, nil
	}

	chain, res := ld.CreateInstance(&entities.InstanceCreateInfo{
		ApplicationInfo:       entities.ApplicationInfo{ApplicationName: "xrlayer-simulate", APIVersion: entities.CurrentAPIVersion},
		EnabledExtensionNames: opts.Extensions,
	})
	if res.Failed() {
		report.add("create_instance", res, "")
		return report, nil
	}
	passed := "none"
	if info, ok := rt.CreateInfo(chain.Instance); ok && len(info.EnabledExtensionNames) > 0 {
		passed = strings.Join(info.EnabledExtensionNames, ",")
	}
	report.add("create_instance", res, fmt.Sprintf("instance %#x, extensions reaching runtime: %s", uint64(chain.Instance), passed))

	for _, name := range []string{entities.FuncEndFrame, entities.FuncPollEvent} {
		_, res := chain.Resolve(name)
		report.add("resolve "+name, res, "")
	}
	_, res = chain.Resolve(entities.FuncTestMe)
	if slices.Contains(opts.Extensions, entities.TestExtensionName) {
		report.add("resolve "+entities.FuncTestMe, res, "")
	} else {
		report.expect("resolve "+entities.FuncTestMe, res, entities.ErrorFunctionUnsupported, "extension not requested")
	}

	if endFrame, res := loader.ResolveAs[entities.EndFrameFunc](chain, entities.FuncEndFrame); res.Succeeded() {
		for i := 0; i < opts.Frames; i++ {
			display := entities.Time(int64(i+1) * 11_111_111)
			invalid := opts.InvalidLastFrame && i == opts.Frames-1
			if invalid {
				display = 0
			}
			res := endFrame(entities.Session(1), &entities.FrameEndInfo{DisplayTime: display, LayerCount: 1})
			step, detail := fmt.Sprintf("end_frame %d", i+1), fmt.Sprintf("display_time %d", display)
			if invalid {
				report.expect(step, res, entities.ErrorTimeInvalid, detail)
			} else {
				report.add(step, res, detail)
			}
		}
	}

	if testMe, res := loader.ResolveAs[entities.TestMeFunc](chain, entities.FuncTestMe); res.Succeeded() {
		report.add("call "+entities.FuncTestMe, testMe(entities.Session(1)), "")
	}

	report.add("destroy_instance", chain.Destroy(), "")
	_, res = chain.Resolve(entities.FuncPollEvent)
	report.expect("resolve after destroy", res, entities.ErrorInitializationFailed, "dispatch context released")
	return report, nil
}

// summarize flattens the counters in reg to "name{labels}" keys.
func summarize(reg *prometheus.Registry) map[string]float64 {
	families, err := reg.Gather()
	if err != nil {
		return nil
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			c := m.GetCounter()
			if c == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			out[mf.GetName()+"{"+strings.Join(labels, ",")+"}"] = c.GetValue()
		}
	}
	return out
}

// FormatText renders report for a terminal.
func FormatText(report *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "layer %s\n", report.Layer)
	for _, s := range report.Steps {
		fmt.Fprintf(&b, "  %-24s %-32s %s\n", s.Name, s.Result, s.Detail)
	}
	if len(report.Metrics) > 0 {
		keys := make([]string, 0, len(report.Metrics))
		for k := range report.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("metrics\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s %g\n", k, report.Metrics[k])
		}
	}
	return b.String()
}

// FormatJSON renders report as indented JSON.
func FormatJSON(report *Report) (string, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
