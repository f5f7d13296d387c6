package loader_test

import (
	"testing"

	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/internal/loader"
	"github.com/reglet-dev/xrlayer/internal/runtime"
	"github.com/reglet-dev/xrlayer/layer"
	xlog "github.com/reglet-dev/xrlayer/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLayer(name string) *layer.Layer {
	return layer.New(
		entities.NewLayerConfig(entities.WithLayerName(name)),
		layer.WithLogger(xlog.Discard()),
	)
}

func TestLoader_NoLayers(t *testing.T) {
	rt := runtime.New()
	ld := loader.New(rt, loader.WithLogger(xlog.Discard()))

	chain, res := ld.CreateInstance(&entities.InstanceCreateInfo{})
	require.Equal(t, entities.Success, res)
	assert.True(t, rt.Live(chain.Instance))

	_, res = chain.Resolve(entities.FuncPollEvent)
	assert.Equal(t, entities.Success, res)
	assert.Equal(t, entities.Success, chain.Destroy())
	assert.False(t, rt.Live(chain.Instance))
}

func TestLoader_Load(t *testing.T) {
	ld := loader.New(runtime.New(), loader.WithLogger(xlog.Discard()))
	l := newLayer("ExampleLayer")

	assert.Equal(t, entities.Success, ld.Load(loader.Manifest{Name: "ExampleLayer", Negotiate: l.NegotiateFunc()}))
	assert.Equal(t, entities.ErrorInitializationFailed,
		ld.Load(loader.Manifest{Name: "WrongName", Negotiate: l.NegotiateFunc()}))
	assert.Equal(t, entities.ErrorLayerInvalid, ld.Load(loader.Manifest{Name: "Nil"}))
	assert.Equal(t, []string{"ExampleLayer"}, ld.Layers())
}

func TestLoader_VersionWindow(t *testing.T) {
	l := newLayer("ExampleLayer")
	m := loader.Manifest{Name: "ExampleLayer", Negotiate: l.NegotiateFunc()}

	tests := []struct {
		name string
		opt  loader.Option
		want entities.Result
	}{
		{"interface window includes 1", loader.WithInterfaceWindow(1, 2), entities.Success},
		{"interface window above", loader.WithInterfaceWindow(2, 3), entities.ErrorInitializationFailed},
		{"api window includes current",
			loader.WithAPIWindow(entities.MakeVersion(1, 0, 0), entities.MakeVersion(1, 1, 0)), entities.Success},
		{"api window below",
			loader.WithAPIWindow(entities.MakeVersion(0, 9, 0), entities.MakeVersion(1, 0, 0)), entities.ErrorInitializationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ld := loader.New(runtime.New(), loader.WithLogger(xlog.Discard()), tt.opt)
			assert.Equal(t, tt.want, ld.Load(m))
		})
	}
}

func TestLoader_TwoLayerChain(t *testing.T) {
	rt := runtime.New()
	top := newLayer("TopLayer")
	bottom := newLayer("BottomLayer")

	ld := loader.New(rt, loader.WithLogger(xlog.Discard()))
	require.Equal(t, entities.Success, ld.Load(loader.Manifest{Name: "TopLayer", Negotiate: top.NegotiateFunc()}))
	require.Equal(t, entities.Success, ld.Load(loader.Manifest{Name: "BottomLayer", Negotiate: bottom.NegotiateFunc()}))

	chain, res := ld.CreateInstance(&entities.InstanceCreateInfo{
		EnabledExtensionNames: []string{entities.TestExtensionName},
	})
	require.Equal(t, entities.Success, res)

	// The top layer accepted the test extension, so the bottom never saw it.
	topCtx, err := top.Slot().Live()
	require.NoError(t, err)
	assert.True(t, topCtx.Extensions().Enabled(entities.TestExtensionName))
	bottomCtx, err := bottom.Slot().Live()
	require.NoError(t, err)
	assert.False(t, bottomCtx.Extensions().Enabled(entities.TestExtensionName))

	endFrame, res := loader.ResolveAs[entities.EndFrameFunc](chain, entities.FuncEndFrame)
	require.Equal(t, entities.Success, res)
	assert.Equal(t, entities.Success, endFrame(1, &entities.FrameEndInfo{DisplayTime: 10}))
	assert.Len(t, rt.Frames(), 1, "frame passed through both layers")

	assert.Equal(t, entities.Success, chain.Destroy())
	assert.False(t, rt.Live(chain.Instance))
	_, err = top.Slot().Live()
	assert.Error(t, err)
	_, err = bottom.Slot().Live()
	assert.Error(t, err)
}

func TestLoader_CreateFailure(t *testing.T) {
	rt := runtime.New(runtime.WithCreateResult(entities.ErrorRuntimeFailure))
	l := newLayer("ExampleLayer")
	ld := loader.New(rt, loader.WithLogger(xlog.Discard()))
	require.Equal(t, entities.Success, ld.Load(loader.Manifest{Name: "ExampleLayer", Negotiate: l.NegotiateFunc()}))

	chain, res := ld.CreateInstance(&entities.InstanceCreateInfo{})
	assert.Nil(t, chain)
	assert.Equal(t, entities.ErrorLayerInvalid, res)
}

func TestResolveAs_WrongType(t *testing.T) {
	ld := loader.New(runtime.New(), loader.WithLogger(xlog.Discard()))
	chain, res := ld.CreateInstance(&entities.InstanceCreateInfo{})
	require.Equal(t, entities.Success, res)

	_, res = loader.ResolveAs[entities.PollEventFunc](chain, entities.FuncEndFrame)
	assert.Equal(t, entities.ErrorRuntimeFailure, res)
	assert.Contains(t, chain.String(), "instance=0x")
}
