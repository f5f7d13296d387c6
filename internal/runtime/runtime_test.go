package runtime

import (
	"testing"

	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createInstance(t *testing.T, r *Runtime, exts ...string) entities.Instance {
	t.Helper()
	h, res := r.CreateAPILayerInstance(&entities.InstanceCreateInfo{EnabledExtensionNames: exts}, entities.NewAPILayerCreateInfo(nil))
	testutil.RequireSuccess(t, res)
	testutil.AssertHandleLive(t, h)
	return h
}

func TestRuntime_CreateAndDestroy(t *testing.T) {
	r := New(WithSupportedExtensions("XR_KHR_a"))

	h := createInstance(t, r, "XR_KHR_a")
	assert.True(t, r.Live(h))

	info, ok := r.CreateInfo(h)
	require.True(t, ok)
	assert.Equal(t, []string{"XR_KHR_a"}, info.EnabledExtensionNames)

	testutil.AssertResult(t, entities.Success, r.DestroyInstance(h))
	assert.False(t, r.Live(h))
	testutil.AssertResult(t, entities.ErrorHandleInvalid, r.DestroyInstance(h))
}

func TestRuntime_CreateFailures(t *testing.T) {
	tests := []struct {
		name      string
		runtime   *Runtime
		info      *entities.InstanceCreateInfo
		layerInfo *entities.APILayerCreateInfo
		want      entities.Result
	}{
		{"nil info", New(), nil, nil, entities.ErrorValidationFailure},
		{
			"unknown extension", New(),
			&entities.InstanceCreateInfo{EnabledExtensionNames: []string{"XR_TEST_test_me"}}, nil,
			entities.ErrorExtensionNotPresent,
		},
		{
			"chain continues", New(), &entities.InstanceCreateInfo{},
			entities.NewAPILayerCreateInfo(entities.NewAPILayerNextInfo("Other", nil, nil, nil)),
			entities.ErrorLayerInvalid,
		},
		{"forced", New(WithCreateResult(entities.ErrorRuntimeFailure)), &entities.InstanceCreateInfo{}, nil, entities.ErrorRuntimeFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, res := tt.runtime.CreateAPILayerInstance(tt.info, tt.layerInfo)
			testutil.AssertResult(t, tt.want, res)
			assert.Equal(t, entities.NullInstance, h)
		})
	}
}

func TestRuntime_GetInstanceProcAddr(t *testing.T) {
	r := New(WithoutFunctions(entities.FuncPollEvent))
	h := createInstance(t, r)

	for _, name := range []string{entities.FuncGetInstanceProcAddr, entities.FuncDestroyInstance, entities.FuncEndFrame} {
		fn, res := r.GetInstanceProcAddr(h, name)
		assert.Equal(t, entities.Success, res, name)
		assert.NotNil(t, fn, name)
	}

	_, res := r.GetInstanceProcAddr(h, entities.FuncPollEvent)
	assert.Equal(t, entities.ErrorFunctionUnsupported, res, "omitted")

	_, res = r.GetInstanceProcAddr(h, entities.FuncTestMe)
	assert.Equal(t, entities.ErrorFunctionUnsupported, res, "unknown")

	_, res = r.GetInstanceProcAddr(0xdead, entities.FuncEndFrame)
	assert.Equal(t, entities.ErrorHandleInvalid, res)
}

func TestRuntime_EndFrame(t *testing.T) {
	r := New()
	assert.Equal(t, entities.Success, r.EndFrame(1, &entities.FrameEndInfo{DisplayTime: 100}))
	assert.Equal(t, entities.ErrorTimeInvalid, r.EndFrame(1, &entities.FrameEndInfo{DisplayTime: 0}))
	assert.Equal(t, entities.ErrorValidationFailure, r.EndFrame(1, nil))

	frames := r.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, entities.Time(100), frames[0].DisplayTime)
	assert.Equal(t, 3, r.Calls(entities.FuncEndFrame))
}

func TestRuntime_PollEvent(t *testing.T) {
	r := New(WithEvents(entities.EventDataBuffer{Type: 7, Data: []byte("x")}))
	h := createInstance(t, r)

	var buf entities.EventDataBuffer
	assert.Equal(t, entities.Success, r.PollEvent(h, &buf))
	assert.Equal(t, uint32(7), buf.Type)
	assert.Equal(t, entities.EventUnavailable, r.PollEvent(h, &buf))
	assert.Equal(t, entities.ErrorValidationFailure, r.PollEvent(h, nil))
	assert.Equal(t, entities.ErrorHandleInvalid, r.PollEvent(0xdead, &buf))
}
