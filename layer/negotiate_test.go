package layer

import (
	"errors"
	"testing"

	"github.com/reglet-dev/xrlayer/domain/entities"
	domainerrors "github.com/reglet-dev/xrlayer/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLoaderInfo() *entities.LoaderInfo {
	return entities.NewLoaderInfo(1, 1, entities.CurrentAPIVersion, entities.CurrentAPIVersion)
}

func TestNegotiate_Success(t *testing.T) {
	l, _ := newTestLayer(t)
	req := entities.NewAPILayerRequest()

	res := l.Negotiate(validLoaderInfo(), entities.DefaultLayerName, req)
	require.Equal(t, entities.Success, res)

	assert.Equal(t, entities.CurrentLoaderAPILayerVersion, req.LayerInterfaceVersion)
	assert.Equal(t, entities.CurrentAPIVersion, req.LayerAPIVersion)
	assert.NotNil(t, req.GetInstanceProcAddr)
	assert.NotNil(t, req.CreateAPILayerInstance)
}

func TestNegotiate_Windows(t *testing.T) {
	cur := entities.CurrentAPIVersion
	tests := []struct {
		name string
		info *entities.LoaderInfo
		want entities.Result
	}{
		{"exact", validLoaderInfo(), entities.Success},
		{"wide windows", entities.NewLoaderInfo(0, 5, entities.MakeVersion(1, 0, 0), entities.MakeVersion(2, 0, 0)), entities.Success},
		{"interface above", entities.NewLoaderInfo(2, 3, cur, cur), entities.ErrorInitializationFailed},
		{"interface below", entities.NewLoaderInfo(0, 0, cur, cur), entities.ErrorInitializationFailed},
		{"api above", entities.NewLoaderInfo(1, 1, entities.MakeVersion(1, 0, 35), entities.MakeVersion(1, 1, 0)), entities.ErrorInitializationFailed},
		{"api below", entities.NewLoaderInfo(1, 1, entities.MakeVersion(1, 0, 0), entities.MakeVersion(1, 0, 33)), entities.ErrorInitializationFailed},
		{"patch counts", entities.NewLoaderInfo(1, 1, entities.MakeVersion(1, 0, 34), entities.MakeVersion(1, 0, 34)), entities.Success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLayer(t)
			assert.Equal(t, tt.want, l.Negotiate(tt.info, entities.DefaultLayerName, entities.NewAPILayerRequest()))
		})
	}
}

func TestNegotiate_RejectedLeavesRequestUntouched(t *testing.T) {
	tests := []struct {
		name      string
		info      func() *entities.LoaderInfo
		layerName string
		req       func() *entities.APILayerRequest
		field     string
	}{
		{"nil loader info", func() *entities.LoaderInfo { return nil }, "ExampleLayer", entities.NewAPILayerRequest, "loader_info"},
		{"loader info wrong type", func() *entities.LoaderInfo {
			i := validLoaderInfo()
			i.Type = entities.StructureTypeRuntimeRequest
			return i
		}, "ExampleLayer", entities.NewAPILayerRequest, "loader_info"},
		{"loader info newer version", func() *entities.LoaderInfo {
			i := validLoaderInfo()
			i.Version = 2
			return i
		}, "ExampleLayer", entities.NewAPILayerRequest, "loader_info"},
		{"loader info larger", func() *entities.LoaderInfo {
			i := validLoaderInfo()
			i.Size += 8
			return i
		}, "ExampleLayer", entities.NewAPILayerRequest, "loader_info"},
		{"request wrong type", validLoaderInfo, "ExampleLayer", func() *entities.APILayerRequest {
			r := entities.NewAPILayerRequest()
			r.Type = entities.StructureTypeLoaderInfo
			return r
		}, "api_layer_request"},
		{"request wrong version", validLoaderInfo, "ExampleLayer", func() *entities.APILayerRequest {
			r := entities.NewAPILayerRequest()
			r.Version = 0
			return r
		}, "api_layer_request"},
		{"request smaller", validLoaderInfo, "ExampleLayer", func() *entities.APILayerRequest {
			r := entities.NewAPILayerRequest()
			r.Size -= 8
			return r
		}, "api_layer_request"},
		{"name case differs", validLoaderInfo, "examplelayer", entities.NewAPILayerRequest, "layer_name"},
		{"name prefix", validLoaderInfo, "Example", entities.NewAPILayerRequest, "layer_name"},
		{"empty name", validLoaderInfo, "", entities.NewAPILayerRequest, "layer_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLayer(t)
			req := tt.req()
			before := *req

			res := l.Negotiate(tt.info(), tt.layerName, req)
			assert.Equal(t, entities.ErrorInitializationFailed, res)
			assert.Equal(t, before.Header, req.Header)
			assert.Zero(t, req.LayerInterfaceVersion)
			assert.Zero(t, req.LayerAPIVersion)
			assert.Nil(t, req.GetInstanceProcAddr)
			assert.Nil(t, req.CreateAPILayerInstance)

			err := l.checkNegotiation(tt.info(), tt.layerName, tt.req())
			var negErr *domainerrors.NegotiationError
			require.True(t, errors.As(err, &negErr))
			assert.Equal(t, tt.field, negErr.Field)
		})
	}
}

func TestNegotiate_NilRequest(t *testing.T) {
	l, _ := newTestLayer(t)
	assert.Equal(t, entities.ErrorInitializationFailed, l.Negotiate(validLoaderInfo(), entities.DefaultLayerName, nil))
}

func TestNegotiate_CreatesNoContext(t *testing.T) {
	l, _ := newTestLayer(t)
	require.Equal(t, entities.Success, l.Negotiate(validLoaderInfo(), entities.DefaultLayerName, entities.NewAPILayerRequest()))
	require.Equal(t, entities.Success, l.Negotiate(validLoaderInfo(), entities.DefaultLayerName, entities.NewAPILayerRequest()))

	_, err := l.Slot().Live()
	assert.ErrorIs(t, err, domainerrors.ErrNoLiveContext)
}

func TestNegotiate_CustomName(t *testing.T) {
	l, _ := newTestLayer(t, entities.WithLayerName("XR_APILAYER_test_timing"))
	assert.Equal(t, entities.Success, l.Negotiate(validLoaderInfo(), "XR_APILAYER_test_timing", entities.NewAPILayerRequest()))
	assert.Equal(t, entities.ErrorInitializationFailed, l.Negotiate(validLoaderInfo(), entities.DefaultLayerName, entities.NewAPILayerRequest()))
}
