package layer

import (
	"github.com/reglet-dev/xrlayer/dispatch"
	"github.com/reglet-dev/xrlayer/domain/entities"
	domainerrors "github.com/reglet-dev/xrlayer/domain/errors"
	"github.com/reglet-dev/xrlayer/shim"
)

// builtinShims lists the functions this layer implements.
func (l *Layer) builtinShims() shim.Bundle {
	return shim.NewBundle(
		shim.Entry{Name: entities.FuncEndFrame, Local: entities.EndFrameFunc(l.endFrame)},
		shim.Entry{Name: entities.FuncDestroyInstance, Local: entities.DestroyInstanceFunc(l.destroyInstance)},
		shim.Entry{
			Name:     entities.FuncTestMe,
			Local:    entities.TestMeFunc(l.testMe),
			Requires: entities.TestExtensionName,
		},
	)
}

// endFrame logs the frame's display time and calls down the chain.
func (l *Layer) endFrame(session entities.Session, info *entities.FrameEndInfo) entities.Result {
	next, err := dispatch.NextAs[entities.EndFrameFunc](l.slot, entities.FuncEndFrame)
	if err != nil {
		l.logger.Error("cannot call down the chain", "function", entities.FuncEndFrame, "error", err)
		return domainerrors.ResultOf(err)
	}

	if info != nil {
		l.logger.Info("display frame time", "display_time", int64(info.DisplayTime))
	}

	res := next(session, info)
	if res == entities.ErrorTimeInvalid {
		l.logger.Warn("frame time is invalid", "session", uint64(session))
	}
	return res
}

// destroyInstance calls down the chain, then releases the dispatch context
// if instance is the one it serves.
func (l *Layer) destroyInstance(instance entities.Instance) entities.Result {
	ctx, err := l.slot.Live()
	if err != nil {
		return domainerrors.ResultOf(err)
	}

	var res entities.Result
	next, err := dispatch.NextAs[entities.DestroyInstanceFunc](ctx, entities.FuncDestroyInstance)
	if err != nil {
		l.logger.Error("cannot call down the chain", "function", entities.FuncDestroyInstance, "error", err)
		res = domainerrors.ResultOf(err)
	} else {
		res = next(instance)
	}

	if instance == ctx.Instance() && l.slot.Release(ctx) {
		l.logger.Info("instance destroyed", "instance", uint64(instance), "result", res.String())
	}
	return res
}

// testMe implements the XR_TEST_test_me extension. The function exists only
// in this layer, so it never calls down.
func (l *Layer) testMe(session entities.Session) entities.Result {
	l.logger.Info("xrTestMeTEST called", "session", uint64(session))
	return entities.Success
}
