package ports

import (
	"time"

	"github.com/reglet-dev/xrlayer/domain/entities"
)

// Outcome classifies how a name resolution was served.
type Outcome string

const (
	// OutcomeLocal means a local shim was returned.
	OutcomeLocal Outcome = "local"
	// OutcomeForwarded means the lookup was forwarded down the chain and succeeded.
	OutcomeForwarded Outcome = "forwarded"
	// OutcomeFailed means the lookup was forwarded and the next layer failed it.
	OutcomeFailed Outcome = "failed"
	// OutcomeNoContext means no Dispatch Context was live.
	OutcomeNoContext Outcome = "no_context"
)

// Observer receives dispatch events. Implementations must be safe for
// concurrent use.
type Observer interface {
	// ObserveResolution records one name resolution.
	ObserveResolution(name string, outcome Outcome)

	// ObserveUpstreamMissing records a shimmed name the next layer does not provide.
	ObserveUpstreamMissing(name string)

	// ObserveInvocation records one completed shim call.
	ObserveInvocation(name string, elapsed time.Duration, result entities.Result)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) ObserveResolution(string, Outcome)                        {}
func (NopObserver) ObserveUpstreamMissing(string)                            {}
func (NopObserver) ObserveInvocation(string, time.Duration, entities.Result) {}
