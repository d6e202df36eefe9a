package application

import (
	"context"
	"sync"

	domainerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
)

type reentryMarker struct{}

// Guard serializes mutating marketplace commands and rejects nested re-entry
// issued from inside a payment callback. The marker travels on the request
// context, so a recipient that calls back into the engine during its own
// payout is detected before the writer lock is touched and the guard never
// deadlocks on itself.
type Guard struct {
	mu sync.Mutex
}

func NewGuard() *Guard {
	return &Guard{}
}

// Enter rejects re-entered contexts, then acquires the single-writer lock.
// The returned context must flow into every outbound call made while the
// lock is held; release must run on every exit path.
func (g *Guard) Enter(ctx context.Context) (context.Context, func(), error) {
	if ctx.Value(reentryMarker{}) != nil {
		return nil, nil, domainerrors.ErrReentrant
	}
	g.mu.Lock()
	return context.WithValue(ctx, reentryMarker{}, struct{}{}), g.mu.Unlock, nil
}
