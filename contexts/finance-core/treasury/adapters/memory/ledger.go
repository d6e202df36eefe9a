package memory

import (
	"context"
	"strings"
	"sync"

	domainerrors "atelier/contexts/finance-core/treasury/domain/errors"
	"atelier/contexts/finance-core/treasury/ports"
)

// Ledger is the in-memory monetary transfer primitive. A batch settles
// all-or-nothing: every recipient is checked before any balance moves, so a
// rejecting recipient fails the whole batch with no partial payment.
//
// Recipients can be configured to reject funds, and a payment hook can be
// attached per address. Hooks receive the request context and run after the
// batch commits, which lets tests model a recipient calling back into the
// marketplace during its own payout.
type Ledger struct {
	mu sync.Mutex

	balances map[string]int64
	rejects  map[string]bool
	hooks    map[string]func(context.Context)
}

func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[string]int64),
		rejects:  make(map[string]bool),
		hooks:    make(map[string]func(context.Context)),
	}
}

func (l *Ledger) Pay(ctx context.Context, payments []ports.Payment) error {
	l.mu.Lock()

	for _, payment := range payments {
		if strings.TrimSpace(payment.Recipient) == "" || payment.Amount < 0 {
			l.mu.Unlock()
			return domainerrors.ErrInvalidInput
		}
		if l.rejects[payment.Recipient] {
			l.mu.Unlock()
			return domainerrors.ErrTransferRejected
		}
	}

	var callbacks []func(context.Context)
	for _, payment := range payments {
		l.balances[payment.Recipient] += payment.Amount
		if hook, ok := l.hooks[payment.Recipient]; ok {
			callbacks = append(callbacks, hook)
		}
	}
	l.mu.Unlock()

	for _, callback := range callbacks {
		callback(ctx)
	}
	return nil
}

func (l *Ledger) BalanceOf(address string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[address]
}

// RejectPaymentsTo makes every future payment to address fail.
func (l *Ledger) RejectPaymentsTo(address string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rejects[address] = true
}

// SetPaymentHook registers a callback invoked whenever address is paid.
func (l *Ledger) SetPaymentHook(address string, hook func(context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks[address] = hook
}
