package application_test

import (
	"context"
	"errors"
	"testing"

	"atelier/contexts/finance-core/treasury/adapters/memory"
	"atelier/contexts/finance-core/treasury/application"
	domainerrors "atelier/contexts/finance-core/treasury/domain/errors"
)

type staticAdmin struct {
	address string
}

func (a *staticAdmin) Admin(_ context.Context) (string, error) {
	return a.address, nil
}

func (a *staticAdmin) SetAdmin(_ context.Context, address string) error {
	a.address = address
	return nil
}

func newService(t *testing.T) (*application.Service, *memory.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	moneyLedger := memory.NewLedger()
	service := &application.Service{
		Custody: store,
		Ledger:  moneyLedger,
		Admin:   &staticAdmin{address: "0xadmin"},
		Clock:   store,
		IDGen:   store,
	}
	return service, moneyLedger, store
}

func TestAccrueGrowsCustody(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	if err := service.Accrue(ctx, 25, "primary_sale"); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}
	if err := service.Accrue(ctx, 2, "resale"); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	balance, err := service.Balance(ctx)
	if err != nil || balance != 27 {
		t.Fatalf("expected balance 27, got %d err=%v", balance, err)
	}
}

func TestAccrueValidatesAmount(t *testing.T) {
	service, _, store := newService(t)
	ctx := context.Background()

	if err := service.Accrue(ctx, -1, "resale"); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := service.Accrue(ctx, 0, "resale"); err != nil {
		t.Fatalf("expected zero accrual to be a no-op, got %v", err)
	}

	entries, err := store.ListEntries(ctx, 10)
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no custody entries, got %d", len(entries))
	}
}

func TestWithdrawAllPaysAdministratorInFull(t *testing.T) {
	service, moneyLedger, store := newService(t)
	ctx := context.Background()

	if err := service.Accrue(ctx, 40, "primary_sale"); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	withdrawn, err := service.WithdrawAll(ctx, "0xadmin")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if withdrawn != 40 {
		t.Fatalf("expected withdrawal of 40, got %d", withdrawn)
	}
	if got := moneyLedger.BalanceOf("0xadmin"); got != 40 {
		t.Fatalf("expected admin ledger balance 40, got %d", got)
	}

	balance, err := service.Balance(ctx)
	if err != nil || balance != 0 {
		t.Fatalf("expected empty custody, got %d err=%v", balance, err)
	}

	entries, err := store.ListEntries(ctx, 10)
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	var sawWithdrawal bool
	for _, entry := range entries {
		if entry.Source == "withdrawal" && entry.Amount == -40 {
			sawWithdrawal = true
		}
	}
	if !sawWithdrawal {
		t.Fatalf("expected a -40 withdrawal entry, got %+v", entries)
	}
}

func TestWithdrawAllRequiresAdministrator(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	if err := service.Accrue(ctx, 10, "resale"); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	if _, err := service.WithdrawAll(ctx, "0xstranger"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := service.WithdrawAll(ctx, ""); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for blank caller, got %v", err)
	}

	balance, err := service.Balance(ctx)
	if err != nil || balance != 10 {
		t.Fatalf("expected custody untouched at 10, got %d err=%v", balance, err)
	}
}

func TestWithdrawAllOnEmptyCustodyIsNoOp(t *testing.T) {
	service, _, _ := newService(t)

	withdrawn, err := service.WithdrawAll(context.Background(), "0xadmin")
	if err != nil {
		t.Fatalf("expected empty withdrawal to succeed, got %v", err)
	}
	if withdrawn != 0 {
		t.Fatalf("expected zero withdrawal, got %d", withdrawn)
	}
}

func TestWithdrawAllRejectedTransferLeavesCustodyIntact(t *testing.T) {
	service, moneyLedger, _ := newService(t)
	ctx := context.Background()

	if err := service.Accrue(ctx, 30, "resale"); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}
	moneyLedger.RejectPaymentsTo("0xadmin")

	if _, err := service.WithdrawAll(ctx, "0xadmin"); !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}

	balance, err := service.Balance(ctx)
	if err != nil || balance != 30 {
		t.Fatalf("expected custody intact at 30, got %d err=%v", balance, err)
	}
}

func TestWithdrawAllRejectsReentrantCallback(t *testing.T) {
	service, moneyLedger, _ := newService(t)
	ctx := context.Background()

	if err := service.Accrue(ctx, 50, "primary_sale"); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	var nestedWithdrawErr, nestedAccrueErr error
	moneyLedger.SetPaymentHook("0xadmin", func(hookCtx context.Context) {
		_, nestedWithdrawErr = service.WithdrawAll(hookCtx, "0xadmin")
		nestedAccrueErr = service.Accrue(hookCtx, 5, "resale")
	})

	withdrawn, err := service.WithdrawAll(ctx, "0xadmin")
	if err != nil {
		t.Fatalf("outer withdrawal failed: %v", err)
	}
	if withdrawn != 50 {
		t.Fatalf("expected withdrawal of 50, got %d", withdrawn)
	}
	if !errors.Is(nestedWithdrawErr, domainerrors.ErrReentrant) {
		t.Fatalf("expected nested withdrawal to fail with ErrReentrant, got %v", nestedWithdrawErr)
	}
	if !errors.Is(nestedAccrueErr, domainerrors.ErrReentrant) {
		t.Fatalf("expected nested accrual to fail with ErrReentrant, got %v", nestedAccrueErr)
	}

	balance, err := service.Balance(ctx)
	if err != nil || balance != 0 {
		t.Fatalf("expected custody drained, got %d err=%v", balance, err)
	}
	if got := moneyLedger.BalanceOf("0xadmin"); got != 50 {
		t.Fatalf("expected admin paid exactly once, got %d", got)
	}
}
