package service

import (
	"errors"
	"testing"
)

func TestLedgerGetBalanceDefault(t *testing.T) {
	ledger := NewCreditLedger()

	if got := ledger.GetBalance("nobody"); got != 0 {
		t.Errorf("Expected balance 0 for unknown user, got %d", got)
	}
}

func TestLedgerGrantCredits(t *testing.T) {
	ledger := NewCreditLedger()

	if err := ledger.GrantCredits("user1", 3); err != nil {
		t.Fatalf("GrantCredits failed: %v", err)
	}
	if got := ledger.GetBalance("user1"); got != 3 {
		t.Errorf("Expected balance 3, got %d", got)
	}

	// Additive on an existing record
	if err := ledger.GrantCredits("user1", 2); err != nil {
		t.Fatalf("GrantCredits failed: %v", err)
	}
	if got := ledger.GetBalance("user1"); got != 5 {
		t.Errorf("Expected balance 5, got %d", got)
	}
}

func TestLedgerGrantRejectsNonPositive(t *testing.T) {
	ledger := NewCreditLedger()

	for _, amount := range []int{0, -1, -100} {
		if err := ledger.GrantCredits("user1", amount); !errors.Is(err, ErrInvalidGrant) {
			t.Errorf("Expected ErrInvalidGrant for amount %d, got %v", amount, err)
		}
	}
	if got := ledger.GetBalance("user1"); got != 0 {
		t.Errorf("Expected balance unchanged at 0, got %d", got)
	}
}

func TestLedgerGrantDoesNotDeduplicate(t *testing.T) {
	ledger := NewCreditLedger()

	// The ledger itself does not deduplicate; a replayed grant grants twice.
	ledger.GrantCredits("user1", 1)
	ledger.GrantCredits("user1", 1)
	if got := ledger.GetBalance("user1"); got != 2 {
		t.Errorf("Expected balance 2 after replayed grant, got %d", got)
	}
}

func TestLedgerSignupBonusOnce(t *testing.T) {
	ledger := NewCreditLedger()

	ledger.GrantSignupBonus("user1", 1)
	ledger.GrantSignupBonus("user1", 1)
	ledger.GrantSignupBonus("user1", 1)

	if got := ledger.GetBalance("user1"); got != 1 {
		t.Errorf("Expected a single signup grant, got balance %d", got)
	}
}

func TestLedgerDebit(t *testing.T) {
	ledger := NewCreditLedger()
	ledger.GrantCredits("user1", 2)

	if err := ledger.debit("user1"); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if got := ledger.GetBalance("user1"); got != 1 {
		t.Errorf("Expected balance 1, got %d", got)
	}
}

func TestLedgerNeverGoesNegative(t *testing.T) {
	ledger := NewCreditLedger()
	ledger.GrantCredits("user1", 1)

	if err := ledger.debit("user1"); err != nil {
		t.Fatalf("debit failed: %v", err)
	}

	// Balance is now 0: further debits fail and change nothing.
	for i := 0; i < 3; i++ {
		if err := ledger.debit("user1"); !errors.Is(err, ErrInsufficientCredits) {
			t.Errorf("Expected ErrInsufficientCredits, got %v", err)
		}
	}
	if got := ledger.GetBalance("user1"); got != 0 {
		t.Errorf("Expected balance 0, got %d", got)
	}

	// A user with no record at all cannot be debited either.
	if err := ledger.debit("ghost"); !errors.Is(err, ErrInsufficientCredits) {
		t.Errorf("Expected ErrInsufficientCredits for unknown user, got %v", err)
	}
	if got := ledger.GetBalance("ghost"); got != 0 {
		t.Errorf("Expected balance 0 for unknown user, got %d", got)
	}
}
