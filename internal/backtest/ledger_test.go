package backtest

import (
	"math"
	"testing"
)

func TestLedger_PushPopFIFO(t *testing.T) {
	l := NewBuybackLedger()
	l.Push(10, 100)
	l.Push(5, 200)

	if l.Quantity() != 15 {
		t.Fatalf("quantity = %d, want 15", l.Quantity())
	}
	if l.Lots() != 2 {
		t.Fatalf("lots = %d, want 2", l.Lots())
	}

	// Consuming 12 takes all of the first lot and splits the second.
	avg, err := l.Pop(12)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	want := (10.0*100 + 2.0*200) / 12.0
	if math.Abs(avg-want) > 1e-9 {
		t.Errorf("weighted average = %.4f, want %.4f", avg, want)
	}
	if l.Quantity() != 3 {
		t.Errorf("remaining quantity = %d, want 3", l.Quantity())
	}
	if l.Lots() != 1 {
		t.Errorf("remaining lots = %d, want 1", l.Lots())
	}

	// The split lot keeps its original price.
	avg, err = l.Pop(3)
	if err != nil {
		t.Fatalf("pop remainder: %v", err)
	}
	if avg != 200 {
		t.Errorf("split lot price = %.2f, want 200", avg)
	}
}

func TestLedger_Overdrawn(t *testing.T) {
	l := NewBuybackLedger()
	l.Push(5, 100)

	if _, err := l.Pop(6); err == nil {
		t.Fatal("expected overdrawn error")
	}
	// A failed pop leaves the ledger untouched.
	if l.Quantity() != 5 {
		t.Errorf("quantity after failed pop = %d, want 5", l.Quantity())
	}
}

func TestLedger_DegenerateInputs(t *testing.T) {
	l := NewBuybackLedger()
	l.Push(0, 100)
	l.Push(-3, 100)
	if l.Quantity() != 0 {
		t.Errorf("non-positive pushes must be ignored, quantity = %d", l.Quantity())
	}

	avg, err := l.Pop(0)
	if err != nil || avg != 0 {
		t.Errorf("Pop(0) = (%v, %v), want (0, nil)", avg, err)
	}

	if _, err := l.Pop(1); err == nil {
		t.Error("pop from empty ledger must fail")
	}
}
