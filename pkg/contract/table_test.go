package contract

import (
	"testing"

	"github.com/yourusername/tradecore/pkg/types"
)

func sampleContract(index int32, ticker string) types.Contract {
	return types.Contract{
		Index:    index,
		Ticker:   ticker,
		Exchange: "SHFE",
		Size:     10,
	}
}

func TestInsert_RejectsAfterSeal(t *testing.T) {
	tbl := New()
	tbl.Seal()

	if err := tbl.Insert(sampleContract(0, "ag2506")); err == nil {
		t.Fatalf("expected Insert to fail once sealed")
	}
}

func TestInsert_RejectsNonPositiveSize(t *testing.T) {
	tbl := New()
	c := sampleContract(0, "ag2506")
	c.Size = 0

	if err := tbl.Insert(c); err == nil {
		t.Fatalf("expected Insert to reject a non-positive size")
	}
}

func TestInsert_RejectsNegativeIndex(t *testing.T) {
	tbl := New()
	c := sampleContract(-1, "ag2506")

	if err := tbl.Insert(c); err == nil {
		t.Fatalf("expected Insert to reject a negative index")
	}
}

func TestInsert_RejectsDuplicateTickerExchange(t *testing.T) {
	tbl := New()
	if err := tbl.Insert(sampleContract(0, "ag2506")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := tbl.Insert(sampleContract(1, "ag2506")); err == nil {
		t.Fatalf("expected Insert to reject a duplicate (ticker, exchange)")
	}
}

func TestInsert_RejectsDuplicateIndex(t *testing.T) {
	tbl := New()
	if err := tbl.Insert(sampleContract(0, "ag2506")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := tbl.Insert(sampleContract(0, "cu2506")); err == nil {
		t.Fatalf("expected Insert to reject a duplicate index")
	}
}

func TestInsert_SparseIndexesGrowTheDenseArray(t *testing.T) {
	tbl := New()
	if err := tbl.Insert(sampleContract(3, "ag2506")); err != nil {
		t.Fatalf("insert at sparse index failed: %v", err)
	}
	if got := tbl.GetByIndex(3); got == nil || got.Ticker != "ag2506" {
		t.Fatalf("expected index 3 to hold ag2506, got %+v", got)
	}
	for _, i := range []int32{0, 1, 2} {
		if tbl.GetByIndex(i) != nil {
			t.Fatalf("expected index %d to be unoccupied, got a contract", i)
		}
	}
}

func TestGetByIndex_OutOfRange(t *testing.T) {
	tbl := New()
	_ = tbl.Insert(sampleContract(0, "ag2506"))

	if tbl.GetByIndex(-1) != nil {
		t.Fatalf("expected nil for a negative index")
	}
	if tbl.GetByIndex(5) != nil {
		t.Fatalf("expected nil for an index beyond the dense array")
	}
}

func TestGetByTicker_ScopedByExchange(t *testing.T) {
	tbl := New()
	shfe := sampleContract(0, "ag2506")
	dce := sampleContract(1, "ag2506")
	dce.Exchange = "DCE"
	_ = tbl.Insert(shfe)
	_ = tbl.Insert(dce)

	if got := tbl.GetByTicker("ag2506", "SHFE"); got == nil || got.Index != 0 {
		t.Fatalf("expected the SHFE contract, got %+v", got)
	}
	if got := tbl.GetByTicker("ag2506", "DCE"); got == nil || got.Index != 1 {
		t.Fatalf("expected the DCE contract, got %+v", got)
	}
	if got := tbl.GetByTicker("ag2506", "CFFEX"); got != nil {
		t.Fatalf("expected no match for an unregistered exchange, got %+v", got)
	}
}

func TestGetByTickerAny_LastExchangeWinsOnCollision(t *testing.T) {
	tbl := New()
	_ = tbl.Insert(sampleContract(0, "ag2506"))
	dce := sampleContract(1, "ag2506")
	dce.Exchange = "DCE"
	_ = tbl.Insert(dce)

	if got := tbl.GetByTickerAny("ag2506"); got == nil || got.Exchange != "DCE" {
		t.Fatalf("expected the most-recently-inserted exchange to win, got %+v", got)
	}
}

func TestSeal_IsIdempotentAndObservable(t *testing.T) {
	tbl := New()
	if tbl.Sealed() {
		t.Fatalf("a fresh table must not start sealed")
	}
	tbl.Seal()
	tbl.Seal()
	if !tbl.Sealed() {
		t.Fatalf("expected the table to report sealed")
	}
}

func TestUpdateMarginRate_UpdatesInPlace(t *testing.T) {
	tbl := New()
	_ = tbl.Insert(sampleContract(0, "ag2506"))

	if err := tbl.UpdateMarginRate(0, 0.1, 0.12); err != nil {
		t.Fatalf("UpdateMarginRate failed: %v", err)
	}
	got := tbl.GetByIndex(0)
	if got.LongMarginRate != 0.1 || got.ShortMarginRate != 0.12 {
		t.Fatalf("expected margin rates to be updated in place, got %+v", got)
	}
}

func TestUpdateMarginRate_UnknownIndex(t *testing.T) {
	tbl := New()
	_ = tbl.Insert(sampleContract(0, "ag2506"))

	if err := tbl.UpdateMarginRate(7, 0.1, 0.1); err == nil {
		t.Fatalf("expected an error for an unregistered index")
	}
}

func TestLen_CountsRegisteredContracts(t *testing.T) {
	tbl := New()
	if tbl.Len() != 0 {
		t.Fatalf("expected a fresh table to have length 0")
	}
	_ = tbl.Insert(sampleContract(0, "ag2506"))
	_ = tbl.Insert(sampleContract(1, "cu2506"))
	if tbl.Len() != 2 {
		t.Fatalf("expected length 2, got %d", tbl.Len())
	}
}
