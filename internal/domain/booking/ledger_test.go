package booking

import (
	"errors"
	"testing"
)

func TestIsFree(t *testing.T) {
	ledger := Ledger{"10_05_2024": {"10:00 AM", "11:00 AM"}}

	if IsFree(ledger, "10_05_2024", "10:00 AM") {
		t.Error("expected booked slot to not be free")
	}
	if !IsFree(ledger, "10_05_2024", "12:00 PM") {
		t.Error("expected unbooked time to be free")
	}
	if !IsFree(ledger, "11_05_2024", "10:00 AM") {
		t.Error("expected absent date to be free")
	}
	if !IsFree(Ledger{}, "10_05_2024", "10:00 AM") {
		t.Error("expected empty ledger to be free")
	}
}

func TestReserve(t *testing.T) {
	ledger := Ledger{}

	next, err := Reserve(ledger, "10_05_2024", "10:00 AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next["10_05_2024"]) != 1 || next["10_05_2024"][0] != "10:00 AM" {
		t.Errorf("unexpected ledger state: %v", next)
	}
	if len(ledger) != 0 {
		t.Error("input ledger must not be mutated")
	}

	next2, err := Reserve(next, "10_05_2024", "11:00 AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next2["10_05_2024"]) != 2 {
		t.Errorf("expected 2 slots, got %v", next2)
	}
}

func TestReserve_Conflict(t *testing.T) {
	ledger := Ledger{"10_05_2024": {"10:00 AM"}}
	_, err := Reserve(ledger, "10_05_2024", "10:00 AM")
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestRelease(t *testing.T) {
	ledger := Ledger{"10_05_2024": {"10:00 AM", "11:00 AM"}}

	next := Release(ledger, "10_05_2024", "10:00 AM")
	if len(next["10_05_2024"]) != 1 || next["10_05_2024"][0] != "11:00 AM" {
		t.Errorf("unexpected ledger state: %v", next)
	}
	if len(ledger["10_05_2024"]) != 2 {
		t.Error("input ledger must not be mutated")
	}
	if !IsFree(next, "10_05_2024", "10:00 AM") {
		t.Error("released slot must be free")
	}
}

func TestRelease_Idempotent(t *testing.T) {
	ledger := Ledger{"10_05_2024": {"10:00 AM"}}

	next := Release(ledger, "10_05_2024", "10:00 AM")
	next = Release(next, "10_05_2024", "10:00 AM")
	next = Release(next, "99_99_9999", "10:00 AM")

	if !IsFree(next, "10_05_2024", "10:00 AM") {
		t.Error("repeated release must leave slot free")
	}
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	ledger := Ledger{}

	next, err := Reserve(ledger, "10_05_2024", "10:00 AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next = Release(next, "10_05_2024", "10:00 AM")

	if !IsFree(next, "10_05_2024", "10:00 AM") {
		t.Error("slot must be free after round trip")
	}
}
