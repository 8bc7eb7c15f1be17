package handlers

import (
	"testing"

	"go_trial/kapehan/models"
)

func line(id, name string, price float64) models.CartLine {
	return models.CartLine{MenuItemID: id, Name: name, Price: price}
}

func TestCartAddMergesRepeatedIds(t *testing.T) {
	cart := &Cart{}
	cart.Add(line("a", "Latte", 50))
	cart.Add(line("a", "Latte", 50))
	cart.Add(line("a", "Latte", 50))
	cart.Add(line("b", "Muffin", 30))

	lines := cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected one line per distinct id, got %d lines", len(lines))
	}
	for _, l := range lines {
		switch l.MenuItemID {
		case "a":
			if l.Quantity != 3 {
				t.Errorf("line a quantity = %d, want 3", l.Quantity)
			}
		case "b":
			if l.Quantity != 1 {
				t.Errorf("line b quantity = %d, want 1", l.Quantity)
			}
		default:
			t.Errorf("unexpected line %q", l.MenuItemID)
		}
	}
}

func TestCartRemoveDropsLineAtZero(t *testing.T) {
	cart := &Cart{}
	cart.Add(line("a", "Latte", 50))
	cart.Add(line("a", "Latte", 50))

	cart.Remove("a")
	if got := cart.Lines(); len(got) != 1 || got[0].Quantity != 1 {
		t.Fatalf("after one remove: %+v", got)
	}

	cart.Remove("a")
	if got := cart.Lines(); len(got) != 0 {
		t.Fatalf("line should be gone after removing quantity times, got %+v", got)
	}

	// One extra remove is a no-op, never a negative quantity or an error
	cart.Remove("a")
	if got := cart.Lines(); len(got) != 0 {
		t.Fatalf("extra remove should be a no-op, got %+v", got)
	}
}

func TestCartRemoveAbsentIdIsNoOp(t *testing.T) {
	cart := &Cart{}
	cart.Add(line("a", "Latte", 50))
	cart.Remove("zzz")
	if got := cart.Lines(); len(got) != 1 || got[0].Quantity != 1 {
		t.Fatalf("removing an absent id changed the cart: %+v", got)
	}
}

func TestCartTotal(t *testing.T) {
	cart := &Cart{}
	cart.Add(line("a", "Latte", 50))
	cart.Add(line("a", "Latte", 50))
	cart.Add(line("b", "Muffin", 30))

	if got := cart.Total(); got != 130 {
		t.Errorf("Total() = %v, want 130", got)
	}

	cart.Remove("b")
	if got := cart.Total(); got != 100 {
		t.Errorf("Total() after remove = %v, want 100", got)
	}

	cart.Clear()
	if got := cart.Total(); got != 0 {
		t.Errorf("Total() after clear = %v, want 0", got)
	}
}

func TestCartStoreIsolatesSessions(t *testing.T) {
	store := NewCartStore()
	store.Add("s1", line("a", "Latte", 50))
	store.Add("s2", line("b", "Muffin", 30))

	lines, total := store.Snapshot("s1")
	if len(lines) != 1 || lines[0].MenuItemID != "a" || total != 50 {
		t.Errorf("session s1 snapshot = %+v total %v", lines, total)
	}

	store.Clear("s1")
	if lines, _ := store.Snapshot("s1"); len(lines) != 0 {
		t.Errorf("cleared session still has lines: %+v", lines)
	}
	if lines, _ := store.Snapshot("s2"); len(lines) != 1 {
		t.Errorf("clearing s1 touched s2: %+v", lines)
	}
}
