package models

import "testing"

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		requested string
		wantErr   bool
	}{
		{"pending to acknowledged", StatusPending, StatusAcknowledged, false},
		{"acknowledged to serving", StatusAcknowledged, StatusServing, false},
		{"serving to served", StatusServing, StatusServed, false},
		{"skip from pending to served", StatusPending, StatusServed, true},
		{"skip from pending to serving", StatusPending, StatusServing, true},
		{"backwards from serving", StatusServing, StatusAcknowledged, true},
		{"served is terminal", StatusServed, StatusPending, true},
		{"same status", StatusPending, StatusPending, true},
		{"unknown current", "Cancelled", StatusAcknowledged, true},
		{"unknown requested", StatusPending, "Cancelled", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAdvance(tt.current, tt.requested)
			if (err != nil) != tt.wantErr {
				t.Errorf("CanAdvance(%q, %q) = %v, wantErr %v", tt.current, tt.requested, err, tt.wantErr)
			}
			if err != nil && err != ErrInvalidTransition {
				t.Errorf("CanAdvance returned %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusAcknowledged, StatusServing, StatusServed} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	if ValidStatus("Cancelled") {
		t.Error("ValidStatus accepted a status the workflow does not define")
	}
}

func TestValidOrderType(t *testing.T) {
	if !ValidOrderType(OrderTypeDineIn) || !ValidOrderType(OrderTypeTakeOut) {
		t.Error("known order types rejected")
	}
	if ValidOrderType("Delivery") {
		t.Error("unknown order type accepted")
	}
}
