package handlers

import (
	"testing"
	"time"

	"go_trial/kapehan/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateCheckout(t *testing.T) {
	lines := []models.CartLine{{MenuItemID: "a", Name: "Latte", Price: 50, Quantity: 2}}

	tests := []struct {
		name        string
		orderType   string
		tableNumber string
		lines       []models.CartLine
		wantErr     error
	}{
		{"no order type", "", "", lines, errNoOrderType},
		{"unknown order type", "Delivery", "", lines, errBadOrderType},
		{"dine-in without table", models.OrderTypeDineIn, "", lines, errNoTableNumber},
		{"empty cart", models.OrderTypeTakeOut, "", nil, errEmptyCart},
		{"valid take-out", models.OrderTypeTakeOut, "", lines, nil},
		{"valid dine-in", models.OrderTypeDineIn, "4", lines, nil},
		{"take-out ignores table", models.OrderTypeTakeOut, "4", lines, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCheckout(tt.orderType, tt.tableNumber, tt.lines)
			if err != tt.wantErr {
				t.Errorf("validateCheckout() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildOrderSnapshotsCart(t *testing.T) {
	lines := []models.CartLine{
		{MenuItemID: "a", Name: "Latte", Price: 50, Quantity: 2},
		{MenuItemID: "b", Name: "Muffin", Price: 30, Quantity: 1},
	}
	now := time.Now()

	order := buildOrder(lines, models.OrderTypeTakeOut, "", now)

	if order.TotalAmount != 130 {
		t.Errorf("TotalAmount = %v, want 130", order.TotalAmount)
	}
	if order.Status != models.StatusPending {
		t.Errorf("Status = %q, want Pending", order.Status)
	}
	if order.TableNumber != nil {
		t.Errorf("TableNumber = %v, want nil for Take-Out", *order.TableNumber)
	}
	if len(order.OrderCode) != 5 {
		t.Errorf("OrderCode = %q, want 5 characters", order.OrderCode)
	}
	if len(order.Items) != 2 {
		t.Fatalf("Items has %d entries, want 2", len(order.Items))
	}
	if order.Items[0].Name != "Latte" || order.Items[0].Price != 50 || order.Items[0].Quantity != 2 {
		t.Errorf("first item snapshot = %+v", order.Items[0])
	}
	if !order.CreatedAt.Equal(now.UTC()) {
		t.Errorf("CreatedAt = %v, want %v", order.CreatedAt, now.UTC())
	}
}

func TestBuildOrderKeepsDineInTable(t *testing.T) {
	lines := []models.CartLine{{MenuItemID: "a", Name: "Latte", Price: 50, Quantity: 1}}
	order := buildOrder(lines, models.OrderTypeDineIn, "7", time.Now())
	if order.TableNumber == nil || *order.TableNumber != "7" {
		t.Errorf("TableNumber = %v, want 7", order.TableNumber)
	}
}

func TestNotificationMessage(t *testing.T) {
	table := "3"
	dineIn := models.Order{OrderType: models.OrderTypeDineIn, TableNumber: &table}
	if got := notificationMessage(dineIn); got != "New Dine-In Order (Table 3)" {
		t.Errorf("dine-in message = %q", got)
	}
	takeOut := models.Order{OrderType: models.OrderTypeTakeOut}
	if got := notificationMessage(takeOut); got != "New Take-Out Order Received" {
		t.Errorf("take-out message = %q", got)
	}
}

func TestExpiredOrders(t *testing.T) {
	now := time.Now()
	fresh := models.Order{ID: primitive.NewObjectID(), CreatedAt: now.Add(-time.Minute)}
	stale := models.Order{ID: primitive.NewObjectID(), CreatedAt: now.Add(-3 * time.Minute)}
	boundary := models.Order{ID: primitive.NewObjectID(), CreatedAt: now.Add(-OrderTTL)}
	noStamp := models.Order{ID: primitive.NewObjectID()}

	expired, active := ExpiredOrders([]models.Order{fresh, stale, boundary, noStamp}, now)

	if len(expired) != 1 || expired[0].ID != stale.ID {
		t.Errorf("expired = %+v, want only the 3-minute-old order", expired)
	}
	// Exactly OrderTTL old is not yet past the threshold; orders missing a
	// server timestamp are kept rather than swept.
	if len(active) != 3 {
		t.Errorf("active has %d orders, want 3", len(active))
	}
}

func TestExpiredOrdersEmptySnapshot(t *testing.T) {
	expired, active := ExpiredOrders(nil, time.Now())
	if len(expired) != 0 || len(active) != 0 {
		t.Errorf("empty snapshot produced expired=%v active=%v", expired, active)
	}
}
