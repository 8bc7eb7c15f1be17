package handlers

import (
	"testing"
	"time"

	"go_trial/kapehan/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	if got := exportFilename(now); got != "Orders_August_2026.xlsx" {
		t.Errorf("exportFilename = %q", got)
	}
}

func TestExportRow(t *testing.T) {
	table := "5"
	order := models.Order{
		ID:          primitive.NewObjectID(),
		OrderType:   models.OrderTypeDineIn,
		TableNumber: &table,
		Status:      models.StatusServing,
		TotalAmount: 130,
		CreatedAt:   time.Date(2026, time.August, 30, 14, 5, 9, 0, time.UTC),
		Items: []models.OrderLine{
			{Name: "Latte", Price: 50, Quantity: 2},
			{Name: "Muffin", Price: 30, Quantity: 1},
		},
	}

	row := exportRow(order)
	if len(row) != len(exportHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(exportHeader))
	}
	if row[0] != order.ID.Hex() {
		t.Errorf("OrderID column = %v", row[0])
	}
	if row[1] != "8/30/2026, 2:05:09 PM" {
		t.Errorf("Date column = %v", row[1])
	}
	if row[2] != "5" {
		t.Errorf("Table column = %v", row[2])
	}
	if row[3] != models.OrderTypeDineIn || row[4] != models.StatusServing {
		t.Errorf("Type/Status columns = %v / %v", row[3], row[4])
	}
	if row[5] != "Latte x2, Muffin x1" {
		t.Errorf("Items column = %v", row[5])
	}
	if row[6] != 130.0 {
		t.Errorf("TotalAmount column = %v", row[6])
	}
}

func TestExportRowMissingFields(t *testing.T) {
	order := models.Order{
		ID:        primitive.NewObjectID(),
		OrderType: models.OrderTypeTakeOut,
		Status:    models.StatusPending,
	}

	row := exportRow(order)
	if row[1] != "N/A" {
		t.Errorf("missing createdAt should render N/A, got %v", row[1])
	}
	if row[2] != "N/A" {
		t.Errorf("nil table should render N/A, got %v", row[2])
	}
	if row[5] != "" {
		t.Errorf("no items should render empty string, got %v", row[5])
	}
}
