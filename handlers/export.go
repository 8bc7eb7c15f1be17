package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"go_trial/kapehan/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Orders"

var exportHeader = []interface{}{"OrderID", "Date", "Table", "Type", "Status", "Items", "TotalAmount"}

// exportFilename names the workbook after the current month and year,
// e.g. Orders_January_2026.xlsx.
func exportFilename(now time.Time) string {
	return fmt.Sprintf("Orders_%s_%d.xlsx", now.Month().String(), now.Year())
}

// exportRow flattens an order into the spreadsheet's display columns.
func exportRow(order models.Order) []interface{} {
	date := "N/A"
	if !order.CreatedAt.IsZero() {
		date = order.CreatedAt.Format("1/2/2006, 3:04:05 PM")
	}

	table := "N/A"
	if order.TableNumber != nil && *order.TableNumber != "" {
		table = *order.TableNumber
	}

	items := make([]string, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, fmt.Sprintf("%s x%d", line.Name, line.Quantity))
	}

	return []interface{}{
		order.ID.Hex(),
		date,
		table,
		order.OrderType,
		order.Status,
		strings.Join(items, ", "),
		order.TotalAmount,
	}
}

// ExportOrdersHandler serializes the current order list into an xlsx
// workbook with a single "Orders" sheet. Export never mutates orders; it
// is a read-only side channel.
func (db *DB) ExportOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orders, err := db.fetchOrders(ctx, true)
	if err != nil {
		log.Printf("Error querying orders for export: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if len(orders) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "No orders to export yet."})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		http.Error(w, "Failed to build export", http.StatusInternalServerError)
		return
	}
	for i, order := range orders {
		row := exportRow(order)
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			http.Error(w, "Failed to build export", http.StatusInternalServerError)
			return
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "G", 20); err != nil {
		log.Printf("Failed to size export columns: %v", err)
	}

	filename := exportFilename(time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}
