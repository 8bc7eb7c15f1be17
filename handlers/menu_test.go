package handlers

import (
	"encoding/json"
	"testing"
)

func TestMenuItemDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   MenuItemDraft
		wantErr error
	}{
		{
			"valid with numeric price",
			MenuItemDraft{Name: "Latte", Price: json.RawMessage(`50`), Image: "https://img/latte.jpg", Category: "Coffee"},
			nil,
		},
		{
			"valid with string price",
			MenuItemDraft{Name: "Latte", Price: json.RawMessage(`"49.50"`), Image: "https://img/latte.jpg"},
			nil,
		},
		{
			"missing name",
			MenuItemDraft{Name: "  ", Price: json.RawMessage(`50`), Image: "https://img/latte.jpg"},
			errMissingName,
		},
		{
			"missing image",
			MenuItemDraft{Name: "Latte", Price: json.RawMessage(`50`)},
			errMissingImage,
		},
		{
			"negative price",
			MenuItemDraft{Name: "Latte", Price: json.RawMessage(`-1`), Image: "https://img/latte.jpg"},
			errBadPrice,
		},
		{
			"unparseable price",
			MenuItemDraft{Name: "Latte", Price: json.RawMessage(`"cheap"`), Image: "https://img/latte.jpg"},
			errBadPrice,
		},
		{
			"null price",
			MenuItemDraft{Name: "Latte", Price: json.RawMessage(`null`), Image: "https://img/latte.jpg"},
			errBadPrice,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := tt.draft.Validate()
			if err != tt.wantErr {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && item.Name == "" {
				t.Error("valid draft produced an empty item")
			}
		})
	}
}

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{`50`, 50, false},
		{`49.5`, 49.5, false},
		{`"50"`, 50, false},
		{`" 49.5"`, 0, true},
		{`""`, 0, true},
		{`null`, 0, true},
		{`"abc"`, 0, true},
	}
	for _, tt := range tests {
		got, err := coercePrice(json.RawMessage(tt.raw))
		if (err != nil) != tt.wantErr {
			t.Errorf("coercePrice(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("coercePrice(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestUncategorizedFallback(t *testing.T) {
	draft := MenuItemDraft{Name: "Mystery", Price: json.RawMessage(`10`), Image: "https://img/x.jpg"}
	item, err := draft.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := item.DisplayCategory(); got != "Uncategorized" {
		t.Errorf("DisplayCategory() = %q, want Uncategorized", got)
	}
}
