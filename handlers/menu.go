package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go_trial/kapehan/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItemDraft is the admin-submitted form for creating or updating a
// menu item. Price arrives as either a JSON number or a string (the form
// sends whatever the input field held), so it is coerced here.
type MenuItemDraft struct {
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

var (
	errMissingName  = errors.New("name is required")
	errMissingImage = errors.New("image is required")
	errBadPrice     = errors.New("price must be a non-negative number")
)

// coercePrice accepts a raw JSON value holding either a number or a
// numeric string and returns it as a float64.
func coercePrice(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		return 0, errBadPrice
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errBadPrice
	}
	return price, nil
}

// Validate checks required fields and returns the item ready for storage.
func (d MenuItemDraft) Validate() (models.MenuItem, error) {
	if strings.TrimSpace(d.Name) == "" {
		return models.MenuItem{}, errMissingName
	}
	if strings.TrimSpace(d.Image) == "" {
		return models.MenuItem{}, errMissingImage
	}
	price, err := coercePrice(d.Price)
	if err != nil {
		return models.MenuItem{}, err
	}
	if price < 0 {
		return models.MenuItem{}, errBadPrice
	}
	return models.MenuItem{
		Name:        strings.TrimSpace(d.Name),
		Price:       price,
		Category:    d.Category,
		Image:       strings.TrimSpace(d.Image),
		Description: d.Description,
	}, nil
}

// GetMenuCategories returns the category choices the admin form offers.
func (db *DB) GetMenuCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.Categories)
}

// GetMenuItems returns the full catalog. Both the ordering flow and the
// admin flow read it; grouping by category is a display concern.
func (db *DB) GetMenuItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items := []models.MenuItem{}

	cursor, err := db.MenuCollection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Failed to fetch menu items", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var item models.MenuItem
		if err := cursor.Decode(&item); err != nil {
			http.Error(w, "Failed to decode menu item", http.StatusInternalServerError)
			return
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Error while iterating over menu items", http.StatusInternalServerError)
		return
	}

	jsonBytes, err := json.Marshal(items)
	if err != nil {
		http.Error(w, "Failed to encode menu items to JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonBytes)
}

func (db *DB) PostMenuItems(w http.ResponseWriter, r *http.Request) {
	var draft MenuItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}

	item, err := draft.Validate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := db.MenuCollection.InsertOne(ctx, item)
	if err != nil {
		log.Printf("Error saving item: %v", err)
		http.Error(w, "Error saving item", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"inserted_id": result.InsertedID})
}

func (db *DB) GetSingleMenuItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	objectID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}

	var singleItem models.MenuItem
	filter := bson.M{"_id": objectID}
	if err := db.MenuCollection.FindOne(context.TODO(), filter).Decode(&singleItem); err != nil {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(singleItem)
}

func (db *DB) PutSingleMenuItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}

	var draft MenuItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}

	item, err := draft.Validate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = db.MenuCollection.ReplaceOne(ctx, bson.M{"_id": id}, item)
	if err != nil {
		log.Printf("Error saving item: %v", err)
		http.Error(w, "Error saving item", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteSingleMenuItem removes a catalog item. Deletion is immediate and
// irreversible; orders keep their own snapshots so history is unaffected.
func (db *DB) DeleteSingleMenuItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	objectID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}

	// Deleting an id that is already gone counts as success
	filter := bson.M{"_id": objectID}
	_, err = db.MenuCollection.DeleteOne(context.TODO(), filter)
	if err != nil {
		log.Printf("Cannot delete menu item: %v", err)
		http.Error(w, "Cannot delete menu item", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Menu item deleted successfully"})
}

func (db *DB) ManageSingleItemHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		db.PutSingleMenuItem(w, r)
	case http.MethodGet:
		db.GetSingleMenuItem(w, r)
	case http.MethodDelete:
		db.DeleteSingleMenuItem(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
