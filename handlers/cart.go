package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go_trial/kapehan/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart aggregates menu item snapshots for one browsing session. Lines hold
// copies of name and price taken at add time; catalog edits after that
// never change a cart.
type Cart struct {
	lines []models.CartLine
}

// Add inserts the snapshot with quantity 1, or increments the quantity of
// an existing line with the same menu item id.
func (c *Cart) Add(line models.CartLine) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == line.MenuItemID {
			c.lines[i].Quantity++
			return
		}
	}
	line.Quantity = 1
	c.lines = append(c.lines, line)
}

// Remove decrements the quantity for the given menu item id, dropping the
// line when it reaches zero. Removing an absent id is a no-op.
func (c *Cart) Remove(menuItemID string) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines[i].Quantity--
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			return
		}
	}
}

// Total is recomputed on every read, never cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy so callers cannot mutate the cart behind its back.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// CartStore owns every active session cart. State is explicit and local
// to the store, not ambient package state.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*Cart)}
}

func (s *CartStore) Add(sessionID string, line models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		cart = &Cart{}
		s.carts[sessionID] = cart
	}
	cart.Add(line)
}

func (s *CartStore) Remove(sessionID, menuItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart, ok := s.carts[sessionID]; ok {
		cart.Remove(menuItemID)
	}
}

// Snapshot returns the current lines and total for a session.
func (s *CartStore) Snapshot(sessionID string) ([]models.CartLine, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		return []models.CartLine{}, 0
	}
	return cart.Lines(), cart.Total()
}

func (s *CartStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

const cartSessionCookie = "cart_session"

// cartSession returns the session id for the request, assigning a new one
// via cookie when the browser has none yet.
func cartSession(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(cartSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     cartSessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

// AddCartItemHandler snapshots a catalog item into the session cart. There
// is no stock check; adding always succeeds once the item resolves.
func (db *DB) AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MenuItemID string `json:"menuItemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	objectID, err := primitive.ObjectIDFromHex(request.MenuItemID)
	if err != nil {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.MenuItem
	if err := db.MenuCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&item); err != nil {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}

	session := cartSession(w, r)
	db.Carts.Add(session, models.CartLine{
		MenuItemID: item.ID.Hex(),
		Name:       item.Name,
		Price:      item.Price,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": item.Name + " added to cart"})
}

func (db *DB) RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	session := cartSession(w, r)
	db.Carts.Remove(session, vars["id"])

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart updated"})
}

func (db *DB) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	session := cartSession(w, r)
	lines, total := db.Carts.Snapshot(session)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items": lines,
		"total": total,
	})
}

func (db *DB) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	session := cartSession(w, r)
	db.Carts.Clear(session)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart cleared"})
}

func (db *DB) CartEndpoint(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		db.GetCartHandler(w, r)
	case http.MethodDelete:
		db.ClearCartHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
