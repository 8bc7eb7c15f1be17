package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Menu item categories offered by the café. An item saved without a
// category is displayed under "Uncategorized".
var Categories = []string{"Coffee", "Non-Coffee", "Pastry", "Dessert", "Pasta", "Others"}

const UncategorizedLabel = "Uncategorized"

type MenuItem struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Image       string             `json:"image" bson:"image"`
	Description string             `json:"description" bson:"description"`
}

// DisplayCategory returns the category to group the item under.
func (m MenuItem) DisplayCategory() string {
	if m.Category == "" {
		return UncategorizedLabel
	}
	return m.Category
}

// CartLine is a snapshot of a menu item taken at add-time. Price and name
// are copied, not referenced, so later catalog edits never touch a cart.
type CartLine struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// OrderLine is the immutable per-item snapshot stored on an order.
type OrderLine struct {
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

type Order struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderCode   string             `json:"orderCode" bson:"orderCode"`
	OrderType   string             `json:"orderType" bson:"orderType"`
	TableNumber *string            `json:"tableNumber" bson:"tableNumber"`
	Items       []OrderLine        `json:"items" bson:"items"`
	TotalAmount float64            `json:"totalAmount" bson:"totalAmount"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Message   string             `json:"message" bson:"message"`
	OrderID   string             `json:"orderId" bson:"orderId"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
