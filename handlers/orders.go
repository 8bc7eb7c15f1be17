package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"go_trial/kapehan/models"
	"go_trial/kapehan/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

// OrderTTL is how long an unclaimed order stays visible in the queue
// before the sweep removes it.
const OrderTTL = 2 * time.Minute

var (
	errNoOrderType   = errors.New("Please choose between Dine-In or Take-Out before proceeding.")
	errNoTableNumber = errors.New("Please enter your table number.")
	errEmptyCart     = errors.New("Please add items before checkout.")
	errBadOrderType  = errors.New("Unknown order type.")
	errUnknownStatus = errors.New("Unknown order status.")
)

// validateCheckout enforces every precondition before any write happens.
// A violation blocks submission entirely; no partial order is created.
func validateCheckout(orderType, tableNumber string, lines []models.CartLine) error {
	if orderType == "" {
		return errNoOrderType
	}
	if !models.ValidOrderType(orderType) {
		return errBadOrderType
	}
	if orderType == models.OrderTypeDineIn && tableNumber == "" {
		return errNoTableNumber
	}
	if len(lines) == 0 {
		return errEmptyCart
	}
	return nil
}

// buildOrder snapshots the cart into a new Pending order. The total is
// computed once here and never recomputed, even if catalog prices change.
func buildOrder(lines []models.CartLine, orderType, tableNumber string, now time.Time) models.Order {
	items := make([]models.OrderLine, 0, len(lines))
	var total float64
	for _, line := range lines {
		items = append(items, models.OrderLine{
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
		total += line.Price * float64(line.Quantity)
	}

	var table *string
	if orderType == models.OrderTypeDineIn {
		table = &tableNumber
	}

	return models.Order{
		OrderCode:   utils.GenerateOrderCode(),
		OrderType:   orderType,
		TableNumber: table,
		Items:       items,
		TotalAmount: total,
		Status:      models.StatusPending,
		CreatedAt:   now.UTC(),
	}
}

func notificationMessage(order models.Order) string {
	if order.OrderType == models.OrderTypeDineIn && order.TableNumber != nil {
		return fmt.Sprintf("New Dine-In Order (Table %s)", *order.TableNumber)
	}
	return "New Take-Out Order Received"
}

// CheckoutHandler submits the session cart as a new order. The order and
// its notification are two independent writes; if the notification write
// fails the order still stands and the failure is only logged.
func (db *DB) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, span := otel.Tracer("order-service").Start(r.Context(), "CheckoutHandler")
	defer span.End()

	var request struct {
		OrderType   string `json:"orderType"`
		TableNumber string `json:"tableNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		checkoutCount.WithLabelValues("error").Inc()
		checkoutDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}

	session := cartSession(w, r)
	lines, _ := db.Carts.Snapshot(session)

	if err := validateCheckout(request.OrderType, request.TableNumber, lines); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		checkoutCount.WithLabelValues("error").Inc()
		checkoutDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}

	order := buildOrder(lines, request.OrderType, request.TableNumber, time.Now())

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := db.OrdersCollection.InsertOne(ctx, order)
	if err != nil {
		span.RecordError(err)
		log.Printf("Failed to create order: %v", err)
		http.Error(w, "Order Failed", http.StatusInternalServerError)
		checkoutCount.WithLabelValues("error").Inc()
		checkoutDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}

	orderID := ""
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		orderID = oid.Hex()
	}

	// Best-effort notification write; there is no transaction tying it to
	// the order insert.
	_, err = db.NotificationCollection.InsertOne(ctx, models.Notification{
		Message:   notificationMessage(order),
		OrderID:   orderID,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to record notification for order %s: %v", orderID, err)
	}

	db.Carts.Clear(session)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"message":   "Order placed successfully",
		"orderId":   orderID,
		"orderCode": order.OrderCode,
	})
	checkoutCount.WithLabelValues("success").Inc()
	checkoutDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
}

// fetchOrders reads the full orders collection sorted by creation time.
// The queue view wants newest first; the admin dashboard oldest first.
func (db *DB) fetchOrders(ctx context.Context, ascending bool) ([]models.Order, error) {
	direction := -1
	if ascending {
		direction = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: direction}})

	cursor, err := db.OrdersCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

//Get Orders Endpoint for the admin dashboard

func (db *DB) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orders, err := db.fetchOrders(ctx, true)
	if err != nil {
		log.Printf("Error querying orders: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	jsonBytes, err := json.Marshal(orders)
	if err != nil {
		log.Printf("Failed to encode orders to JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonBytes)
}

// AdvanceOrderStatusHandler moves an order one step along the workflow:
// Pending -> Acknowledged -> Serving -> Served. Requests that skip a step,
// move backwards or leave the terminal state are rejected outright.
func (db *DB) AdvanceOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := r.Context().Value("adminEmail").(string)

	vars := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var request struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if !models.ValidStatus(request.Status) {
		http.Error(w, errUnknownStatus.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := models.CanAdvance(order.Status, request.Status); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	_, err = db.OrdersCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{"status": request.Status}})
	if err != nil {
		log.Printf("Failed to update order status: %v", err)
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}

	//Log the status change for auditing

	statusLog := bson.M{
		"email":     email,
		"orderId":   orderID.Hex(),
		"from":      order.Status,
		"to":        request.Status,
		"operation": "status-advance",
		"timestamp": time.Now().Unix(),
	}
	if _, err := db.AuditLogCollection.InsertOne(ctx, statusLog); err != nil {
		log.Printf("Failed to log status change: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Order marked as " + request.Status})
}

// ExpiredOrders partitions a snapshot of orders by age against now. It is
// a pure computation; the deletion effect is issued separately so that
// concurrent sweeps from multiple viewers stay safe.
func ExpiredOrders(orders []models.Order, now time.Time) (expired, active []models.Order) {
	for _, order := range orders {
		if !order.CreatedAt.IsZero() && now.Sub(order.CreatedAt) > OrderTTL {
			expired = append(expired, order)
		} else {
			active = append(active, order)
		}
	}
	return expired, active
}

// sweepExpired deletes each expired order by id. Delete of an id another
// viewer already removed reports zero deletions and counts as success.
func (db *DB) sweepExpired(ctx context.Context, expired []models.Order) {
	for _, order := range expired {
		_, err := db.OrdersCollection.DeleteOne(ctx, bson.M{"_id": order.ID})
		if err != nil {
			log.Printf("Error deleting expired order %s: %v", order.ID.Hex(), err)
			continue
		}
		log.Printf("Deleted expired order: %s", order.ID.Hex())
	}
}
