package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"go_trial/kapehan/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderEvent is the slice of a change stream document the streams care
// about. FullDocument is only populated for inserts and update lookups.
type orderEvent struct {
	OperationType string       `bson:"operationType"`
	FullDocument  models.Order `bson:"fullDocument"`
}

// sweepInterval re-runs the expiry check while a queue stream is open, so
// orders age out even when no write lands to wake the change stream.
const sweepInterval = 15 * time.Second

func writeSSE(w io.Writer, event string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}

// QueueStreamHandler serves the customer-facing live queue as a
// server-sent event stream. Each wakeup re-reads the collection, sweeps
// orders older than OrderTTL and emits the remaining list newest first.
// The sweep only runs while someone has this stream open, matching the
// queue view lifecycle.
func (db *DB) QueueStreamHandler(w http.ResponseWriter, r *http.Request) {
	db.streamOrders(w, r, false)
}

// OrderStreamHandler is the admin dashboard's live subscription: oldest
// first, no sweep, and a dedicated order_added event per insert that the
// dashboard turns into a transient alert.
func (db *DB) OrderStreamHandler(w http.ResponseWriter, r *http.Request) {
	db.streamOrders(w, r, true)
}

func (db *DB) streamOrders(w http.ResponseWriter, r *http.Request, admin bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	changeStream, err := db.OrdersCollection.Watch(ctx, mongo.Pipeline{},
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		log.Printf("Failed to open change stream on orders: %v", err)
		http.Error(w, "Unable to subscribe to orders", http.StatusInternalServerError)
		return
	}
	// The request context may already be done here, so close with a fresh one.
	defer changeStream.Close(context.Background())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := make(chan orderEvent)
	go func() {
		defer close(events)
		for changeStream.Next(ctx) {
			var ev orderEvent
			if err := changeStream.Decode(&ev); err != nil {
				log.Printf("Failed to decode change stream event: %v", err)
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	if err := db.emitOrders(ctx, w, flusher, admin); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if admin && ev.OperationType == "insert" {
				if err := writeSSE(w, "order_added", ev.FullDocument); err != nil {
					return
				}
				flusher.Flush()
			}
			if err := db.emitOrders(ctx, w, flusher, admin); err != nil {
				return
			}
		case <-ticker.C:
			if admin {
				// Only the queue view ages orders out
				continue
			}
			if err := db.emitOrders(ctx, w, flusher, admin); err != nil {
				return
			}
		}
	}
}

// emitOrders pushes a full snapshot of the collection to the client,
// sweeping expired orders first for the customer queue.
func (db *DB) emitOrders(ctx context.Context, w io.Writer, flusher http.Flusher, admin bool) error {
	orders, err := db.fetchOrders(ctx, admin)
	if err != nil {
		log.Printf("Error refreshing orders for stream: %v", err)
		return err
	}

	if !admin {
		expired, active := ExpiredOrders(orders, time.Now())
		db.sweepExpired(ctx, expired)
		orders = active
	}

	if err := writeSSE(w, "orders", orders); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
