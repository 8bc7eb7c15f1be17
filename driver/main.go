package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go_trial/kapehan/handlers"
	"go_trial/kapehan/middleware"
	"go_trial/kapehan/middleware/logkafka"
	"go_trial/kapehan/telem"
	"go_trial/kapehan/utils"

	"github.com/gorilla/mux"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8000", "listen address")
	logpusher := flag.Bool("logpusher", false, "run the Kafka to Elasticsearch log pusher instead of the API server")
	flag.Parse()

	if *logpusher {
		utils.InitKafkaES()
		return
	}

	// Initialize MongoDB client
	client, err := utils.InitMongoClient()
	if err != nil {
		panic(err)
	}
	defer client.Disconnect(context.TODO())

	// Get database collections
	adminCollection := utils.GetCollection(client, "kapehanDB", "admins")
	menuCollection := utils.GetCollection(client, "kapehanDB", "menu")
	ordersCollection := utils.GetCollection(client, "kapehanDB", "orders")
	notificationCollection := utils.GetCollection(client, "kapehanDB", "notifications")
	refreshTokenCollection := utils.GetCollection(client, "kapehanDB", "sessions")
	tokenBlacklistCollection := utils.GetCollection(client, "kapehanDB", "token_blacklist")
	auditLogCollection := utils.GetCollection(client, "kapehanDB", "audit_log")

	// Create an instance of your DB
	db := &handlers.DB{
		AdminCollection:          adminCollection,
		MenuCollection:           menuCollection,
		OrdersCollection:         ordersCollection,
		NotificationCollection:   notificationCollection,
		RefreshTokenCollection:   refreshTokenCollection,
		TokenBlacklistCollection: tokenBlacklistCollection,
		AuditLogCollection:       auditLogCollection,
		Carts:                    handlers.NewCartStore(),
	}

	handlers.Init()

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		logkafka.InitKafkaWriter(strings.Split(brokers, ","), "kapehan-logs")
		defer logkafka.CloseKafkaWriter()
	}

	shutdownMetrics, err := telem.InitMetrics("kapehan-api")
	if err != nil {
		log.Printf("Metrics disabled: %v", err)
	} else {
		defer shutdownMetrics(context.Background())
	}
	shutdownTracing, err := telem.InitTracing("kapehan-api")
	if err != nil {
		log.Printf("Tracing disabled: %v", err)
	} else {
		defer shutdownTracing(context.Background())
	}

	mainRouter := mux.NewRouter()
	mainRouter.Use(logkafka.LoggingMiddleware)

	// Ordering surface: the home and menu pages read the catalog
	mainRouter.HandleFunc("/", db.GetMenuItems).Methods("GET")
	mainRouter.HandleFunc("/menu", db.GetMenuItems).Methods("GET")

	// Admin credential form posts here
	mainRouter.HandleFunc("/admin-login", db.LoginHandler).Methods("POST")

	// Guarded dashboard entry point
	mainRouter.Handle("/admin", middleware.SessionMiddleware(http.HandlerFunc(db.ListOrdersHandler))).Methods("GET")

	// Define routes open to customers
	customerRouter := mainRouter.PathPrefix("/api").Subrouter()
	customerRouter.HandleFunc("/menu-items", db.GetMenuItems).Methods("GET")
	customerRouter.HandleFunc("/menu-categories", db.GetMenuCategories).Methods("GET")
	customerRouter.HandleFunc("/cart", db.CartEndpoint).Methods("GET", "DELETE")
	customerRouter.HandleFunc("/cart/items", db.AddCartItemHandler).Methods("POST")
	customerRouter.HandleFunc("/cart/items/{id}", db.RemoveCartItemHandler).Methods("DELETE")
	customerRouter.HandleFunc("/orders", db.CheckoutHandler).Methods("POST")
	customerRouter.HandleFunc("/orders/queue", db.QueueStreamHandler).Methods("GET")
	customerRouter.HandleFunc("/auth/refresh", db.RefreshTokenHandler).Methods("POST")

	// Define catalog management routes that also validate the draft body
	menuAdminRouter := mainRouter.PathPrefix("/api").Subrouter()
	menuAdminRouter.Use(middleware.SessionMiddleware, middleware.ValidateMenuItemBody)
	menuAdminRouter.HandleFunc("/menu-items", db.PostMenuItems).Methods("POST")
	menuAdminRouter.HandleFunc("/menu-items/{id}", db.ManageSingleItemHandler).Methods("GET", "PUT", "DELETE")

	// Define routes that require an admin session
	adminRouter := mainRouter.PathPrefix("/api").Subrouter()
	adminRouter.Use(middleware.SessionMiddleware)
	adminRouter.HandleFunc("/orders", db.ListOrdersHandler).Methods("GET")
	adminRouter.HandleFunc("/orders/stream", db.OrderStreamHandler).Methods("GET")
	adminRouter.HandleFunc("/orders/export", db.ExportOrdersHandler).Methods("GET")
	adminRouter.HandleFunc("/orders/{id}/status", db.AdvanceOrderStatusHandler).Methods("PATCH")
	adminRouter.HandleFunc("/notifications", db.ListNotificationsHandler).Methods("GET")
	adminRouter.HandleFunc("/notifications/{id}/read", db.MarkNotificationReadHandler).Methods("POST")
	adminRouter.HandleFunc("/auth/logout", db.LogoutHandler).Methods("POST")
	adminRouter.HandleFunc("/auth/me", db.MeHandler).Methods("GET")

	mainRouter.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "404: Page not found."})
	})

	srv := &http.Server{
		Handler:     mainRouter,
		Addr:        *addr,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the order streams hold their connection open
	}

	log.Printf("Kapehan API listening on %s", *addr)
	log.Fatal(srv.ListenAndServe())
}
