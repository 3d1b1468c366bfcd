package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"book-sharing-service/configs"
	"book-sharing-service/internal/daemon"
	"book-sharing-service/internal/db"
	"book-sharing-service/internal/handlers"
	"book-sharing-service/internal/middleware"
	"book-sharing-service/internal/store"
	"book-sharing-service/internal/utils"
	"book-sharing-service/internal/workflow"
)

func main() {
	cfg := configs.LoadConfig()
	db.Connect(cfg.MongoURI)
	utils.InitJwtSecret(cfg.JWTSecret, cfg.TokenExpiryHours)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})

	auditCol := db.GetCollection(cfg.DBName, "audit_logs")
	auditLogger := utils.Logger{Collection: auditCol}

	authHandler := &handlers.AuthHandler{
		UserCollection: db.GetCollection(cfg.DBName, "users"),
		AuditLogger:    auditLogger,
	}
	r.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	stateStore := store.NewBookStateStore(db.GetCollection(cfg.DBName, "book_states"))
	workflowSvc := workflow.NewService(stateStore)

	bookHandler := handlers.NewBookHandler(db.GetCollection(cfg.DBName, "books"), stateStore, auditLogger)
	workflowHandler := handlers.NewBookWorkflowHandler(workflowSvc, auditLogger)

	booksRouter := r.PathPrefix("/").Subrouter()
	booksRouter.Use(middleware.JWTAuthMiddleware)

	booksRouter.HandleFunc("/books", bookHandler.UploadBook).Methods("POST")
	booksRouter.HandleFunc("/books", bookHandler.GetBooks).Methods("GET")
	booksRouter.HandleFunc("/books/{bookId}", bookHandler.GetBook).Methods("GET")
	booksRouter.HandleFunc("/book/state/{bookId}", bookHandler.GetBookState).Methods("GET")

	booksRouter.HandleFunc("/book/request/{bookId}", workflowHandler.RequestBook).Methods("PUT")
	booksRouter.HandleFunc("/book/request/approve/{bookId}/{userId}", workflowHandler.ApproveBookRequest).Methods("PUT")
	booksRouter.HandleFunc("/book/request/reject/{bookId}/{userId}", workflowHandler.RejectBookRequest).Methods("PUT")
	booksRouter.HandleFunc("/book/return/{bookId}", workflowHandler.MarkBookAsReturned).Methods("PUT")
	booksRouter.HandleFunc("/book/return/{bookId}/{userId}", workflowHandler.MarkBookAsReturned).Methods("PUT")
	booksRouter.HandleFunc("/book/lost/{bookId}", workflowHandler.MarkBookAsLost).Methods("PUT")
	booksRouter.HandleFunc("/book/lost/{bookId}/{userId}", workflowHandler.MarkBookAsLost).Methods("PUT")

	exporterCtx, stopExporter := context.WithCancel(context.Background())
	exporter := &daemon.LogExporter{
		Coll:     auditCol,
		Interval: time.Duration(cfg.LogExportIntervalSeconds) * time.Second,
	}
	go exporter.Run(exporterCtx)

	var server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("Server starting on port", cfg.Port)
		log.Fatal(server.ListenAndServe())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	stopExporter()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	db.Disconnect(ctx)
	log.Println("Server shut down.")
}
