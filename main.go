package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/max-moss-dev/siso/db"
	"github.com/max-moss-dev/siso/handlers"
	"github.com/max-moss-dev/siso/model"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env file")
	}

	conn, err := db.Connect()
	if err != nil {
		log.Fatal("Error initializing database: ", err)
	}

	err = db.MigrationsUp(conn)
	if err != nil {
		log.Fatal("Error running migrations: ", err)
	}

	store := db.NewStore(conn)

	err = store.EnsureDefaultProject(context.Background())
	if err != nil {
		log.Fatal("Error ensuring default project: ", err)
	}

	handlers.Init(store, model.NewClient())

	if os.Getenv("GOENV") == "development" {
		log.Println("In development mode.")
	}

	// Get port from the environment variable or default to 8000
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: routes(),
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server on port %s: %v", port, err)
		}
	}()

	log.Println(color.GreenString("Started server on port " + port))

	sigTermChan := make(chan os.Signal, 1)
	signal.Notify(sigTermChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigTermChan

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v\n", err)
	}
}
