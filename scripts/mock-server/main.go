// Command mock-server serves the in-memory SoundCloud API imitation for manual
// testing of scloud.
//
//	go run ./scripts/mock-server -addr :8080 -client-id ClientIDHash -token tok
//	scloud get /tracks/49931 --scheme http --host localhost --port 8080 --client-id ClientIDHash
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wesleyorama2/scloud/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	clientID := flag.String("client-id", "ClientIDHash", "Client id every request must carry")
	token := flag.String("token", "tok", "Access token required by /me and write operations")
	flag.Parse()

	api := mockapi.New(*clientID, *token)

	server := &http.Server{
		Addr:              *addr,
		Handler:           middleware.Logger(api.Router()),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Printf("Starting mock SoundCloud API on %s", *addr)
	log.Printf("client_id=%s oauth_token=%s", *clientID, *token)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
