// backend-go/cmd/ingestd/main.go
//
// ingestd is the standalone ingestion daemon. It serves a small trigger API
// and, when Drive credentials are configured, polls the shared folder for new
// sales exports.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/drive"
	"github.com/shopops/opsdash/backend-go/internal/ingest"
	"github.com/shopops/opsdash/backend-go/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	salesRepo := postgres.NewSalesRepository(db)
	orchestrator := ingest.NewOrchestrator(salesRepo, ingest.Config{WorkerCount: 4})

	r := mux.NewRouter()

	r.HandleFunc("/ingest/run", func(w http.ResponseWriter, req *http.Request) {
		dir := req.URL.Query().Get("dir")
		if dir == "" {
			dir = cfg.App.DataDir
		}
		if err := orchestrator.RunDir(req.Context(), dir); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "dir": dir})
	}).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	if cfg.Drive.CredentialsJSON != "" {
		driveService, err := drive.NewService(context.Background(), cfg.Drive.CredentialsJSON)
		if err != nil {
			log.Fatalf("Failed to initialize Google Drive service: %v", err)
		}

		watcher := drive.NewWatcher(driveService, drive.WatchOptions{
			FolderID:    cfg.Drive.FolderID,
			DownloadDir: cfg.App.DataDir,
			Interval:    15 * time.Minute,
		}, func(ctx context.Context, paths []string) error {
			return orchestrator.Run(ctx, paths)
		})

		r.HandleFunc("/drive/sync", func(w http.ResponseWriter, req *http.Request) {
			if err := watcher.SyncOnce(req.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}).Methods("POST")

		go func() {
			if err := watcher.Run(context.Background()); err != nil && err != context.Canceled {
				log.Printf("drive watcher stopped: %v", err)
			}
		}()
	} else {
		log.Println("GOOGLE_DRIVE_CREDENTIALS_JSON not set, drive sync disabled")
	}

	addr := fmt.Sprintf(":%s", portOrDefault(cfg.Server.Port))
	log.Printf("ingestd starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func portOrDefault(port string) string {
	if p := os.Getenv("INGESTD_PORT"); p != "" {
		return p
	}
	if port == "" {
		return "8081"
	}
	return port
}
