package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"domainwatch/internal/check"
	"domainwatch/internal/config"
	"domainwatch/internal/db"
	"domainwatch/internal/events"
	"domainwatch/internal/handlers"
	"domainwatch/internal/middleware"
	"domainwatch/internal/notify"
	"domainwatch/internal/settings"
	"domainwatch/internal/version"
	"domainwatch/internal/ws"
)

func main() {
	cfg := config.Load()

	database, err := db.Init(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ Database init failed: %v", err)
	}
	defer database.Close()

	if err := settings.InitSettingsTable(database); err != nil {
		log.Fatalf("❌ Settings init failed: %v", err)
	}
	log.Printf("✅ Database ready (%s)", cfg.DBPath)

	bus := events.NewBus()
	dispatcher := notify.NewDispatcher(nil)
	hub := ws.NewHub(bus)

	orchestrator := check.NewOrchestrator(database, dispatcher, bus, nil)
	scheduler := check.NewScheduler(database, orchestrator)
	scheduler.Start(cfg.CheckOnStart)
	defer scheduler.Stop()

	mux := http.NewServeMux()

	domainHandler := handlers.NewDomainHandler(database)
	mux.HandleFunc("GET /api/domains", domainHandler.ListDomains)
	mux.HandleFunc("POST /api/domains", domainHandler.CreateDomain)
	mux.HandleFunc("GET /api/domains/{id}", domainHandler.GetDomain)
	mux.HandleFunc("PUT /api/domains/{id}", domainHandler.UpdateDomain)
	mux.HandleFunc("DELETE /api/domains/{id}", domainHandler.DeleteDomain)
	mux.HandleFunc("GET /api/domains/{id}/history", domainHandler.GetDomainHistory)

	settingsHandler := handlers.NewSettingsHandler(database)
	mux.HandleFunc("GET /api/settings", settingsHandler.GetAllSettings)
	mux.HandleFunc("GET /api/settings/{category}", settingsHandler.GetSettingsByCategory)
	mux.HandleFunc("PUT /api/settings/{category}/{key}", settingsHandler.UpdateSetting)
	mux.HandleFunc("POST /api/settings/{category}/reset", settingsHandler.ResetCategory)

	channelHandler := handlers.NewChannelHandler(database, dispatcher)
	mux.HandleFunc("GET /api/channels", channelHandler.ListChannels)
	mux.HandleFunc("POST /api/channels", channelHandler.CreateChannel)
	mux.HandleFunc("PUT /api/channels/{id}", channelHandler.UpdateChannel)
	mux.HandleFunc("DELETE /api/channels/{id}", channelHandler.DeleteChannel)
	mux.HandleFunc("POST /api/channels/test", channelHandler.TestChannel)

	checkHandler := handlers.NewCheckHandler(database, scheduler)
	mux.HandleFunc("POST /api/check/run", checkHandler.RunNow)
	mux.HandleFunc("GET /api/check/status", checkHandler.GetStatus)
	mux.HandleFunc("GET /api/status", checkHandler.GetLatestStatuses)

	mux.HandleFunc("GET /api/ws", hub.HandleConnection)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /api/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version":"` + version.Current + `"}`))
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.Logging(middleware.CORS(mux)),
	}

	go func() {
		log.Printf("🌐 Listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Shutdown error: %v", err)
	}
}
