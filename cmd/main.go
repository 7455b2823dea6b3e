package main

import (
	"context"
	"log"
	"net/http"

	"github.com/zbergm/load-board-app/config"
	"github.com/zbergm/load-board-app/handler/httpapi"
	"github.com/zbergm/load-board-app/internal/events"
	"github.com/zbergm/load-board-app/internal/excelsync"
	"github.com/zbergm/load-board-app/service"
	"github.com/zbergm/load-board-app/store"
)

func main() {
	cfg := config.Load()

	// Postgres when configured, in-memory otherwise. The in-memory store keeps
	// local development and demos dependency-free.
	var st store.Store
	if cfg.DB_HOST != "" {
		pg, err := store.NewPostgresStore(cfg.GetDBURL())
		if err != nil {
			log.Fatalf("failed to create store: %v", err)
		}
		if err := pg.InitSchema(context.Background()); err != nil {
			log.Fatalf("failed to init schema: %v", err)
		}
		st = pg
	} else {
		log.Println("DB_HOST not set, using in-memory store")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	var producer events.Publisher = events.NopPublisher{}
	if cfg.KAFKA_BROKER != "" {
		producer = events.NewKafkaPublisher(cfg.KAFKA_BROKER, cfg.KAFKA_TOPIC)
		log.Printf("publishing shipment events to %s (%s)", cfg.KAFKA_BROKER, cfg.KAFKA_TOPIC)
	}
	defer producer.Close()

	svc := service.NewLoadBoardService(st, producer, cfg.ROLLUP_CUSTOMER)
	sync := excelsync.New(st, cfg.EXCEL_FILE_PATH)
	handler := httpapi.New(svc, sync)

	log.Printf("load board API listening on %s", cfg.HTTP_ADDR)
	if err := http.ListenAndServe(cfg.HTTP_ADDR, handler.Routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
