package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"pacifica-connector/internal/config"
	"pacifica-connector/pkg/ws"
)

const defaultWSURL = "wss://ws.pacifica.fi/ws"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig("config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	wsURL := cfg.Pacifica.WSURL
	if wsURL == "" {
		wsURL = defaultWSURL
	}

	wsClient := ws.NewPacificaWSClient(wsURL)

	ctx := context.Background()
	if err := wsClient.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer wsClient.Close()

	err = wsClient.Subscribe("prices", func(data json.RawMessage) {
		var prices []ws.PacificaPrice
		if err := json.Unmarshal(data, &prices); err != nil {
			log.Warnf("Failed to decode prices: %v", err)
			return
		}
		for _, p := range prices {
			log.Infof("%s mid=%s mark=%s oracle=%s", p.Symbol, p.Mid, p.Mark, p.Oracle)
		}
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("Shutting down")
}
