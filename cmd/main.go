package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"pacifica-connector/internal/config"
	"pacifica-connector/internal/exchange/pacifica"
)

func main() {
	// Credentials usually live in .env rather than config.yaml
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig("config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if level, err := log.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(level)
	}

	client, err := pacifica.NewClient(cfg.Pacifica)
	if err != nil {
		log.Fatalf("Failed to initialize Pacifica client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	markets, err := client.FetchMarkets(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch markets: %v", err)
	}
	log.Infof("Loaded %d markets", len(markets))

	for _, m := range markets[:min(3, len(markets))] {
		ticker, err := client.FetchTicker(ctx, m.Symbol)
		if err != nil {
			log.Warnf("Ticker %s: %v", m.Symbol, err)
			continue
		}
		rate, err := client.FetchFundingRate(ctx, m.Symbol)
		if err != nil {
			log.Warnf("Funding rate %s: %v", m.Symbol, err)
			continue
		}
		log.Infof("%s last=%.6g mark=%.6g funding=%.6g (%.2f%% annualized)",
			m.Symbol, ticker.Last, ticker.Mark, rate.Rate, rate.Annualized*100)
	}

	balance, err := client.FetchBalance(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch balance: %v", err)
	}
	log.Infof("Balance: %.2f %s free, %.2f used, %.2f total",
		balance.Free, balance.Currency, balance.Used, balance.Total)

	positions, err := client.FetchPositions(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch positions: %v", err)
	}
	for _, p := range positions {
		log.Infof("Position %s %s size=%.6g entry=%.6g mark=%.6g uPnL=%.4f",
			p.Symbol, p.Side, p.Size, p.EntryPrice, p.MarkPrice, p.UnrealizedPnL)
	}
}
