package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vitos/gifter_levels/internal/domain"
	"github.com/vitos/gifter_levels/internal/infrastructure/storage"
)

func main() {
	dbPath := flag.String("db", "gifter.db", "sqlite database path")
	currency := flag.String("currency", "BRL", "currency code")
	price := flag.Float64("price", 58.45, "price per 1000 coins")
	source := flag.String("source", "test-script", "submission source id")
	list := flag.Bool("list", false, "list stored submissions instead of inserting")
	flag.Parse()

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if *list {
		subs, err := store.ListSubmissions(ctx, *currency)
		if err != nil {
			log.Fatalf("Failed to list submissions: %v", err)
		}
		for _, s := range subs {
			fmt.Printf("%s  %s  %s  %.4f  (%s)\n",
				s.SubmittedAt.Format(time.RFC3339), s.CurrencyCode, s.SourceID, s.PricePer1000, s.DeviceID)
		}
		fmt.Printf("%d submissions for %s\n", len(subs), *currency)
		return
	}

	sub := &domain.PriceSubmission{
		ID:           uuid.NewString(),
		SourceID:     *source,
		DeviceID:     "device_" + uuid.NewString(),
		CurrencyCode: *currency,
		PricePer1000: *price,
		SubmittedAt:  time.Now().UTC(),
	}
	if err := store.InsertSubmission(ctx, sub); err != nil {
		log.Fatalf("Failed to save submission: %v", err)
	}

	fmt.Printf("Submission added: %s %.4f per 1000 (%s)\n", *currency, *price, sub.ID)
}
