// matchpreview runs a grant search against a running server and prints the
// normalized match cards as a table. Useful for eyeballing normalizer output
// without the frontend.
//
// Usage:
//
//	go run ./cmd/tools/matchpreview [-server http://localhost:8081] [-query museum]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nmercer/grantscout/internal/config"
	"github.com/nmercer/grantscout/internal/match"
	"github.com/nmercer/grantscout/internal/search"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8081", "grantscout server base URL")
	query := flag.String("query", "", "free-text filter over the normalized cards")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := search.NewClient(*serverURL)
	resp, err := client.SearchGrants(ctx, cfg.DefaultSearchRequest())
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}
	log.Printf("%s mode: %d records", resp.Mode, resp.Count)

	normalizer := match.NewNormalizer()
	cards := normalizer.NormalizeForDisplay(resp.Results)
	cards = match.FilterVisible(cards, func(int64) bool { return false }, *query)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Title", "Funder", "Amount", "Deadline", "Score", "Eligibility"})

	for _, card := range cards {
		title := card.Title
		if runes := []rune(title); len(runes) > 48 {
			title = string(runes[:48]) + "…"
		}
		t.AppendRow(table.Row{
			card.ID, title, card.Funder, card.Amount, card.Deadline,
			card.MatchScore, strings.Join(card.Eligibility, "; "),
		})
	}
	t.Render()
	log.Printf("%d of %d records normalized into cards", len(cards), resp.Count)
}
