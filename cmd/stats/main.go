// Command stats prints an aggregate report over the translation memory:
// record and contribution totals, per-pair and per-domain breakdowns, and
// recent growth. Intended for operators, reads only.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/voicebridge/translation-engine/internal/adapter/postgres"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/contribution"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/langpair"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/record"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/unknown"
	"github.com/voicebridge/translation-engine/internal/app"
	"github.com/voicebridge/translation-engine/internal/config"
	"github.com/voicebridge/translation-engine/internal/memory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	memSvc := memory.NewService(
		logger,
		langpair.New(pool),
		record.New(pool),
		unknown.New(pool),
		contribution.New(pool),
		postgres.NewTxManager(pool),
	)

	stats, err := memSvc.Stats(ctx)
	if err != nil {
		logger.Error("load stats", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Translation memory\n")
	fmt.Printf("  records:            %d\n", stats.TotalRecords)
	fmt.Printf("  user contributions: %d\n", stats.UserContributions)
	fmt.Printf("  pending unknown:    %d\n", stats.PendingUnknown)
	fmt.Printf("  new today:          %d\n", stats.NewToday)
	fmt.Printf("  new this week:      %d\n", stats.NewThisWeek)
	fmt.Printf("  new this month:     %d\n", stats.NewThisMonth)

	fmt.Printf("\nBy language pair\n")
	for _, line := range sortedCounts(stats.PerLanguagePair) {
		fmt.Printf("  %s\n", line)
	}

	fmt.Printf("\nBy domain tag\n")
	for _, line := range sortedCounts(stats.PerDomainTag) {
		fmt.Printf("  %s\n", line)
	}
}

// sortedCounts renders a count map as "key: n" lines, highest count first.
func sortedCounts(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("%s: %d", k, m[k])
	}
	return lines
}
