package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/dustin/go-humanize"
)

type Config struct {
	Documents   int
	Vocabulary  int
	Concurrency int
	Duration    time.Duration
	WriteRatio  float64
	Policy      executor.Policy
}

type Stats struct {
	totalRequests atomic.Int64
	hitCount      atomic.Int64
	zeroCount     atomic.Int64
	errorCount    atomic.Int64
	addCount      atomic.Int64
	latencies     []time.Duration
	latenciesMu   sync.Mutex
}

func NewStats() *Stats {
	return &Stats{latencies: make([]time.Duration, 0, 100000)}
}

func (s *Stats) RecordQuery(duration time.Duration, results int, err error) {
	s.totalRequests.Add(1)
	switch {
	case err != nil:
		s.errorCount.Add(1)
		return
	case results == 0:
		s.zeroCount.Add(1)
	default:
		s.hitCount.Add(1)
	}
	s.latenciesMu.Lock()
	s.latencies = append(s.latencies, duration)
	s.latenciesMu.Unlock()
}

func main() {
	docs := flag.Int("docs", 20000, "documents indexed before the run")
	vocab := flag.Int("vocab", 2000, "distinct words in the synthetic corpus")
	concurrency := flag.Int("concurrency", 8, "number of concurrent workers")
	duration := flag.Duration("duration", 10*time.Second, "test duration")
	writeRatio := flag.Float64("write-ratio", 0.05, "fraction of operations that add a document")
	policyName := flag.String("policy", "sequential", "query policy: sequential or parallel")
	flag.Parse()

	policy, err := executor.ParsePolicy(*policyName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := Config{
		Documents:   *docs,
		Vocabulary:  *vocab,
		Concurrency: *concurrency,
		Duration:    *duration,
		WriteRatio:  *writeRatio,
		Policy:      policy,
	}

	fmt.Println("=== Search Server Load Test ===")
	fmt.Printf("Documents:   %s\n", humanize.Comma(int64(cfg.Documents)))
	fmt.Printf("Vocabulary:  %s words\n", humanize.Comma(int64(cfg.Vocabulary)))
	fmt.Printf("Concurrency: %d\n", cfg.Concurrency)
	fmt.Printf("Duration:    %s\n", cfg.Duration)
	fmt.Printf("Policy:      %s\n", cfg.Policy)
	fmt.Println()

	engine, err := buildEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building corpus: %v\n", err)
		os.Exit(1)
	}
	stats := runLoadTest(cfg, engine)
	printReport(stats, cfg.Duration)
}

func word(i int) string {
	return fmt.Sprintf("w%d", i)
}

func randomText(rng *rand.Rand, vocab, n int) string {
	words := make([]string, n)
	for i := range words {
		// Square the draw so low-numbered words are common, like real text.
		f := rng.Float64()
		words[i] = word(int(f * f * float64(vocab)))
	}
	return strings.Join(words, " ")
}

func buildEngine(cfg Config) (*indexer.Guarded, error) {
	e, err := indexer.New([]string{word(0), word(1)})
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(1))
	start := time.Now()
	for id := 0; id < cfg.Documents; id++ {
		text := randomText(rng, cfg.Vocabulary, 5+rng.Intn(40))
		ratings := []int{rng.Intn(10), rng.Intn(10)}
		if err := e.AddDocument(id, text, index.StatusActual, ratings); err != nil {
			return nil, err
		}
	}
	s := e.Stats()
	fmt.Printf("Indexed %s documents (%s terms, %s interned) in %s\n\n",
		humanize.Comma(int64(s.LiveDocuments)),
		humanize.Comma(int64(s.Terms)),
		humanize.Bytes(uint64(s.InternedBytes)),
		time.Since(start).Round(time.Millisecond),
	)
	return indexer.NewGuarded(e), nil
}

func runLoadTest(cfg Config, engine *indexer.Guarded) *Stats {
	stats := NewStats()
	var nextID atomic.Int64
	nextID.Store(int64(cfg.Documents))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	var wg sync.WaitGroup
	fmt.Print("Running")

	for w := 0; w < cfg.Concurrency; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(workerID) + 100))

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if rng.Float64() < cfg.WriteRatio {
					id := int(nextID.Add(1))
					if err := engine.AddDocument(id, randomText(rng, cfg.Vocabulary, 20), index.StatusActual, nil); err == nil {
						stats.addCount.Add(1)
					}
					continue
				}

				query := randomText(rng, cfg.Vocabulary, 1+rng.Intn(4))
				if rng.Intn(3) == 0 {
					query += " -" + word(rng.Intn(cfg.Vocabulary))
				}
				start := time.Now()
				docs, err := engine.FindTopDocuments(query, indexer.WithPolicy(cfg.Policy))
				stats.RecordQuery(time.Since(start), len(docs), err)
			}
		}(w)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Print(".")
			}
		}
	}()

	wg.Wait()
	fmt.Println(" done!")
	fmt.Println()
	return stats
}

func printReport(stats *Stats, duration time.Duration) {
	total := stats.totalRequests.Load()
	errors := stats.errorCount.Load()

	fmt.Println("=== Results ===")
	fmt.Printf("Total Queries:   %s\n", humanize.Comma(total))
	fmt.Printf("With Results:    %s\n", humanize.Comma(stats.hitCount.Load()))
	fmt.Printf("No Results:      %s\n", humanize.Comma(stats.zeroCount.Load()))
	fmt.Printf("Errors:          %s\n", humanize.Comma(errors))
	fmt.Printf("Documents Added: %s\n", humanize.Comma(stats.addCount.Load()))

	if total > 0 {
		errorRate := float64(errors) / float64(total) * 100
		fmt.Printf("Error Rate:      %.2f%%\n", errorRate)
		qps := float64(total) / duration.Seconds()
		fmt.Printf("Queries/sec:     %.2f\n", qps)
	}

	stats.latenciesMu.Lock()
	latencies := make([]time.Duration, len(stats.latencies))
	copy(latencies, stats.latencies)
	stats.latenciesMu.Unlock()

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool {
			return latencies[i] < latencies[j]
		})

		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		avg := sum / time.Duration(len(latencies))

		fmt.Println()
		fmt.Println("=== Latency ===")
		fmt.Printf("Min:    %s\n", latencies[0])
		fmt.Printf("Avg:    %s\n", avg)
		fmt.Printf("P50:    %s\n", percentile(latencies, 50))
		fmt.Printf("P90:    %s\n", percentile(latencies, 90))
		fmt.Printf("P95:    %s\n", percentile(latencies, 95))
		fmt.Printf("P99:    %s\n", percentile(latencies, 99))
		fmt.Printf("Max:    %s\n", latencies[len(latencies)-1])

		var sumSquared float64
		avgFloat := float64(avg)
		for _, l := range latencies {
			diff := float64(l) - avgFloat
			sumSquared += diff * diff
		}
		stddev := time.Duration(math.Sqrt(sumSquared / float64(len(latencies))))
		fmt.Printf("StdDev: %s\n", stddev)
	}

	if total == 0 {
		fmt.Println()
		fmt.Println("WARNING: No queries completed.")
		os.Exit(1)
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
