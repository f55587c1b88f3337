package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/axion/internal/adapter/storage"
	"github.com/rl1809/axion/internal/core/domain"
	"github.com/rl1809/axion/internal/core/service"
	"github.com/rl1809/axion/internal/port"
	logx "github.com/rl1809/axion/pkg/logger"
)

const (
	keyPrefix = "stress:"
	queueSize = 16
)

func main() {
	redisAddr := flag.String("redis", "", "redis address; empty uses the in-memory store")
	workers := flag.Int("workers", 8, "concurrent mutators")
	perWorker := flag.Int("ops", 25, "mutations per worker")
	flag.Parse()

	logx.Init(logx.LoggerOpts{Production: true})
	ctx := context.Background()

	var kv port.KVStore = storage.NewMemoryAdapter()
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logx.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer rdb.Close()

		// Clear previous run
		rdb.Del(ctx, keyPrefix+"axion_products", keyPrefix+"axion_session")
		kv = storage.NewRedisAdapter(rdb)
	}

	repo := storage.NewProductRepository(kv, keyPrefix)
	app := service.NewApp(kv, repo, service.Options{
		KeyPrefix: keyPrefix,
		SyncHold:  800 * time.Millisecond,
		QueueSize: queueSize,
	})

	if err := app.Start(ctx, domain.DefaultProducts()); err != nil {
		logx.Fatal().Err(err).Msg("failed to start")
	}
	if err := app.Login(ctx, true); err != nil {
		logx.Fatal().Err(err).Msg("failed to login")
	}

	var adds, removes atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			for i := 0; i < *perWorker; i++ {
				id := "w" + strconv.Itoa(worker) + "-" + strconv.Itoa(i)
				if err := app.AddProduct(domain.Product{ID: id, Name: id, CurrentPrice: float64(i)}); err == nil {
					adds.Add(1)
				}

				// drop every third product again
				if i%3 == 0 {
					conf, err := app.RequestRemoval(id)
					if err != nil {
						continue
					}
					if removed, _ := app.ResolveRemoval(conf.Token, true); removed {
						removes.Add(1)
					}
				}
			}
		}(w)
	}

	wg.Wait()
	if err := app.Flush(ctx); err != nil {
		logx.Fatal().Err(err).Msg("flush failed")
	}
	elapsed := time.Since(start)

	inMemory, _ := app.Products()
	persisted, err := repo.GetProducts(ctx, nil)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to read persisted list")
	}
	app.Close()

	expected := len(domain.DefaultProducts()) + int(adds.Load()) - int(removes.Load())

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Workers:          %d\n", *workers)
	fmt.Printf("Adds:             %d\n", adds.Load())
	fmt.Printf("Removes:          %d\n", removes.Load())
	fmt.Printf("In-memory size:   %d\n", len(inMemory))
	fmt.Printf("Persisted size:   %d\n", len(persisted))
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	failed := false
	if len(inMemory) != expected {
		fmt.Printf("FAIL: expected %d products in memory, got %d\n", expected, len(inMemory))
		failed = true
	}
	if !sameOrder(inMemory, persisted) {
		fmt.Println("FAIL: persisted list does not match the last mutation")
		failed = true
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("PASS: last write reflects last mutation")
}

func sameOrder(a, b []domain.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
