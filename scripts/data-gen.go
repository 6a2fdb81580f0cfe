/*
	Basic script that generates churn-heavy load to fill a daemon's column
	directories with lots of key files for testing.
*/

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/filekv/go-filekv/filekv"
)

const (
	concurrency = 6

	// Fixed universe
	totalKeys   = 100
	totalValues = 100
	numColumns  = 4

	// Per-cycle behavior
	keysPerCycleWrite  = 20
	keysPerCycleDelete = 10
	cyclesPerWorker    = 5000

	sleepBetweenCycles = 10 * time.Millisecond

	progressEvery = 500
)

func main() {
	start := time.Now()
	fmt.Println("Starting FileKV churn-heavy load generator")

	keys := makeKeys(totalKeys)
	values := makeValues(totalValues)

	var g errgroup.Group

	for i := 0; i < concurrency; i++ {
		i := i
		g.Go(func() error {
			return runWorker(i, keys, values)
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Println("Load failed:", err)
		return
	}

	fmt.Printf("Load finished in %v\n", time.Since(start))
}

func runWorker(id int, keys []string, values []string) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))

	client, err := filekv.Connect(filekv.WithDialRetries(5))
	if err != nil {
		return fmt.Errorf("worker %d: connect: %w", id, err)
	}
	defer client.Close()

	for cycle := 1; cycle <= cyclesPerWorker; cycle++ {
		col := uint32(rng.Intn(numColumns))

		// ---- WRITE / OVERWRITE PHASE ----
		for i := 0; i < keysPerCycleWrite; i++ {
			key := keys[rng.Intn(len(keys))]
			val := values[rng.Intn(len(values))]

			if _, err := client.SET(col, key, val); err != nil {
				return fmt.Errorf("worker %d: set: %w", id, err)
			}
		}

		// ---- DELETE PHASE ----
		for i := 0; i < keysPerCycleDelete; i++ {
			key := keys[rng.Intn(len(keys))]

			if _, err := client.DELETE(col, key); err != nil {
				return fmt.Errorf("worker %d: delete: %w", id, err)
			}
		}

		// ---- PREFIX CHURN PHASE (clears a whole key family at once) ----
		prefix := fmt.Sprintf("key-%d", rng.Intn(10))
		if _, err := client.DELPREFIX(col, prefix); err != nil {
			return fmt.Errorf("worker %d: delprefix: %w", id, err)
		}

		if cycle%progressEvery == 0 {
			fmt.Printf("[worker %d] completed %d cycles\n", id, cycle)
		}

		if sleepBetweenCycles > 0 {
			time.Sleep(sleepBetweenCycles)
		}
	}

	return nil
}

func makeKeys(n int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("key-%03d", i)
	}
	return keys
}

func makeValues(n int) []string {
	values := make([]string, n)
	for i := 0; i < n; i++ {
		values[i] = fmt.Sprintf("value-%03d-%s", i, uuid.NewString())
	}
	return values
}
