// Command kvload generates synthetic load against a kvstore server and
// reports aggregate throughput and latency.
//
// Workloads:
//
//	put_all      100% PUTs, random keys, 100KB values (write/disk bound)
//	get_all      100% GETs, random keys (cache-miss bound)
//	get_popular  100% GETs over 10 hot keys (cache-hit bound)
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const bigValueSize = 100 * 1024

// workloadFunc issues one request and reports whether it counts as
// completed.
type workloadFunc func(client *http.Client, base string) bool

func main() {
	threads := flag.Int("threads", 4, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "how long to run")
	workload := flag.String("workload", "", "workload kind: put_all | get_all | get_popular")
	host := flag.String("host", "127.0.0.1", "target host")
	port := flag.Int("port", 8080, "target port")
	flag.Parse()

	if *threads <= 0 || *duration <= 0 {
		fmt.Fprintln(os.Stderr, "Error: threads and duration must be positive.")
		os.Exit(1)
	}

	work, err := selectWorkload(*workload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	base := fmt.Sprintf("http://%s:%d", *host, *port)

	fmt.Println("--- Load Generator Started ---")
	fmt.Printf("Threads:   %d\n", *threads)
	fmt.Printf("Duration:  %s\n", *duration)
	fmt.Printf("Workload:  %s\n", *workload)
	fmt.Printf("Target:    %s\n", base)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, timeout := context.WithTimeout(ctx, *duration)
	defer timeout()

	s := &stats{}
	start := time.Now()

	var wg sync.WaitGroup
	for range *threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, base, work, s)
		}()
	}
	wg.Wait()

	report(s.summarize(time.Since(start)))
}

// worker loops one workload until the run context is canceled. Each
// worker owns its HTTP client so connection reuse does not serialize
// workers on a shared transport.
func worker(ctx context.Context, base string, work workloadFunc, s *stats) {
	client := &http.Client{Timeout: 5 * time.Second}

	for ctx.Err() == nil {
		s.recordAttempt()
		start := time.Now()
		if work(client, base) {
			s.recordSuccess(time.Since(start))
		}
	}
}

func selectWorkload(kind string) (workloadFunc, error) {
	switch kind {
	case "put_all":
		// One large value per process is enough; the server treats the
		// body as opaque bytes.
		value := randomString(bigValueSize)
		return func(client *http.Client, base string) bool {
			return workloadPutAll(client, base, value)
		}, nil
	case "get_all":
		return workloadGetAll, nil
	case "get_popular":
		return workloadGetPopular, nil
	default:
		return nil, fmt.Errorf("unknown workload kind %q", kind)
	}
}

// workloadPutAll writes large values under always-fresh keys.
func workloadPutAll(client *http.Client, base, value string) bool {
	key := "key_put_" + uuid.NewString()

	req, err := http.NewRequest(http.MethodPut, base+"/kv/"+key, strings.NewReader(value))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "text/plain")

	status, ok := send(client, req)
	return ok && status == http.StatusOK
}

// workloadGetAll reads always-fresh keys; every request misses the
// cache and most miss the store, so 404 counts as completed.
func workloadGetAll(client *http.Client, base string) bool {
	key := "key_get_all_" + uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, base+"/kv/"+key, nil)
	if err != nil {
		return false
	}

	status, ok := send(client, req)
	return ok && (status == http.StatusOK || status == http.StatusNotFound)
}

// workloadGetPopular hammers a set of 10 hot keys; only a hit counts.
func workloadGetPopular(client *http.Client, base string) bool {
	key := fmt.Sprintf("key_popular_%d", rand.IntN(10))

	req, err := http.NewRequest(http.MethodGet, base+"/kv/"+key, nil)
	if err != nil {
		return false
	}

	status, ok := send(client, req)
	return ok && status == http.StatusOK
}

func send(client *http.Client, req *http.Request) (int, bool) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, false
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, true
}

const alphanum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanum[rand.IntN(len(alphanum))]
	}
	return string(b)
}

func report(sum summary) {
	fmt.Println("--- Results ---")
	fmt.Printf("Attempted:   %d\n", sum.Attempted)
	fmt.Printf("Completed:   %d\n", sum.Completed)
	fmt.Printf("Throughput:  %.1f req/s\n", sum.Throughput)
	fmt.Printf("Avg latency: %s\n", sum.AvgLatency)
}
