package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numDevices   = 200
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
	"Mozilla/5.0 (Linux; Android 14; SM-A546E)",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X)",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5)",
}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

// markers holds the dedup markers the server issued for one simulated
// device; feeding them back exercises the repeat-visit path.
type markers struct {
	mu               sync.Mutex
	lastVisitDate    string
	sessionVisitDate string
	fingerprint      string
}

var deviceMarkers [numDevices]markers

func main() {
	fmt.Println("=== rwstats Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Devices: %d\n\n", numWorkers, testDuration, numDevices)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed visits
	fmt.Println("\n--- Phase 1: Seeding visits (POST /visit) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doVisit(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (60% POST, 40% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.60:
			return doVisit(rng)
		case r < 0.75:
			return doGetSummary()
		case r < 0.85:
			return doGetRange(rng)
		case r < 0.95:
			return doGetStats()
		default:
			return doStorageCheck(rng)
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doVisit(rng)
		case r < 0.40:
			return doGetSummary()
		case r < 0.65:
			return doGetRange(rng)
		case r < 0.90:
			return doGetStats()
		default:
			return doStorageCheck(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doVisit(rng *rand.Rand) result {
	device := rng.Intn(numDevices)
	m := &deviceMarkers[device]

	m.mu.Lock()
	body := map[string]interface{}{
		"lastVisitDate":    m.lastVisitDate,
		"sessionVisitDate": m.sessionVisitDate,
		"lastFingerprint":  m.fingerprint,
		"device": map[string]interface{}{
			"userAgent":       userAgents[device%len(userAgents)],
			"language":        "id-ID",
			"screenWidth":     1280 + device,
			"screenHeight":    720,
			"timezoneOffset":  -420,
			"canvasSignature": fmt.Sprintf("canvas_%d", device),
		},
	}
	m.mu.Unlock()

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/visit", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /visit", 0, lat, true}
	}
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	// A counted visit returns fresh markers; store them so this
	// device's next request takes the dedup path.
	if resp.StatusCode == 201 {
		var receipt struct {
			Markers *struct {
				LastVisitDate    string `json:"lastVisitDate"`
				SessionVisitDate string `json:"sessionVisitDate"`
				Fingerprint      string `json:"fingerprint"`
			} `json:"markers"`
		}
		if json.Unmarshal(respBody, &receipt) == nil && receipt.Markers != nil {
			m.mu.Lock()
			m.lastVisitDate = receipt.Markers.LastVisitDate
			m.sessionVisitDate = receipt.Markers.SessionVisitDate
			m.fingerprint = receipt.Markers.Fingerprint
			m.mu.Unlock()
		}
	}

	ok := resp.StatusCode == 200 || resp.StatusCode == 201
	return result{"POST /visit", resp.StatusCode, lat, !ok}
}

func doGetStats() result {
	return doGet("/stats", "GET /stats")
}

func doGetSummary() result {
	return doGet("/stats/summary", "GET /stats/summary")
}

func doGetRange(rng *rand.Rand) result {
	days := []int{7, 30, 90}[rng.Intn(3)]
	return doGet(fmt.Sprintf("/stats/range?days=%d", days), "GET /stats/range")
}

func doGet(path, label string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != 200}
}

func doStorageCheck(rng *rand.Rand) result {
	body := map[string]interface{}{
		"fileSize": rng.Intn(5*1024*1024) + 1,
	}
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/storage/check", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /storage/check", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /storage/check", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
