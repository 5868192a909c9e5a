package health

import (
	"context"
	"encoding/json"
	"errors"
	"runtime"
	"strconv"
	"time"

	"coown-backend/internal/infrastructure/persistence"
	"coown-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Dependency states.
const (
	StatusConnected    = "connected"
	StatusError        = "error"
	StatusDisabled     = "disabled"
	StatusDisconnected = "disconnected"
)

var ErrNoRedis = errors.New("Traffic counters are not configured")

// DBPinger is optional for health check. If nil, the database is reported as disabled.
type DBPinger interface {
	Ping() error
}

// PersistenceStats is the view of the snapshot writer the collector needs.
type PersistenceStats interface {
	Adapter() persistence.Adapter
	Stats() persistence.WriterStats
}

// Deps are the collaborators a health check inspects. Any of them may be nil.
type Deps struct {
	Rdb         *redis.Client
	DB          DBPinger
	Persistence PersistenceStats
}

// CollectResult is the shape of /health/json.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Persistence  PersistenceInfo      `json:"persistence"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapInMB int `json:"heapInuseMb"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime string      `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type PersistenceInfo struct {
	Backend string                   `json:"backend"`
	Writer  *persistence.WriterStats `json:"writer,omitempty"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

var processStart = time.Now()

// CollectHealth gathers health data from Redis, the database and the
// snapshot writer. Overall status is "ok" unless a configured dependency
// fails its ping or the most recent snapshot save failed.
func CollectHealth(ctx context.Context, deps Deps) CollectResult {
	result := CollectResult{
		Status:       "ok",
		Dependencies: make(map[string]DepStatus),
		Traffic:      TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"},
		Persistence:  PersistenceInfo{Backend: "none"},
	}

	db := DepStatus{Status: StatusDisabled}
	if deps.DB != nil {
		db = ping(func() error { return deps.DB.Ping() })
	}
	result.Dependencies["database"] = db

	rs := DepStatus{Status: StatusDisabled}
	startMs := processStart.UnixMilli()
	if deps.Rdb != nil {
		rs = ping(func() error { return deps.Rdb.Ping(ctx).Err() })
		if rs.Status == StatusConnected {
			result.Traffic, startMs = readTraffic(ctx, deps.Rdb, startMs)
		}
	}
	result.Dependencies["redis"] = rs

	if deps.Persistence != nil {
		stats := deps.Persistence.Stats()
		result.Persistence = PersistenceInfo{Backend: deps.Persistence.Adapter().Name(), Writer: &stats}
		if stats.LastError != "" {
			result.Status = "issue"
		}
	}

	for _, d := range result.Dependencies {
		if d.Status == StatusError {
			result.Status = "issue"
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapInMB: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}
	return result
}

func ping(fn func() error) DepStatus {
	start := time.Now()
	if err := fn(); err != nil {
		return DepStatus{Status: StatusError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: StatusConnected, PingMs: &ms}
}

func readTraffic(ctx context.Context, rdb *redis.Client, startMs int64) (TrafficInfo, int64) {
	stats := TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"}
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq,
	).Result()
	if err != nil {
		return stats, startMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	if count, _ := strconv.Atoi(str(3)); count > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if t, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		startMs = t
	}
	if last := str(5); last != "" {
		var lastReq map[string]interface{}
		if json.Unmarshal([]byte(last), &lastReq) == nil {
			stats.LastRequest = lastReq
		}
	}
	return stats, startMs
}

// ResetTraffic clears the counters and restarts the uptime clock.
func ResetTraffic(ctx context.Context, rdb *redis.Client) error {
	if rdb == nil {
		return ErrNoRedis
	}
	if err := rdb.Del(ctx, middleware.TrafficKeys...).Err(); err != nil {
		return err
	}
	return rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err()
}

// RecentErrors returns up to n entries of the error log, newest first.
func RecentErrors(ctx context.Context, rdb *redis.Client, n int) ([]middleware.ErrorLogEntry, error) {
	out := []middleware.ErrorLogEntry{}
	if rdb == nil {
		return out, nil
	}
	raw, err := rdb.LRange(ctx, middleware.KeyErrorLog, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	for _, r := range raw {
		var e middleware.ErrorLogEntry
		if json.Unmarshal([]byte(r), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}
