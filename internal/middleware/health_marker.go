package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis keys for request traffic counters, shared with the health collector.
const (
	KeyReqTotal  = "health:global:req_total"
	KeyReqErrors = "health:global:req_errors"
	KeyResTime   = "health:global:res_time_total"
	KeyResCount  = "health:global:res_count"
	KeyStartTime = "health:global:start_time"
	KeyLastReq   = "health:global:last_request"
	KeyErrorLog  = "health:global:error_log"
)

// ErrorLogSize bounds the error log list.
const ErrorLogSize = 50

// TrafficKeys lists every counter key, for resets.
var TrafficKeys = []string{KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq, KeyErrorLog}

// ErrorLogEntry is one failed request recorded in KeyErrorLog.
type ErrorLogEntry struct {
	Time    time.Time `json:"time"`
	TraceID string    `json:"trace_id"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Status  int       `json:"status"`
}

// TrafficMarker records request stats in Redis (skip /, /health*, favicon).
// A nil client disables it. Counter failures are logged and never fail the
// request.
func TrafficMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if rdb == nil || path == "/" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		lastReq := map[string]interface{}{
			"time":   start,
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		}
		b, _ := json.Marshal(lastReq)
		ctx := context.Background()
		pipe := rdb.Pipeline()
		pipe.Set(ctx, KeyLastReq, b, 0)
		pipe.Incr(ctx, KeyReqTotal)
		pipe.SetNX(ctx, KeyStartTime, start.UnixMilli(), 0)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Msg("traffic marker: record request")
		}

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		pipe = rdb.Pipeline()
		pipe.Incr(ctx, KeyResCount)
		pipe.IncrByFloat(ctx, KeyResTime, float64(time.Since(start).Milliseconds()))
		if status >= fiber.StatusInternalServerError {
			entry, _ := json.Marshal(ErrorLogEntry{
				Time:    start,
				TraceID: GetTraceID(c),
				Method:  c.Method(),
				Path:    path,
				Status:  status,
			})
			pipe.Incr(ctx, KeyReqErrors)
			pipe.LPush(ctx, KeyErrorLog, entry)
			pipe.LTrim(ctx, KeyErrorLog, 0, ErrorLogSize-1)
		}
		if _, perr := pipe.Exec(ctx); perr != nil {
			log.Warn().Err(perr).Msg("traffic marker: record response")
		}
		return err
	}
}
