package handler

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seifhassan89/full-stack-user-curd/pkg/database"
)

// MetricsHandler exposes process and pool metrics
type MetricsHandler struct {
	service string
	db      *database.PostgresDB
	started time.Time
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(service string, db *database.PostgresDB) *MetricsHandler {
	return &MetricsHandler{
		service: service,
		db:      db,
		started: time.Now(),
	}
}

// Prometheus renders metrics in the Prometheus text exposition format
// GET /metrics
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	var b strings.Builder

	writeGauge(&b, "process_uptime_seconds", "Time since the process started", time.Since(h.started).Seconds())
	writeGauge(&b, "go_goroutines", "Number of goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "go_memstats_alloc_bytes", "Bytes of allocated heap objects", float64(mem.Alloc))
	writeGauge(&b, "go_memstats_sys_bytes", "Bytes obtained from the OS", float64(mem.Sys))
	writeGauge(&b, "go_memstats_heap_objects", "Number of allocated heap objects", float64(mem.HeapObjects))
	writeGauge(&b, "go_gc_cycles_total", "Completed GC cycles", float64(mem.NumGC))

	if h.db != nil {
		stats := h.db.Stats()
		writeGauge(&b, "pgx_pool_total_conns", "Total connections in the pool", float64(stats.TotalConns()))
		writeGauge(&b, "pgx_pool_idle_conns", "Idle connections in the pool", float64(stats.IdleConns()))
		writeGauge(&b, "pgx_pool_acquired_conns", "Connections currently acquired", float64(stats.AcquiredConns()))
	}

	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

// System renders the same process stats as JSON
// GET /metrics/system
func (h *MetricsHandler) System(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	payload := gin.H{
		"service":       h.service,
		"uptimeSeconds": time.Since(h.started).Seconds(),
		"pid":           os.Getpid(),
		"os":            runtime.GOOS,
		"arch":          runtime.GOARCH,
		"cpus":          runtime.NumCPU(),
		"goroutines":    runtime.NumGoroutine(),
		"memory": gin.H{
			"allocBytes":  mem.Alloc,
			"sysBytes":    mem.Sys,
			"heapObjects": mem.HeapObjects,
			"gcCycles":    mem.NumGC,
		},
	}

	if h.db != nil {
		stats := h.db.Stats()
		payload["databasePool"] = gin.H{
			"totalConns":    stats.TotalConns(),
			"idleConns":     stats.IdleConns(),
			"acquiredConns": stats.AcquiredConns(),
		}
	}

	c.JSON(http.StatusOK, payload)
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n", name, value)
}
