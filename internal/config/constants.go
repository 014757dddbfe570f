package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Hub sizing. The command queue is bounded; a full queue pushes back on
// connection handlers instead of growing without limit.
const (
	HubCommandQueueSize = 256
	ClientFrameBuffer   = 64
)

// WebSocket connection limits
const (
	WSWriteWait      = 10 * time.Second
	WSPongWait       = 60 * time.Second
	WSPingPeriod     = 54 * time.Second
	WSMaxMessageSize = 16 * 1024
)

// Background job intervals
const CleanupJobInterval = 1 * time.Hour
