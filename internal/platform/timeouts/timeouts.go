// Package timeouts defines shared timeout constants for the HTTP and gRPC
// listeners.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Read limits how long an HTTP server waits for a full request body. Audio
// uploads are the largest bodies the service accepts.
const Read = 30 * time.Second

// Idle limits how long keep-alive connections stay open between requests.
const Idle = 2 * time.Minute

// Shutdown limits how long a server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
