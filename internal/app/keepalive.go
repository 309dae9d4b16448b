/**
 * @description
 * This file implements the self-ping keepalive service. Free-tier hosts idle
 * out processes that receive no traffic; when enabled, this service GETs the
 * configured health URL on a fixed interval to keep the instance warm.
 *
 * The service has an explicit lifecycle: Start spawns the ticker goroutine,
 * Stop cancels it and waits for it to exit.
 */

package app

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"
)

// KeepaliveService periodically pings the service's own health endpoint.
type KeepaliveService struct {
	url      string
	interval time.Duration
	client   *http.Client

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewKeepaliveService creates a keepalive pinger for the given URL.
func NewKeepaliveService(url string, interval time.Duration) *KeepaliveService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &KeepaliveService{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Start launches the ping loop. Calling Start on a running service is a no-op.
func (k *KeepaliveService) Start() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel
	k.done = make(chan struct{})

	log.Printf("level=info component=keepalive msg=\"starting self-ping\" url=%s interval=%s", k.url, k.interval)
	go k.run(ctx, k.done)
}

func (k *KeepaliveService) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.ping(ctx)
		}
	}
}

func (k *KeepaliveService) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		log.Printf("level=error component=keepalive msg=\"ping request build failed\" err=%v", err)
		return
	}
	resp, err := k.client.Do(req)
	if err != nil {
		log.Printf("level=warn component=keepalive msg=\"ping failed\" url=%s err=%v", k.url, err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("level=warn component=keepalive msg=\"ping returned non-200\" url=%s status=%d", k.url, resp.StatusCode)
	}
}

// Stop cancels the ping loop and waits for it to finish. Safe to call on a
// service that was never started.
func (k *KeepaliveService) Stop() {
	k.mu.Lock()
	cancel := k.cancel
	done := k.done
	k.cancel = nil
	k.done = nil
	k.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Printf("level=info component=keepalive msg=\"self-ping stopped\"")
}
