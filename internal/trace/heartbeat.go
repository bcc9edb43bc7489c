package trace

import (
	"fmt"
	"sync"
	"time"
)

// StartHeartbeat emits a driver-scope heartbeat every interval until the
// returned stop function is called. A report span that never ends while
// heartbeats keep arriving points at a stuck report. stop is idempotent and
// waits for the emitting goroutine to exit.
func StartHeartbeat(tracer Tracer, interval time.Duration) (stop func()) {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return func() {}
	}

	quit := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		started := time.Now()
		for n := 1; ; n++ {
			select {
			case <-quit:
				return
			case now := <-ticker.C:
				tracer.Emit(&Event{
					Time:   now,
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					GID:    getGoroutineID(),
					Name:   "heartbeat",
					Detail: fmt.Sprintf("#%d", n),
					Extra:  map[string]string{"uptime": now.Sub(started).Round(time.Millisecond).String()},
				})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			<-exited
		})
	}
}
