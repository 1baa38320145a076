package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/gcpsettings/internal/auth"
)

// warmToken fetches a token for account in the background so the cached
// token source is ready by the time the account is chosen. It returns a
// channel closed when the attempt finishes.
func warmToken(ctx context.Context, a auth.Authenticator, account string, timeout time.Duration) <-chan struct{} {
	if timeout <= 0 {
		timeout = defaultWarmTimeout
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if _, err := a.Token(reqCtx, account, auth.CloudPrintScope); err != nil {
			log.Printf("token prewarm for %s failed: %v", account, err)
		}
	}()
	return done
}

// waitWarm waits for a prewarm to finish, giving up after limit.
func waitWarm(done <-chan struct{}, limit time.Duration) bool {
	select {
	case <-done:
		return true
	case <-time.After(limit):
		return false
	}
}
