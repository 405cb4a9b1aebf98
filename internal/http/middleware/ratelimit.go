package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRateLimitRPS   = 20
	defaultRateLimitBurst = 40
	defaultVisitorTTL     = 3 * time.Minute
	defaultSweepInterval  = time.Minute
)

type RateLimitConfig struct {
	RPS   float64
	Burst int
	// VisitorTTL is how long an idle caller keeps its token bucket before the
	// sweeper reclaims it.
	VisitorTTL    time.Duration
	SweepInterval time.Duration
}

// ipLimiter hands out one token bucket per caller IP and reclaims idle ones.
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitorEntry
	rps      rate.Limit
	burst    int
	ttl      time.Duration
}

type visitorEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.visitors[ip]
	if !ok {
		entry = &visitorEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (l *ipLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, entry := range l.visitors {
		if time.Since(entry.lastSeen) > l.ttl {
			delete(l.visitors, ip)
		}
	}
}

// RateLimit throttles callers per IP. Idle buckets are swept on an interval
// so the visitor map does not grow with every client that ever connected.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRateLimitRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultRateLimitBurst
	}
	if cfg.VisitorTTL <= 0 {
		cfg.VisitorTTL = defaultVisitorTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	limiter := &ipLimiter{
		visitors: make(map[string]*visitorEntry),
		rps:      rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		ttl:      cfg.VisitorTTL,
	}

	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			limiter.sweep()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(callerIP(r.RemoteAddr)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many requests"},"request_id":"` + GetRequestID(r.Context()) + `"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func callerIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil || host == "" {
		return remoteAddr
	}
	return host
}
