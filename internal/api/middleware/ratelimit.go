package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

// idleTTL через сколько неактивный клиент удаляется из таблицы лимитеров
const idleTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов к публичным ручкам по IP клиента
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now

	l.evictIdle(now)

	return c.limiter.AllowN(now, 1)
}

// evictIdle вызывается под мьютексом, не чаще раза в idleTTL
func (l *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}
	l.lastSweep = now

	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(l.clients, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
