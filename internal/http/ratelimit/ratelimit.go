package ratelimit

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultMaxClients = 10000

// ClientLimiter throttles requests per client address. Forwarding headers are
// honoured only when the direct peer is a trusted proxy, or when no proxies
// are configured at all.
type ClientLimiter struct {
	mu         sync.Mutex
	clients    map[netip.Addr]*client
	limit      rate.Limit
	burst      int
	idle       time.Duration
	maxClients int
	trusted    []netip.Prefix
	now        func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New returns a limiter allowing rps requests per second with the given burst
// for each client. Entries idle for longer than idle are dropped by Run.
// Invalid entries in trustedProxies are ignored.
func New(rps float64, burst int, idle time.Duration, trustedProxies []string) *ClientLimiter {
	l := &ClientLimiter{
		clients:    make(map[netip.Addr]*client),
		limit:      rate.Limit(rps),
		burst:      burst,
		idle:       idle,
		maxClients: defaultMaxClients,
		now:        time.Now,
	}
	for _, entry := range trustedProxies {
		if prefix, ok := parsePrefix(entry); ok {
			l.trusted = append(l.trusted, prefix)
		}
	}
	return l
}

func parsePrefix(s string) (netip.Prefix, bool) {
	s = strings.TrimSpace(s)
	if prefix, err := netip.ParsePrefix(s); err == nil {
		return prefix.Masked(), true
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, false
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), true
}

// Run drops idle clients until ctx is done.
func (l *ClientLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *ClientLimiter) sweep() {
	cutoff := l.now().Add(-l.idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for addr, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, addr)
		}
	}
}

func (l *ClientLimiter) allow(addr netip.Addr) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[addr]
	if !ok {
		if len(l.clients) >= l.maxClients {
			l.evictOldest()
		}
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[addr] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *ClientLimiter) evictOldest() {
	var oldest netip.Addr
	var oldestSeen time.Time
	for addr, c := range l.clients {
		if !oldest.IsValid() || c.lastSeen.Before(oldestSeen) {
			oldest, oldestSeen = addr, c.lastSeen
		}
	}
	delete(l.clients, oldest)
}

// Middleware answers 429 once a client exceeds its budget.
func (l *ClientLimiter) Middleware() func(http.Handler) http.Handler {
	retryAfter := "1"
	if l.limit > 0 && l.limit < 1 {
		retryAfter = strconv.Itoa(int(1/float64(l.limit)) + 1)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(l.clientAddr(r)) {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *ClientLimiter) clientAddr(r *http.Request) netip.Addr {
	peer := parseAddr(r.RemoteAddr)
	if len(l.trusted) > 0 && !l.isTrusted(peer) {
		return peer
	}

	// X-Forwarded-For is "client, proxy1, proxy2"; the leftmost entry is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr := parseAddr(first); addr.IsValid() {
			return addr
		}
	}
	if addr := parseAddr(r.Header.Get("X-Real-IP")); addr.IsValid() {
		return addr
	}
	return peer
}

func (l *ClientLimiter) isTrusted(addr netip.Addr) bool {
	for _, prefix := range l.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// parseAddr accepts "ip" or "ip:port". Unparseable input yields the zero Addr,
// which all such clients share.
func parseAddr(s string) netip.Addr {
	s = strings.TrimSpace(s)
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap()
}
