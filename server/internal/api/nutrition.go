package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	respond "github.com/FluffyKas/cooking-helper/server/internal/api/respond"
	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/nutrition"
	"github.com/FluffyKas/cooking-helper/server/internal/services"
)

// NutritionHandler serves POST /api/nutrition behind a per-client rate limit.
type NutritionHandler struct {
	svc     *services.NutritionService
	limiter *ClientLimiter
	log     zerolog.Logger
}

func NewNutritionHandler(svc *services.NutritionService, limiter *ClientLimiter, log zerolog.Logger) *NutritionHandler {
	return &NutritionHandler{svc: svc, limiter: limiter, log: log}
}

// Estimate POST /api/nutrition
func (h *NutritionHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(h.limiter.ClientKey(r)) {
		respond.WriteError(w, http.StatusTooManyRequests, "Too many nutrition requests, slow down")
		return
	}
	var req struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.Estimate(r.Context(), req.Ingredients)
	switch {
	case err == nil:
		respond.WriteJSON(w, http.StatusOK, out)
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, "Ingredients are required")
	case errors.Is(err, nutrition.ErrNotConfigured):
		respond.WriteError(w, http.StatusServiceUnavailable, "Nutrition estimator not configured")
	case errors.Is(err, nutrition.ErrInvalidResponse):
		h.log.Error().Err(err).Msg("unparseable nutrition estimate")
		respond.WriteInternalError(w, "Failed to parse nutrition data")
	default:
		h.log.Error().Stack().Err(err).Msg("nutrition estimate failed")
		respond.WriteInternalError(w, "Failed to calculate nutrition")
	}
}

// ClientLimiter keeps one token bucket per client address.
type ClientLimiter struct {
	mu      sync.Mutex
	perMin  int
	clients map[string]*clientBucket
	now     func() time.Time
	idleTTL time.Duration
	sweepAt int
	trusted []netip.Prefix
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter allows perMinute requests per client with an equal burst.
// Clients are keyed by their connection address; X-Forwarded-For is only
// read when the connection comes from one of the trusted proxies.
func NewClientLimiter(perMinute int, trustedProxies ...netip.Prefix) *ClientLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &ClientLimiter{
		perMin:  perMinute,
		clients: make(map[string]*clientBucket),
		now:     time.Now,
		idleTTL: 10 * time.Minute,
		sweepAt: 1024,
		trusted: trustedProxies,
	}
}

// Allow reports whether key may make a request now.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if len(l.clients) >= l.sweepAt {
		for k, b := range l.clients {
			if now.Sub(b.lastSeen) > l.idleTTL {
				delete(l.clients, k)
			}
		}
	}
	b, ok := l.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(float64(l.perMin)/60.0), l.perMin)}
		l.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *ClientLimiter) isTrusted(a netip.Addr) bool {
	for _, p := range l.trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientKey returns the address r is rate limited under. Behind trusted
// proxies it walks X-Forwarded-For from the right and returns the first hop
// that is not itself a trusted proxy.
func (l *ClientLimiter) ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	remote, err := netip.ParseAddr(host)
	if err != nil || !l.isTrusted(remote.Unmap()) {
		return host
	}

	client := remote.Unmap()
	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		client = hop.Unmap()
		if !l.isTrusted(client) {
			break
		}
	}
	return client.String()
}
