package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/i18n"
	"github.com/guttosm/placement-service/internal/metrics"
)

const defaultNumShards = 16

// Request costs charged by PlacementCost. A search occupies a CPU for up to the
// search timeout, so it spends more of the window than a read.
const (
	ReadCost   = 1
	SearchCost = 5
)

// CostFunc returns how many tokens a request spends.
type CostFunc func(c *gin.Context) int

// UniformCost charges every request one token.
func UniformCost(*gin.Context) int { return ReadCost }

// PlacementCost charges SearchCost for writes and ReadCost for reads.
func PlacementCost(c *gin.Context) int {
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return SearchCost
	default:
		return ReadCost
	}
}

// window is the fixed window state of one caller.
type window struct {
	tokens  int
	resetAt time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	windows map[string]*window
}

// RateLimiter is a fixed window limiter keyed by caller. Callers are spread
// over shards to keep lock contention low.
type RateLimiter struct {
	shards []*limiterShard
	rate   int
	period time.Duration
	cost   CostFunc
	now    func() time.Time
	stopCh chan struct{}
	once   sync.Once
}

// NewRateLimiter allows rate tokens per period and every request costs one.
func NewRateLimiter(rate int, period time.Duration) *RateLimiter {
	return NewWeightedRateLimiter(rate, period, UniformCost)
}

// NewWeightedRateLimiter allows rate tokens per period with per request
// costs from cost.
func NewWeightedRateLimiter(rate int, period time.Duration, cost CostFunc) *RateLimiter {
	if cost == nil {
		cost = UniformCost
	}
	rl := &RateLimiter{
		shards: make([]*limiterShard, defaultNumShards),
		rate:   rate,
		period: period,
		cost:   cost,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for i := range rl.shards {
		rl.shards[i] = &limiterShard{windows: make(map[string]*window)}
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) shard(key string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return rl.shards[h.Sum32()%uint32(len(rl.shards))]
}

// take spends cost tokens of key. It returns the tokens left and, when the
// request is refused, how long until the window resets.
func (rl *RateLimiter) take(key string, cost int) (allowed bool, remaining int, retryAfter time.Duration) {
	s := rl.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := rl.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{tokens: rl.rate, resetAt: now.Add(rl.period)}
		s.windows[key] = w
	}
	if w.tokens < cost {
		return false, w.tokens, w.resetAt.Sub(now)
	}
	w.tokens -= cost
	return true, w.tokens, 0
}

// RateLimit limits requests per client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return rl.middleware("ip", func(c *gin.Context) string { return "ip:" + c.ClientIP() })
}

// UserRateLimit limits requests per authenticated subject, or per IP for
// anonymous callers.
func (rl *RateLimiter) UserRateLimit() gin.HandlerFunc {
	return rl.middleware("caller", callerKey)
}

func (rl *RateLimiter) middleware(limiter string, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, retryAfter := rl.take(key(c), rl.cost(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if allowed {
			c.Next()
			return
		}

		metrics.RecordRateLimited(limiter)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
	}
}

func callerKey(c *gin.Context) string {
	if subject := GetAuthSubject(c); subject != "" {
		return "sub:" + subject
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evictExpired()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) evictExpired() {
	now := rl.now()
	for _, s := range rl.shards {
		s.mu.Lock()
		for key, w := range s.windows {
			if !now.Before(w.resetAt) {
				delete(s.windows, key)
			}
		}
		s.mu.Unlock()
	}
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// Tracked returns the number of callers with a live window.
func (rl *RateLimiter) Tracked() int {
	n := 0
	for _, s := range rl.shards {
		s.mu.Lock()
		n += len(s.windows)
		s.mu.Unlock()
	}
	return n
}
