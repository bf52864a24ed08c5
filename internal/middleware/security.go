package middleware

import (
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"diskmanager/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewRateLimiter allows perSecond requests per IP, with bursts up to burst
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(perSecond),
		burst:   burst,
	}
}

// Allow consumes one token of the bucket of ip
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	bucket, ok := rl.buckets[ip]
	if ok == false {
		bucket = rate.NewLimiter(rl.limit, rl.burst)
		rl.buckets[ip] = bucket
	}
	rl.mu.Unlock()
	return bucket.Allow()
}

func RateLimitMiddleware(limiter *RateLimiter, security *SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.Allow(ip) == false {
			security.LogRateLimited(ip)
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// CORSMiddleware answers cross origin requests from allowedOrigins. An
// empty list accepts any origin, "*" too.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimRight(c.GetHeader("Origin"), "/")

		if originAllowed(origin, allowedOrigins) {
			h := c.Writer.Header()
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	if len(allowedOrigins) == 0 {
		return true
	}
	for _, o := range allowedOrigins {
		allowed := strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case allowed == "":
		case allowed == "*" || allowed == origin:
			return true
		case strings.Contains(allowed, "://") == false:
			// bare host entries match any scheme
			if parsed, err := url.Parse(origin); err == nil && parsed.Host == allowed {
				return true
			}
		}
	}
	return false
}

// IPWhitelist restricts access to a set of addresses and networks. Loopback
// clients are always accepted.
type IPWhitelist struct {
	addrs    map[string]bool
	networks []*net.IPNet
}

// NewIPWhitelist accepts plain addresses and CIDR networks. Invalid entries
// are logged and ignored.
func NewIPWhitelist(entries []string) *IPWhitelist {
	logger := logging.NewLogger("security")
	wl := &IPWhitelist{addrs: make(map[string]bool)}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if len(e) == 0 {
			continue
		}
		if _, network, err := net.ParseCIDR(e); err == nil {
			wl.networks = append(wl.networks, network)
			continue
		}
		ip := net.ParseIP(e)
		if ip == nil {
			logger.WithField("entry", e).Warn("ignoring invalid allowed IP")
			continue
		}
		wl.addrs[ip.String()] = true
	}
	return wl
}

// Empty reports whether the list accepts everybody
func (wl *IPWhitelist) Empty() bool {
	return len(wl.addrs) == 0 && len(wl.networks) == 0
}

// IsAllowed checks addr, with or without a port
func (wl *IPWhitelist) IsAllowed(addr string) bool {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return wl.Empty()
	}
	if ip.IsLoopback() || wl.Empty() {
		return true
	}
	if wl.addrs[ip.String()] {
		return true
	}
	for _, n := range wl.networks {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func IPWhitelistMiddleware(whitelist *IPWhitelist, security *SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if whitelist.IsAllowed(ip) == false {
			security.LogDenied(ip)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// SecurityLogger logs security events
type SecurityLogger struct {
	logger *logrus.Entry
}

func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: logging.NewLogger("security")}
}

func (sl *SecurityLogger) LogFailedAuth(ip string, reason string) {
	sl.logger.WithFields(logrus.Fields{"ip": ip, "reason": reason}).Warn("failed authentication")
}

func (sl *SecurityLogger) LogRateLimited(ip string) {
	sl.logger.WithField("ip", ip).Warn("rate limit exceeded")
}

func (sl *SecurityLogger) LogDenied(ip string) {
	sl.logger.WithField("ip", ip).Warn("access denied for non-whitelisted IP")
}

func (sl *SecurityLogger) LogWebSocketConnected(ip string, serverName string) {
	sl.logger.WithFields(logrus.Fields{"ip": ip, "server": serverName}).Info("websocket connected")
}

var serverNameRx = regexp.MustCompile(`^[A-Za-z0-9._-]{1,255}$`)

// InputValidator checks user provided values before they reach the auth
// service
type InputValidator struct{}

func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateToken checks the header.payload.signature shape of a JWT
func (iv *InputValidator) ValidateToken(token string) bool {
	if len(token) < 20 || len(token) > 4096 {
		return false
	}
	return strings.Count(token, ".") == 2
}

// ValidateServerName accepts letters, digits, '.', '-' and '_'
func (iv *InputValidator) ValidateServerName(name string) bool {
	return serverNameRx.MatchString(name)
}
