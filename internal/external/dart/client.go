package dart

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/aegis-fin/backend/pkg/config"
	"github.com/wonny/aegis-fin/backend/pkg/httputil"
	"github.com/wonny/aegis-fin/backend/pkg/logger"
	"github.com/wonny/aegis-fin/backend/pkg/redis"
)

// DefaultBaseURL is the DART OpenAPI root
const DefaultBaseURL = "https://opendart.fss.or.kr/api"

// Client handles communication with DART (Data Analysis, Retrieval and Transfer System) API
// ⭐ SSOT: DART API 호출은 이 클라이언트에서만
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	apiKey  string
	baseURL string
}

// NewClient creates a new DART API client
// DART API requires legacy TLS configuration (RSA key exchange)
func NewClient(cfg config.DARTConfig, log *logger.Logger, limiter *redis.RateLimiter) *Client {
	hc := httputil.NewWithTransport(log, newLegacyCompatibleTransport(), 30*time.Second).
		WithRetry(3, 500*time.Millisecond)

	if limiter != nil {
		hc = hc.WithRateLimiter(limiter, redis.DARTRateLimit)
	}
	if cfg.RatePerSec > 0 {
		burst := int(cfg.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		hc = hc.WithLimiter(rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst))
	}

	return NewClientWithHTTP(cfg.APIKey, cfg.BaseURL, hc, log)
}

// NewClientWithHTTP creates a client over a prepared httputil.Client (테스트용 서버 주입)
func NewClientWithHTTP(apiKey, baseURL string, hc *httputil.Client, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    hc,
		logger:  log,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// endpoint builds an API URL with crtfc_key and params
func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("crtfc_key", c.apiKey)
	return c.baseURL + "/" + path + "?" + params.Encode()
}

// newLegacyCompatibleTransport creates a transport compatible with legacy TLS servers
// DART server requires RSA key exchange cipher suites which Go 1.22+ no longer offers by default
func newLegacyCompatibleTransport() *http.Transport {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,

		// DART server doesn't support ECDHE, so we need RSA key exchange
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,

			// RSA KEX (legacy) - required for DART API
			tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_RSA_WITH_AES_128_CBC_SHA,
			tls.TLS_RSA_WITH_AES_256_CBC_SHA,
		},
	}

	return &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false, // Disable HTTP/2 for legacy server compatibility

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		TLSClientConfig:       tlsCfg,
		MaxIdleConns:          20,
		MaxConnsPerHost:       5,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
