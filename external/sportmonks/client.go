package sportmonks

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/football-etl/internal/platform/logging"
	"github.com/riskibarqy/football-etl/internal/platform/resilience"
)

const (
	defaultBaseURL       = "https://api.sportmonks.com/v3"
	defaultPerPage       = 50
	defaultRateLimitWait = 60 * time.Second
	maxRateLimitWaits    = 5
	maxResponseBytes     = 16 << 20
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)

// ErrTransientFetch marks provider failures worth retrying: network errors,
// rate limiting and 5xx responses. It is returned only once retries run out.
var ErrTransientFetch = crerr.New("sportmonks transient failure")

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	Token             string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	PerPage           int
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	perPage    int
	limiter    *rate.Limiter
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     singleflight.Group
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("sportmonks circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: max(cfg.MaxRetries, 0),
		perPage:    perPage,
		limiter:    limiter,
		logger:     logger,
		breaker:    breaker,
		sleep:      sleepContext,
	}
}

// envelope is the common v3 response wrapper.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *pagination     `json:"pagination"`
	RateLimit  *rateLimit      `json:"rate_limit"`
	Message    string          `json:"message"`
}

type pagination struct {
	Count       int  `json:"count"`
	PerPage     int  `json:"per_page"`
	CurrentPage int  `json:"current_page"`
	HasMore     bool `json:"has_more"`
}

type rateLimit struct {
	ResetsInSeconds int    `json:"resets_in_seconds"`
	Remaining       int    `json:"remaining"`
	RequestedEntity string `json:"requested_entity"`
}

// FetchPaged walks page=1.. of path until the provider reports no more pages
// or returns an empty page. An object-valued data is returned as one item.
func (c *Client) FetchPaged(ctx context.Context, path string, query map[string]string) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for page := 1; ; page++ {
		params := make(map[string]string, len(query)+2)
		for key, value := range query {
			params[key] = value
		}
		params["per_page"] = strconv.Itoa(c.perPage)
		params["page"] = strconv.Itoa(page)

		var env envelope
		if _, err := c.doJSON(ctx, path, params, &env); err != nil {
			return nil, err
		}

		data := bytes.TrimSpace(env.Data)
		if isNull(data) {
			break
		}
		if data[0] == '{' {
			out = append(out, json.RawMessage(data))
			break
		}
		var items []json.RawMessage
		if err := sonic.Unmarshal(data, &items); err != nil {
			return nil, crerr.Wrapf(err, "decode %s page %d", path, page)
		}
		if len(items) == 0 {
			break
		}
		out = append(out, items...)

		if env.Pagination == nil || !env.Pagination.HasMore {
			break
		}
	}
	return out, nil
}

// FetchOne returns the data member of a single-resource endpoint.
func (c *Client) FetchOne(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	var env envelope
	if _, err := c.doJSON(ctx, path, query, &env); err != nil {
		return nil, err
	}
	data := bytes.TrimSpace(env.Data)
	if isNull(data) {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		var raw []byte
		err := c.breaker.Execute(func() (reqErr error) {
			raw, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isTransient)
		return raw, err
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "sportmonks circuit breaker rejected request", "state", c.breaker.State())
		return nil, crerr.Wrap(err, "sport data provider is temporarily unavailable")
	}
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, crerr.Wrap(err, "decode provider payload")
	}

	return raw, nil
}

// executeRequest performs one GET with retries. 5xx and network failures
// back off linearly and count against MaxRetries; 429 waits until the
// provider's rate window resets and does not.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	rateLimited := 0
	attempt := 0
	for attempt <= c.maxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, crerr.Wrap(err, "wait for request slot")
		}

		raw, status, err := c.get(ctx, fullURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Mark(crerr.Newf("send request: %s", sanitizeSensitiveText(err.Error(), c.token)), ErrTransientFetch)
		case status >= 200 && status < 300:
			return raw, nil
		case status == http.StatusTooManyRequests:
			lastErr = crerr.Mark(crerr.Newf("provider status=%d body=%s", status, abbreviateBody(raw)), ErrTransientFetch)
			rateLimited++
			if rateLimited > maxRateLimitWaits {
				attempt = c.maxRetries + 1
				continue
			}
			wait := rateLimitWait(raw)
			c.logger.WarnContext(ctx, "sportmonks rate limited", "url", redactAPIURL(fullURL), "wait", wait.String())
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		case status >= http.StatusInternalServerError:
			lastErr = crerr.Mark(crerr.Newf("provider status=%d body=%s", status, abbreviateBody(raw)), ErrTransientFetch)
		default:
			return nil, crerr.Newf("provider status=%d url=%s body=%s", status, redactAPIURL(fullURL), abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		if err := c.sleep(ctx, time.Duration(attempt+1)*time.Second); err != nil {
			return nil, err
		}
		attempt++
	}

	if lastErr == nil {
		lastErr = crerr.Mark(crerr.New("provider request failed"), ErrTransientFetch)
	}
	c.logger.WarnContext(ctx, "sportmonks request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isTransient(err error) bool {
	return crerr.Is(err, ErrTransientFetch)
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := readBody(resp.Body)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "read response body")
	}
	return raw, resp.StatusCode, nil
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// rateLimitWait reads rate_limit.resets_in_seconds from a 429 body and adds a
// second of slack.
func rateLimitWait(body []byte) time.Duration {
	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil || env.RateLimit == nil || env.RateLimit.ResetsInSeconds <= 0 {
		return defaultRateLimitWait
	}
	return time.Duration(env.RateLimit.ResetsInSeconds)*time.Second + time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
