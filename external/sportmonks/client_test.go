package sportmonks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/platform/logging"
	"github.com/riskibarqy/football-etl/internal/platform/resilience"
)

type recordedSleeps struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return nil
}

func (r *recordedSleeps) all() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

func newTestClient(t *testing.T, srv *httptest.Server, cfg ClientConfig) (*Client, *recordedSleeps) {
	t.Helper()
	cfg.HTTPClient = srv.Client()
	cfg.BaseURL = srv.URL
	if cfg.Token == "" {
		cfg.Token = "secret-token"
	}
	cfg.Logger = logging.NewNop()
	client := NewClient(cfg)
	sleeps := &recordedSleeps{}
	client.sleep = sleeps.sleep
	return client, sleeps
}

func TestFetchPaged_WalksPagesUntilHasMoreIsFalse(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		if got := q.Get("api_token"); got != "secret-token" {
			t.Errorf("unexpected api_token: %s", got)
		}
		if got := q.Get("per_page"); got != "50" {
			t.Errorf("unexpected per_page: %s", got)
		}
		if got := q.Get("include"); got != "participant" {
			t.Errorf("unexpected include: %s", got)
		}
		switch q.Get("page") {
		case "1":
			fmt.Fprint(w, `{"data":[{"id":1},{"id":2}],"pagination":{"has_more":true,"current_page":1}}`)
		case "2":
			fmt.Fprint(w, `{"data":[{"id":3}],"pagination":{"has_more":false,"current_page":2}}`)
		default:
			t.Errorf("unexpected page %s", q.Get("page"))
		}
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, ClientConfig{})
	items, err := client.FetchPaged(context.Background(), "/football/teams", map[string]string{"include": "participant"})
	if err != nil {
		t.Fatalf("fetch paged: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestFetchPaged_StopsOnEmptyPageAndWrapsObjectData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/empty":
			fmt.Fprint(w, `{"data":[],"pagination":{"has_more":true}}`)
		case "/single":
			fmt.Fprint(w, `{"data":{"id":42,"name":"Only"}}`)
		}
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, ClientConfig{})

	items, err := client.FetchPaged(context.Background(), "/empty", nil)
	if err != nil {
		t.Fatalf("fetch empty: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}

	items, err = client.FetchPaged(context.Background(), "/single", nil)
	if err != nil {
		t.Fatalf("fetch single: %v", err)
	}
	if len(items) != 1 || !strings.Contains(string(items[0]), `"id":42`) {
		t.Fatalf("expected the object as one item, got %s", items)
	}
}

func TestExecuteRequest_RateLimitWaitsForResetWithoutUsingRetries(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"message":"Too Many Attempts.","rate_limit":{"resets_in_seconds":7,"remaining":0}}`)
			return
		}
		fmt.Fprint(w, `{"data":{"id":1}}`)
	}))
	defer srv.Close()

	client, sleeps := newTestClient(t, srv, ClientConfig{MaxRetries: 0})
	raw, err := client.FetchOne(context.Background(), "/football/fixtures/1", nil)
	if err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if !strings.Contains(string(raw), `"id":1`) {
		t.Fatalf("unexpected payload: %s", raw)
	}

	waits := sleeps.all()
	if len(waits) != 1 || waits[0] != 8*time.Second {
		t.Fatalf("expected one 8s wait, got %v", waits)
	}
}

func TestRateLimitWait_DefaultsWithoutResetHint(t *testing.T) {
	t.Parallel()

	if got := rateLimitWait([]byte(`{"message":"slow down"}`)); got != time.Minute {
		t.Fatalf("expected 60s default, got %s", got)
	}
	if got := rateLimitWait([]byte(`not json`)); got != time.Minute {
		t.Fatalf("expected 60s default for unreadable body, got %s", got)
	}
}

func TestExecuteRequest_RetriesServerErrorsWithLinearBackoff(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `upstream down`)
	}))
	defer srv.Close()

	client, sleeps := newTestClient(t, srv, ClientConfig{MaxRetries: 2})
	_, err := client.FetchOne(context.Background(), "/football/fixtures/1", nil)
	if !crerr.Is(err, ErrTransientFetch) {
		t.Fatalf("expected transient fetch error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	waits := sleeps.all()
	if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Fatalf("expected 1s then 2s backoff, got %v", waits)
	}
}

func TestExecuteRequest_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"bad token"}`)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, ClientConfig{MaxRetries: 3})
	_, err := client.FetchOne(context.Background(), "/football/fixtures/1", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if crerr.Is(err, ErrTransientFetch) {
		t.Fatalf("401 must not be transient: %v", err)
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Fatalf("error leaks api token: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestDoJSON_CircuitBreakerRejectsAfterFailures(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Hour,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchOne(context.Background(), "/a", nil); !crerr.Is(err, ErrTransientFetch) {
		t.Fatalf("expected transient failure, got %v", err)
	}
	_, err := client.FetchOne(context.Background(), "/b", nil)
	if !crerr.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected circuit open, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected breaker to short-circuit the second call, got %d requests", got)
	}
}

func TestFetchFixturesByIDs_ChunksMultiRequests(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.TrimPrefix(r.URL.Path, "/football/fixtures/multi/")
		parts := strings.Split(ids, ",")
		mu.Lock()
		sizes = append(sizes, len(parts))
		mu.Unlock()
		if got := r.URL.Query().Get("include"); got != IncludeFixtureDetail {
			t.Errorf("unexpected include: %s", got)
		}
		items := make([]string, 0, len(parts))
		for _, id := range parts {
			items = append(items, `{"id":`+id+`}`)
		}
		fmt.Fprintf(w, `{"data":[%s]}`, strings.Join(items, ","))
	}))
	defer srv.Close()

	ids := make([]int64, 120)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	client, _ := newTestClient(t, srv, ClientConfig{})
	items, err := client.FetchFixturesByIDs(context.Background(), ids)
	if err != nil {
		t.Fatalf("fetch by ids: %v", err)
	}
	if len(items) != 120 {
		t.Fatalf("expected 120 fixtures, got %d", len(items))
	}
	if len(sizes) != 3 || sizes[0] != 50 || sizes[1] != 50 || sizes[2] != 20 {
		t.Fatalf("unexpected chunk sizes %v", sizes)
	}
}

func TestFetchFixturesBetween_SplitsLongRanges(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		fmt.Fprint(w, `{"data":[{"id":1}]}`)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, ClientConfig{})
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	items, err := client.FetchFixturesBetween(context.Background(), from, to)
	if err != nil {
		t.Fatalf("fetch between: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected one item per window, got %d", len(items))
	}
	want := []string{
		"/football/fixtures/between/2024-01-01/2024-04-09",
		"/football/fixtures/between/2024-04-10/2024-06-30",
	}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("unexpected windows %v", paths)
	}

	if _, err := client.FetchFixturesBetween(context.Background(), to, from); err == nil {
		t.Fatalf("expected reversed range to fail")
	}
}

func TestFetchReference_RejectsUnknownKind(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.FetchReference(context.Background(), "coaches"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	for _, kind := range ReferenceKinds() {
		if _, ok := referencePaths[kind]; !ok {
			t.Fatalf("reference kind %s has no path", kind)
		}
	}
}

func TestRedaction(t *testing.T) {
	t.Parallel()

	got := redactAPIURL("https://api.sportmonks.com/v3/football/teams?api_token=abc&page=2")
	if strings.Contains(got, "abc") || !strings.Contains(got, "api_token=REDACTED") {
		t.Fatalf("token not redacted: %s", got)
	}

	msg := sanitizeSensitiveText(`Get "https://x/y?api_token=abc": dial tcp`, "abc")
	if strings.Contains(msg, "abc") {
		t.Fatalf("token not sanitized: %s", msg)
	}

	long := strings.Repeat("x", 300)
	if got := abbreviateBody([]byte(long)); len(got) != 243 {
		t.Fatalf("expected body abbreviated to 240 chars plus ellipsis, got %d", len(got))
	}
}
