package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/a11y-checker/internal/server/ratelimit"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

type testEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

func analyzeBody(t *testing.T, html string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"html": html})
	require.NoError(t, err)
	return string(body)
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s, http.MethodPost, "/api/accessibility/analyze",
		analyzeBody(t, "<h1>Title</h1>\n<h3>Sub</h3>\n<img src=\"a.png\">"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "Accessibility analysis completed.", env.Message)

	var data struct {
		ComplianceScore int `json:"complianceScore"`
		Issues          map[string]struct {
			Title   string `json:"title"`
			Line    int    `json:"line"`
			Details []struct {
				SuggestedFix   string `json:"suggestedFix"`
				FaultedSnippet string `json:"faultedSnippet"`
				SampleSnippet  string `json:"sampleSnippet"`
			} `json:"details"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	// 10 for the skipped heading, 5 for the image, 5 for the missing skip link
	assert.Equal(t, 80, data.ComplianceScore)
	require.Contains(t, data.Issues, "skipped_headings")
	assert.Equal(t, 2, data.Issues["skipped_headings"].Line)
	assert.Equal(t, "<h3>Sub</h3>", data.Issues["skipped_headings"].Details[0].FaultedSnippet)
	require.Contains(t, data.Issues, "missing_alt")
	assert.Equal(t, 3, data.Issues["missing_alt"].Line)
	assert.Contains(t, data.Issues, "missing_skip_link")
}

func TestAnalyzeEndpoint_CompliantMarkupHasEmptyIssuesObject(t *testing.T) {
	s := newTestServer(t, Config{DisabledRules: []string{"missing_skip_link"}})

	w := doRequest(t, s, http.MethodPost, "/api/accessibility/analyze", analyzeBody(t, `<p>Hello</p>`))

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.JSONEq(t, `{"complianceScore": 100, "issues": {}}`, string(env.Data))
}

func TestAnalyzeEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing html", `{}`, "html"},
		{"empty html", `{"html": ""}`, "html"},
		{"null body", `null`, "html"},
		{"not json", `<html>`, "body"},
		{"wrong type", `{"html": 42}`, "body"},
		{"empty body", "", "body"},
	}

	s := newTestServer(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/api/accessibility/analyze", tt.body)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode)
			assert.False(t, env.Success)

			var data map[string]string
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Contains(t, data, tt.field)
		})
	}
}

func TestAnalyzeEndpoint_RequiredMessage(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s, http.MethodPost, "/api/accessibility/analyze", `{}`)

	env := decodeEnvelope(t, w)
	assert.JSONEq(t, `{"html": "The html field is required."}`, string(env.Data))
}

func TestAnalyzeEndpoint_PayloadTooLarge(t *testing.T) {
	s := newTestServer(t, Config{MaxBodyBytes: 64})

	w := doRequest(t, s, http.MethodPost, "/api/accessibility/analyze", analyzeBody(t, strings.Repeat("<p>x</p>", 50)))

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRulesEndpoint(t *testing.T) {
	s := newTestServer(t, Config{DisabledRules: []string{"broken_links"}})

	w := doRequest(t, s, http.MethodGet, "/api/accessibility/rules", "")

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var rules []struct {
		Category string `json:"category"`
		Weight   int    `json:"weight"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rules))
	assert.Len(t, rules, 7)
	assert.Equal(t, "missing_alt", rules[0].Category)
	for _, r := range rules {
		assert.NotEqual(t, "broken_links", r.Category)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s, http.MethodGet, "/up", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestNotFoundFallback(t *testing.T) {
	s := newTestServer(t, Config{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/api/accessibility/analyze"},
		{http.MethodDelete, "/api/accessibility/rules"},
		{http.MethodGet, "/"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := doRequest(t, s, tc.method, tc.path, "")

			require.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"statusCode":404,"success":false,"message":"Specified endpoint not found.","data":[]}`, w.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	before := testutil.ToFloat64(analysesTotal)
	doRequest(t, s, http.MethodPost, "/api/accessibility/analyze", analyzeBody(t, `<img src="x.png">`))
	assert.Equal(t, before+1, testutil.ToFloat64(analysesTotal))

	w := doRequest(t, s, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a11y_analysis_completed_total")
	assert.Contains(t, w.Body.String(), `a11y_analysis_violations_total{category="missing_alt"}`)
	assert.Contains(t, w.Body.String(), `a11y_http_requests_total{route="POST /api/accessibility/analyze",status="200"}`)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s, http.MethodOptions, "/api/accessibility/analyze", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")

	w = doRequest(t, s, http.MethodGet, "/up", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s, http.MethodGet, "/up", "")
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err, "generated request id should be a UUID")

	req := httptest.NewRequest(http.MethodGet, "/up", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "client-supplied-id", w.Header().Get(RequestIDHeader))
}

func TestRequestLogging(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, Config{Logger: slog.New(slog.NewJSONHandler(&logs, nil))})

	req := httptest.NewRequest(http.MethodPost, "/api/accessibility/analyze", strings.NewReader(`{"html":"<p>x</p>"}`))
	req.Header.Set(RequestIDHeader, "log-test-id")
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	output := logs.String()
	assert.Contains(t, output, `"msg":"analysis completed"`)
	assert.Contains(t, output, `"msg":"request completed"`)
	assert.Contains(t, output, `"request_id":"log-test-id"`)
	assert.Contains(t, output, `"status":200`)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/accessibility/analyze", Method: http.MethodPost, Limit: 2, Window: time.Minute},
			{Path: "/up", Unlimited: true},
		},
	}})
	body := analyzeBody(t, "<p>x</p>")

	for i := 0; i < 2; i++ {
		w := doRequest(t, s, http.MethodPost, "/api/accessibility/analyze", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := doRequest(t, s, http.MethodPost, "/api/accessibility/analyze", body)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusTooManyRequests, env.StatusCode)
	assert.False(t, env.Success)

	// Health stays reachable
	w = doRequest(t, s, http.MethodGet, "/up", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestNew_UnknownRule(t *testing.T) {
	_, err := New(Config{DisabledRules: []string{"not_a_rule"}, RateLimit: &ratelimit.Config{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_a_rule")
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	assert.Equal(t, "203.0.113.7", s.extractClientID(req))

	req.RemoteAddr = "not-a-hostport"
	assert.Equal(t, "not-a-hostport", s.extractClientID(req))
}
