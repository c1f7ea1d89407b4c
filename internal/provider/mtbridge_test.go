package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestProvider(transport roundTripFunc) *MTBridgeProvider {
	p := NewMTBridgeProvider(trace.NewNoopTracerProvider().Tracer("test"), "http://bridge", "secret", time.Second)
	p.client = &http.Client{Transport: transport}
	p.limiter = NewRateLimiter(100, time.Millisecond)
	return p
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func TestGetAccountSummary(t *testing.T) {
	t.Parallel()

	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(req.URL.Path, "/accounts/acct-1/summary") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if req.Header.Get("Authorization") != "Bearer secret" {
			t.Fatalf("missing bearer token, got %q", req.Header.Get("Authorization"))
		}
		return jsonResponse(http.StatusOK, `{"balance": 10000, "equity": 9500, "currency": "USD"}`), nil
	})

	summary, raw, err := p.GetAccountSummary(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Balance != 10000 || summary.Equity != 9500 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(raw) == 0 {
		t.Fatal("expected raw payload for diagnostics")
	}
}

func TestGetOpenPositionsFallbackOnPermissionDenied(t *testing.T) {
	t.Parallel()

	var paths []string
	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		paths = append(paths, req.URL.Path)
		if strings.HasSuffix(req.URL.Path, "/positions") {
			return jsonResponse(http.StatusForbidden, `{"error": "investor token"}`), nil
		}
		return jsonResponse(http.StatusOK, `{"trades": [{"symbol": "EURUSD", "volume": 1, "openPrice": 1.1, "side": "buy"}]}`), nil
	})

	positions, _, usedFallback, err := p.GetOpenPositions(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usedFallback {
		t.Fatal("expected fallback endpoint to be used")
	}
	if len(positions) != 1 || positions[0].Symbol != "EURUSD" {
		t.Fatalf("unexpected positions: %+v", positions)
	}
	if len(paths) != 2 || !strings.HasSuffix(paths[1], "/open-trades") {
		t.Fatalf("expected primary then fallback request, got %v", paths)
	}
}

func TestGetOpenPositionsNoFallbackOnServerError(t *testing.T) {
	t.Parallel()

	calls := 0
	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusInternalServerError, `boom`), nil
	})

	_, _, usedFallback, err := p.GetOpenPositions(context.Background(), "acct-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if usedFallback || calls != 1 {
		t.Fatalf("server errors must not trigger the fallback (calls=%d)", calls)
	}
}

func TestGetClosedOrdersErrorOnBadStatus(t *testing.T) {
	t.Parallel()

	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream down`), nil
	})

	_, _, err := p.GetClosedOrders(context.Background(), "acct-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
