package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Endpoint names on the bridge. Some bridge deployments deny the primary
// positions endpoint to read-only investor tokens; positionsFallbackEndpoint
// is the older name that still answers for those.
const (
	summaryEndpoint           = "summary"
	closedOrdersEndpoint      = "closed-orders"
	positionsEndpoint         = "positions"
	positionsFallbackEndpoint = "open-trades"
)

// MTBridgeProvider fetches account state from the MetaTrader bridge REST API.
type MTBridgeProvider struct {
	client  *http.Client
	baseURL string
	token   string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewMTBridgeProvider creates a provider with built-in rate limiting
// (30 requests per minute, one token every 2 seconds).
func NewMTBridgeProvider(tracer trace.Tracer, baseURL, token string, timeout time.Duration) *MTBridgeProvider {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &MTBridgeProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   token,
		tracer:  tracer,
		limiter: NewRateLimiter(30, time.Minute),
	}
}

// GetAccountSummary returns balance/equity/currency for the account, plus the
// raw payload for diagnostic runs.
func (p *MTBridgeProvider) GetAccountSummary(ctx context.Context, accountRef string) (*domain.AccountSummary, []byte, error) {
	_, span := p.tracer.Start(ctx, "mtbridge.get-account-summary")
	defer span.End()

	body, err := p.doRequest(ctx, accountRef, summaryEndpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch account summary: %w", err)
	}
	summary, err := normalizeSummaryPayload(body)
	if err != nil {
		return nil, body, fmt.Errorf("parse account summary: %w", err)
	}
	return summary, body, nil
}

// GetClosedOrders returns the account's closed-order history, plus the raw
// payload for diagnostic runs.
func (p *MTBridgeProvider) GetClosedOrders(ctx context.Context, accountRef string) ([]domain.ClosedOrder, []byte, error) {
	_, span := p.tracer.Start(ctx, "mtbridge.get-closed-orders")
	defer span.End()

	body, err := p.doRequest(ctx, accountRef, closedOrdersEndpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch closed orders: %w", err)
	}
	orders, err := normalizeOrdersPayload(body)
	if err != nil {
		return nil, body, fmt.Errorf("parse closed orders: %w", err)
	}
	return orders, body, nil
}

// GetOpenPositions returns current open positions. When the primary endpoint
// answers with a permission-denied-class status, the legacy endpoint name is
// tried before giving up; the returned bool reports whether it was used.
func (p *MTBridgeProvider) GetOpenPositions(ctx context.Context, accountRef string) ([]domain.OpenPosition, []byte, bool, error) {
	_, span := p.tracer.Start(ctx, "mtbridge.get-open-positions")
	defer span.End()

	usedFallback := false
	body, err := p.doRequest(ctx, accountRef, positionsEndpoint)
	if err != nil {
		var statusErr *statusError
		if !errors.As(err, &statusErr) || !statusErr.PermissionDenied() {
			return nil, nil, false, fmt.Errorf("fetch open positions: %w", err)
		}
		usedFallback = true
		body, err = p.doRequest(ctx, accountRef, positionsFallbackEndpoint)
		if err != nil {
			return nil, nil, true, fmt.Errorf("fetch open positions (fallback): %w", err)
		}
	}

	positions, err := normalizePositionsPayload(body)
	if err != nil {
		return nil, body, usedFallback, fmt.Errorf("parse open positions: %w", err)
	}
	return positions, body, usedFallback, nil
}

func (p *MTBridgeProvider) doRequest(ctx context.Context, accountRef, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/%s", p.baseURL, accountRef, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &statusError{Status: resp.StatusCode, Body: string(body)}
	}

	return io.ReadAll(resp.Body)
}

type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("bridge API error %d: %s", e.Status, e.Body)
}

func (e *statusError) PermissionDenied() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
