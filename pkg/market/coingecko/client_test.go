package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
}

func TestSimplePriceUSD(t *testing.T) {
	var gotPath, gotIDs, gotCurrency, gotChange string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIDs = r.URL.Query().Get("ids")
		gotCurrency = r.URL.Query().Get("vs_currencies")
		gotChange = r.URL.Query().Get("include_24hr_change")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ethereum":{"usd":3120.45,"usd_24h_change":-2.3456}}`))
	})

	price, change, err := client.SimplePriceUSD(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.InDelta(t, 3120.45, price, 1e-9)
	assert.InDelta(t, -2.3456, change, 1e-9)
	assert.Equal(t, simplePricePath, gotPath)
	assert.Equal(t, "ethereum", gotIDs)
	assert.Equal(t, "usd", gotCurrency)
	assert.Equal(t, "true", gotChange)
}

func TestSimplePriceUSDMissingChange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"solana":{"usd":142.1}}`))
	})

	price, change, err := client.SimplePriceUSD(context.Background(), "solana")
	require.NoError(t, err)
	assert.InDelta(t, 142.1, price, 1e-9)
	assert.Zero(t, change)
}

func TestSimplePriceUSDErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "coin missing", status: http.StatusOK, body: `{}`, wantErr: ErrCoinNotFound},
		{name: "price missing", status: http.StatusOK, body: `{"bitcoin":{"usd_24h_change":1.0}}`, wantErr: ErrCoinNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"status":{"error_code":429}}`},
		{name: "malformed json", status: http.StatusOK, body: `{"bitcoin":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, _, err := client.SimplePriceUSD(context.Background(), "bitcoin")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSimplePriceUSDEmptyCoin(t *testing.T) {
	client := NewClient()
	_, _, err := client.SimplePriceUSD(context.Background(), "  ")
	require.Error(t, err)
}
