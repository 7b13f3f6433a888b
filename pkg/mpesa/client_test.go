package mpesa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"pesaflow/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(config.MpesaConfig{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/callback",
		Timeout:        5 * time.Second,
	})
	return c, srv
}

func TestSTKPushCachesToken(t *testing.T) {
	var tokenCalls int64
	var lastPayload stkPushPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "expires_in": "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&lastPayload)
		json.NewEncoder(w).Encode(STKPushResponse{
			MerchantRequestID:   "mr-1",
			CheckoutRequestID:   "ws_CO_123",
			ResponseCode:        "0",
			ResponseDescription: "Success",
		})
	})
	c, _ := newTestClient(t, mux)

	req := STKPushRequest{
		Amount:           1000,
		Phone:            "0712345678",
		AccountReference: "a-very-long-reference-string",
		Description:      "a description beyond the provider limit",
	}
	resp, err := c.STKPush(context.Background(), req)
	if err != nil {
		t.Fatalf("STKPush: %v", err)
	}
	if resp.CheckoutRequestID != "ws_CO_123" {
		t.Errorf("CheckoutRequestID = %q", resp.CheckoutRequestID)
	}
	if _, err := c.STKPush(context.Background(), req); err != nil {
		t.Fatalf("second STKPush: %v", err)
	}
	if n := atomic.LoadInt64(&tokenCalls); n != 1 {
		t.Errorf("token endpoint called %d times, want 1 (cached)", n)
	}
	if lastPayload.PhoneNumber != "254712345678" {
		t.Errorf("phone normalized to %q", lastPayload.PhoneNumber)
	}
	if len(lastPayload.AccountReference) > 12 {
		t.Errorf("AccountReference not truncated: %q", lastPayload.AccountReference)
	}
	if len(lastPayload.TransactionDesc) > 13 {
		t.Errorf("TransactionDesc not truncated: %q", lastPayload.TransactionDesc)
	}
	if lastPayload.BusinessShortCode != "174379" {
		t.Errorf("shortcode = %q", lastPayload.BusinessShortCode)
	}
}

func TestSTKPushNonZeroResponseCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(STKPushResponse{
			ResponseCode:        "1",
			ResponseDescription: "Unable to lock subscriber",
		})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.STKPush(context.Background(), STKPushRequest{Amount: 100, Phone: "254712345678"})
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("want GatewayError, got %v", err)
	}
	if gwErr.Code != "1" || gwErr.Description != "Unable to lock subscriber" {
		t.Errorf("unexpected gateway error: %+v", gwErr)
	}
}

func TestSTKPushProviderHTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(stkErrorResp{ErrorCode: "500.001.1001", ErrorMessage: "Spike arrest violation"})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.STKPush(context.Background(), STKPushRequest{Amount: 100, Phone: "254712345678"})
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("want GatewayError, got %v", err)
	}
	if gwErr.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("HTTPStatus = %d, want 503", gwErr.HTTPStatus)
	}
	if gwErr.Code != "500.001.1001" {
		t.Errorf("Code = %q", gwErr.Code)
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	got := truncate("Café Nürnberg Ordersätze", 12)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 12 {
		t.Errorf("truncated to %d runes, want 12", n)
	}
	if got := truncate("short", 12); got != "short" {
		t.Errorf("short string mutated: %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0712345678", "254712345678", false},
		{"+254712345678", "254712345678", false},
		{"254712345678", "254712345678", false},
		{"712345678", "254712345678", false},
		{"0110123456", "254110123456", false},
		{"0712 345 678", "254712345678", false},
		{"12345", "", true},
		{"not-a-phone", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := NormalizePhone(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("NormalizePhone(%q): want error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePhone(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
