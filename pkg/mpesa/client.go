// Package mpesa implements the Daraja STK push gateway client.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"pesaflow/config"
)

// tokenRefreshMargin renews the cached bearer token this long before expiry.
const tokenRefreshMargin = 60 * time.Second

const (
	TransactionTypePaybill = "CustomerPayBillOnline"
	TransactionTypeTill    = "CustomerBuyGoodsOnline"
)

// GatewayError is a non-zero provider response mapped to a typed error. The
// HTTP status is passed through where the provider supplied one.
type GatewayError struct {
	Code        string
	Description string
	HTTPStatus  int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway rejected request (code %s): %s", e.Code, e.Description)
}

// Client talks to the Daraja API. One Client per process: the credential
// endpoint is rate-limited, so the bearer token is cached behind a mutex and
// refreshed shortly before expiry.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortCode      string
	passkey        string
	callbackURL    string
	client         *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg config.MpesaConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		shortCode:      cfg.ShortCode,
		passkey:        cfg.Passkey,
		callbackURL:    cfg.CallbackURL,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// accessToken returns the cached bearer token, fetching a new one on miss or
// near expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenRefreshMargin)) {
		return c.token, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mpesa auth: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mpesa auth: %d", resp.StatusCode)
	}
	var out tokenResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("mpesa auth: empty token")
	}
	ttl, err := strconv.Atoi(out.ExpiresIn)
	if err != nil || ttl <= 0 {
		ttl = 3600
	}
	c.token = out.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(ttl) * time.Second)
	log.Printf("[MPESA] bearer token refreshed, valid %ds", ttl)
	return c.token, nil
}

// STKPushRequest carries an already-resolved settlement target.
type STKPushRequest struct {
	Amount           float64
	Phone            string
	ShortCode        string // settlement shortcode; empty falls back to the client default
	TransactionType  string // CustomerPayBillOnline or CustomerBuyGoodsOnline
	AccountReference string
	Description      string
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkErrorResp struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// STKPush sends the collection prompt to the payer's phone. A non-zero
// provider response code comes back as a *GatewayError.
func (c *Client) STKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	shortCode := req.ShortCode
	if shortCode == "" {
		shortCode = c.shortCode
	}
	txType := req.TransactionType
	if txType == "" {
		txType = TransactionTypePaybill
	}
	ts := time.Now().Format("20060102150405")
	payload := stkPushPayload{
		BusinessShortCode: shortCode,
		Password:          base64.StdEncoding.EncodeToString([]byte(shortCode + c.passkey + ts)),
		Timestamp:         ts,
		TransactionType:   txType,
		Amount:            strconv.FormatInt(int64(req.Amount), 10),
		PartyA:            phone,
		PartyB:            shortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.callbackURL,
		AccountReference:  truncate(req.AccountReference, 12),
		TransactionDesc:   truncate(req.Description, 13),
	}
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+token)
	log.Printf("[MPESA] STK push shortcode=%s phone=%s amount=%s ref=%s", shortCode, phone, payload.Amount, payload.AccountReference)
	resp, err := c.client.Do(apiReq)
	if err != nil {
		return nil, fmt.Errorf("mpesa stk push: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var apiErr stkErrorResp
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.ErrorCode != "" {
			return nil, &GatewayError{Code: apiErr.ErrorCode, Description: apiErr.ErrorMessage, HTTPStatus: resp.StatusCode}
		}
		return nil, &GatewayError{Code: strconv.Itoa(resp.StatusCode), Description: string(respBody), HTTPStatus: resp.StatusCode}
	}
	var out STKPushResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("mpesa stk push: decode: %w", err)
	}
	if out.ResponseCode != "0" {
		return nil, &GatewayError{Code: out.ResponseCode, Description: out.ResponseDescription, HTTPStatus: resp.StatusCode}
	}
	log.Printf("[MPESA] STK accepted checkout_request_id=%s", out.CheckoutRequestID)
	return &out, nil
}

// NormalizePhone converts a Kenyan MSISDN to the 254XXXXXXXXX wire format.
func NormalizePhone(phone string) (string, error) {
	var digits []byte
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		} else if c != '+' && c != ' ' && c != '-' {
			return "", fmt.Errorf("invalid phone number %q", phone)
		}
	}
	s := string(digits)
	switch {
	case len(s) == 12 && s[:3] == "254":
		return s, nil
	case len(s) == 10 && s[0] == '0':
		return "254" + s[1:], nil
	case len(s) == 9 && (s[0] == '7' || s[0] == '1'):
		return "254" + s, nil
	}
	return "", fmt.Errorf("invalid phone number %q", phone)
}

// truncate caps s at n characters without splitting a multi-byte rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
