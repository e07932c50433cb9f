// Package pesapal wraps the Pesapal v3 payment API: token issuance, order
// submission, transaction status queries and IPN URL registration. The client
// keeps no state between calls; the gateway is the source of truth and a
// token is fetched fresh for every logical operation.
package pesapal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jobpopapp/backend/internal/metrics"
)

const requestTimeout = 10 * time.Second

var (
	// ErrAuth covers credential and token-issuance failures.
	ErrAuth = errors.New("pesapal: authentication failed")
	// ErrGateway covers transport and non-2xx failures on authenticated calls.
	ErrGateway = errors.New("pesapal: gateway request failed")
)

type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

func NewClient(baseURL, consumerKey, consumerSecret string) *Client {
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type authRequest struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
}

type authResponse struct {
	Token      string `json:"token"`
	ExpiryDate string `json:"expiryDate"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// TransactionStatus is the gateway's answer to a status query. The gateway
// signals success inconsistently between its API shapes: some responses carry
// PaymentStatusDescription=="COMPLETED", others StatusCode==1. Confirmed
// honors both.
type TransactionStatus struct {
	PaymentMethod            string  `json:"payment_method"`
	Amount                   float64 `json:"amount"`
	ConfirmationCode         string  `json:"confirmation_code"`
	PaymentStatusDescription string  `json:"payment_status_description"`
	Description              string  `json:"description"`
	PaymentAccount           string  `json:"payment_account"`
	MerchantReference        string  `json:"merchant_reference"`
	Currency                 string  `json:"currency"`
	StatusCode               int     `json:"status_code"`
}

// Confirmed reports whether the gateway considers the payment complete.
func (ts *TransactionStatus) Confirmed() bool {
	return ts.PaymentStatusDescription == "COMPLETED" || ts.StatusCode == 1
}

type BillingAddress struct {
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
	CountryCode  string `json:"country_code"`
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name"`
	Line1        string `json:"line_1"`
	Line2        string `json:"line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	ZipCode      string `json:"zip_code"`
}

type OrderRequest struct {
	ID             string         `json:"id"`
	Currency       string         `json:"currency"`
	Amount         string         `json:"amount"`
	Description    string         `json:"description"`
	CallbackURL    string         `json:"callback_url"`
	RedirectMode   string         `json:"redirect_mode"`
	NotificationID string         `json:"notification_id"`
	Branch         string         `json:"branch"`
	BillingAddress BillingAddress `json:"billing_address"`
}

type OrderResponse struct {
	OrderTrackingID   string `json:"order_tracking_id"`
	MerchantReference string `json:"merchant_reference"`
	RedirectURL       string `json:"redirect_url"`
	Status            string `json:"status"`
}

type IPNRegistration struct {
	URL         string `json:"url"`
	IPNID       string `json:"ipn_id"`
	CreatedDate string `json:"created_date"`
	Status      string `json:"status"`
}

// Authenticate exchanges the configured consumer key/secret for a short-lived
// bearer token. Tokens are not cached; token expiry is the gateway's concern.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(authRequest{
		ConsumerKey:    c.consumerKey,
		ConsumerSecret: c.consumerSecret,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Auth/RequestToken", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGatewayRequest("auth", "error")
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordGatewayRequest("auth", "error")
		return "", fmt.Errorf("%w: unexpected status %d", ErrAuth, resp.StatusCode)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		metrics.RecordGatewayRequest("auth", "error")
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if ar.Token == "" {
		metrics.RecordGatewayRequest("auth", "error")
		return "", fmt.Errorf("%w: empty token in response", ErrAuth)
	}

	metrics.RecordGatewayRequest("auth", "ok")
	return ar.Token, nil
}

// GetTransactionStatus authenticates and queries the gateway for the status
// of one transaction. No retries; the caller's next trigger repeats the whole
// reconciliation if this fails.
func (c *Client) GetTransactionStatus(ctx context.Context, orderTrackingID string) (*TransactionStatus, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/Transactions/GetTransactionStatus?orderTrackingId=" + url.QueryEscape(orderTrackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGatewayRequest("transaction_status", "error")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordGatewayRequest("transaction_status", "error")
		return nil, fmt.Errorf("%w: unexpected status %d", ErrGateway, resp.StatusCode)
	}

	var ts TransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&ts); err != nil {
		metrics.RecordGatewayRequest("transaction_status", "error")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	metrics.RecordGatewayRequest("transaction_status", "ok")
	return &ts, nil
}

// SubmitOrder submits a payment order and returns the gateway's tracking id
// and hosted-payment redirect URL.
func (c *Client) SubmitOrder(ctx context.Context, order *OrderRequest) (*OrderResponse, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Transactions/SubmitOrderRequest", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGatewayRequest("submit_order", "error")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordGatewayRequest("submit_order", "error")
		return nil, fmt.Errorf("%w: unexpected status %d", ErrGateway, resp.StatusCode)
	}

	var or OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		metrics.RecordGatewayRequest("submit_order", "error")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if or.OrderTrackingID == "" {
		metrics.RecordGatewayRequest("submit_order", "error")
		return nil, fmt.Errorf("%w: missing order_tracking_id in response", ErrGateway)
	}

	metrics.RecordGatewayRequest("submit_order", "ok")
	return &or, nil
}

// RegisterIPN registers a notification URL with the gateway. The returned
// ipn_id must be configured as PESAPAL_IPN_ID for order submission.
func (c *Client) RegisterIPN(ctx context.Context, ipnURL string) (*IPNRegistration, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{
		"url":                   ipnURL,
		"ipn_notification_type": "POST",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/URLSetup/RegisterIPNURL", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGatewayRequest("register_ipn", "error")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordGatewayRequest("register_ipn", "error")
		return nil, fmt.Errorf("%w: unexpected status %d", ErrGateway, resp.StatusCode)
	}

	var reg IPNRegistration
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil {
		metrics.RecordGatewayRequest("register_ipn", "error")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	metrics.RecordGatewayRequest("register_ipn", "ok")
	return &reg, nil
}
