// Package notify delivers booking change notifications through the EmailJS
// REST API. Delivery is best effort; the dispatcher turns every outcome into
// a status sentence instead of an error.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrQuotaExceeded signals the provider refused the send because the account
// ran out of email quota for the period.
var ErrQuotaExceeded = errors.New("notify: email quota exceeded")

// TemplateParams carries the template variables for one notification email.
type TemplateParams struct {
	Action      string `json:"action"`
	UserName    string `json:"user_name"`
	UserSector  string `json:"user_sector"`
	BookingDay  string `json:"booking_day"`
	BookingTime string `json:"booking_time"`
	ToEmail     string `json:"to_email"`
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams TemplateParams `json:"template_params"`
}

// EmailJSClient sends transactional emails through the EmailJS HTTP API.
type EmailJSClient struct {
	baseURL    string
	serviceID  string
	templateID string
	publicKey  string
	httpClient *http.Client
}

// NewEmailJSClient builds a client for the given account. Any empty
// identifier leaves the client unconfigured, which callers can detect with
// Configured.
func NewEmailJSClient(baseURL, serviceID, templateID, publicKey string, httpClient *http.Client) *EmailJSClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &EmailJSClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		httpClient: httpClient,
	}
}

// Configured reports whether the client has the account identifiers needed
// to send.
func (c *EmailJSClient) Configured() bool {
	if c == nil {
		return false
	}
	return c.baseURL != "" && c.serviceID != "" && c.templateID != "" && c.publicKey != ""
}

// Send posts one templated email. A 426 response maps to ErrQuotaExceeded so
// callers can stop a batch early.
func (c *EmailJSClient) Send(ctx context.Context, params TemplateParams) error {
	if !c.Configured() {
		return fmt.Errorf("notify: EmailJS client is not configured")
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      c.serviceID,
		TemplateID:     c.templateID,
		UserID:         c.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("notify: encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1.0/email/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUpgradeRequired {
		return ErrQuotaExceeded
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: send email: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
