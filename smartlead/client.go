package smartlead

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const DefaultBaseURL = "https://server.smartlead.ai/api/v1"

// Status values accepted by UpdateCampaignStatus and reported by GetCampaign.
const (
	StatusStart     = "START"
	StatusPaused    = "PAUSED"
	StatusStopped   = "STOPPED"
	StatusCompleted = "COMPLETED"
	StatusActive    = "ACTIVE"
	StatusDrafted   = "DRAFTED"
)

// Campaign holds the SmartLead campaign fields this service reads.
type Campaign struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	MaxLeadsPerDay  int    `json:"max_leads_per_day"`
	SendAsPlainText bool   `json:"send_as_plain_text"`
	ClientID        *int64 `json:"client_id"`
	CreatedAt       string `json:"created_at"`
}

// APIError is a non-2xx answer from SmartLead.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("smartlead: %s (status %d)", e.Message, e.StatusCode)
}

// Client talks to the SmartLead REST API. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *fasthttp.Client
	log     *logrus.Entry
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *logrus.Entry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logrus.WithField("component", "smartlead")
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                "coldcommand",
			MaxConnsPerHost:     32,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		log: log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// CreateCampaign creates a campaign; clientID may be nil.
func (c *Client) CreateCampaign(ctx context.Context, name string, clientID *int64) (*Campaign, error) {
	body := map[string]interface{}{"name": name}
	if clientID != nil {
		body["client_id"] = *clientID
	}
	var out Campaign
	if err := c.do(ctx, fasthttp.MethodPost, "/campaigns/create", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCampaign(ctx context.Context, id int64) (*Campaign, error) {
	var out Campaign
	if err := c.do(ctx, fasthttp.MethodGet, campaignPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCampaignStatus sets START, PAUSED or STOPPED.
func (c *Client) UpdateCampaignStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case StatusStart, StatusPaused, StatusStopped:
	default:
		return fmt.Errorf("smartlead: unsupported status %q", status)
	}
	return c.do(ctx, fasthttp.MethodPost, campaignPath(id)+"/status", map[string]string{"status": status}, nil)
}

func (c *Client) DeleteCampaign(ctx context.Context, id int64) error {
	return c.do(ctx, fasthttp.MethodDelete, campaignPath(id), nil, nil)
}

func campaignPath(id int64) string {
	return "/campaigns/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	if !c.Configured() {
		return &APIError{Message: "SmartLead API key is not configured", StatusCode: fasthttp.StatusServiceUnavailable}
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + endpoint + "?api_key=" + url.QueryEscape(c.apiKey))
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		req.SetBody(payload)
	}

	start := time.Now()
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		c.log.WithError(err).WithField("endpoint", endpoint).Error("SmartLead request failed")
		return fmt.Errorf("smartlead %s %s: %w", method, endpoint, err)
	}

	status := resp.StatusCode()
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
		"status":   status,
		"duration": time.Since(start).String(),
	}).Debug("SmartLead request")

	if status < 200 || status >= 300 {
		return &APIError{Message: errorMessage(resp.Body()), StatusCode: status}
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("smartlead: decode %s: %w", endpoint, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "SmartLead API error"
}
