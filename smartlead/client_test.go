package smartlead

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-key", 2*time.Second, nil)
}

func TestCreateCampaign(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/campaigns/create", r.URL.Path)
		assert.Equal(t, "secret-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Q3 outbound", body["name"])
		assert.NotContains(t, body, "client_id")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 4242, "name": "Q3 outbound", "status": "DRAFTED"}`))
	})

	campaign, err := c.CreateCampaign(context.Background(), "Q3 outbound", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4242), campaign.ID)
	assert.Equal(t, StatusDrafted, campaign.Status)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Invalid API key"}`))
	})

	_, err := c.GetCampaign(context.Background(), 7)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid API key", apiErr.Message)
}

func TestUpdateCampaignStatus(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/campaigns/7/status", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = body["status"]
		_, _ = w.Write([]byte(`{"ok": true}`))
	})

	require.NoError(t, c.UpdateCampaignStatus(context.Background(), 7, StatusPaused))
	assert.Equal(t, StatusPaused, got)

	assert.Error(t, c.UpdateCampaignStatus(context.Background(), 7, "RUNNING"))
}

func TestDeleteCampaignWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, c.DeleteCampaign(context.Background(), 9))
}

func TestUnconfiguredClient(t *testing.T) {
	c := NewClient("", "", 0, nil)
	assert.False(t, c.Configured())

	_, err := c.GetCampaign(context.Background(), 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetCampaign(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
