package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"wkmetrics/internal/server/config"
	"wkmetrics/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func criticalValue(indicatorID string) *types.IndicatorValue {
	v := 12.5
	return &types.IndicatorValue{
		ID:          "val-1",
		IndicatorID: indicatorID,
		Value:       &v,
		PeriodType:  types.PeriodMensal,
		PeriodStart: "2024-01-01",
		PeriodEnd:   "2024-01-31",
		Status:      types.StatusCritical,
		Source:      types.SourceManual,
		Indicator:   &types.Indicator{ID: indicatorID, Name: "Lead Time"},
	}
}

func TestManagerCooldown(t *testing.T) {
	cfg := &config.NotifyConfig{Cooldown: time.Hour}
	m, err := NewManager(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, m.shouldSend("ind-1"))
	assert.False(t, m.shouldSend("ind-1"))

	// Other indicators are tracked independently
	assert.True(t, m.shouldSend("ind-2"))
}

func TestManagerZeroCooldownAlwaysSends(t *testing.T) {
	cfg := &config.NotifyConfig{}
	m, err := NewManager(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, m.shouldSend("ind-1"))
	assert.True(t, m.shouldSend("ind-1"))
}

func TestManagerNoChannelsConfigured(t *testing.T) {
	cfg := &config.NotifyConfig{Cooldown: time.Hour}
	m, err := NewManager(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Empty(t, m.notifiers)
	// Must not panic or touch the cooldown bookkeeping
	m.NotifyCriticalValue(criticalValue("ind-1"))
	assert.True(t, m.shouldSend("ind-1"))
}

func TestSlackNotifier(t *testing.T) {
	var mu sync.Mutex
	var received SlackMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := &config.SlackConfig{
		Enabled:    true,
		WebhookURL: srv.URL,
		Channel:    "#kpis",
		Username:   "wkmetrics",
	}

	n, err := NewSlackNotifier(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, n.NotifyCriticalValue(criticalValue("ind-1")))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "#kpis", received.Channel)
	require.Len(t, received.Attachments, 1)
	assert.Equal(t, "danger", received.Attachments[0].Color)
	assert.Contains(t, received.Attachments[0].Title, "Lead Time")
}

func TestSlackNotifierRejectsDisabledConfig(t *testing.T) {
	_, err := NewSlackNotifier(&config.SlackConfig{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestWebhookNotifier(t *testing.T) {
	var mu sync.Mutex
	var received WebhookPayload
	var eventType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		eventType = r.Header.Get("X-Event-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := &config.WebhookConfig{
		Enabled: true,
		URL:     srv.URL,
		Timeout: 5 * time.Second,
	}

	n, err := NewWebhookNotifier(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, n.NotifyCriticalValue(criticalValue("ind-1")))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "indicator.value.critical", eventType)
	assert.Equal(t, "indicator.value.critical", received.EventType)
	assert.NotEmpty(t, received.EventID)
}

func TestIndicatorLabel(t *testing.T) {
	withName := criticalValue("ind-1")
	assert.Equal(t, "Lead Time", indicatorLabel(withName))

	withName.Indicator = nil
	assert.Equal(t, "ind-1", indicatorLabel(withName))
}
