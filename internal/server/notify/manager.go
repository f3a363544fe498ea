package notify

import (
	"sync"
	"time"

	"wkmetrics/internal/server/config"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// Notifier delivers alerts about indicator observations
type Notifier interface {
	NotifyCriticalValue(value *types.IndicatorValue) error
}

// Manager fans critical value alerts out to the configured notifiers.
// Alerts for the same indicator are suppressed within the cooldown
// window so a burst of bad observations does not flood the channels.
type Manager struct {
	notifiers []Notifier
	cooldown  time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	lastSent map[string]time.Time
}

// NewManager creates a new notification manager
func NewManager(cfg *config.NotifyConfig, logger *zap.Logger) (*Manager, error) {
	m := &Manager{
		cooldown: cfg.Cooldown,
		logger:   logger,
		lastSent: make(map[string]time.Time),
	}

	if cfg.Email.Enabled {
		notifier, err := NewEmailNotifier(&cfg.Email, logger)
		if err != nil {
			return nil, err
		}
		m.notifiers = append(m.notifiers, notifier)
	}

	if cfg.Slack.Enabled {
		notifier, err := NewSlackNotifier(&cfg.Slack, logger)
		if err != nil {
			return nil, err
		}
		m.notifiers = append(m.notifiers, notifier)
	}

	if cfg.Webhook.Enabled {
		notifier, err := NewWebhookNotifier(&cfg.Webhook, logger)
		if err != nil {
			return nil, err
		}
		m.notifiers = append(m.notifiers, notifier)
	}

	return m, nil
}

// NotifyCriticalValue delivers a critical value alert to every
// configured channel, honoring the per-indicator cooldown
func (m *Manager) NotifyCriticalValue(value *types.IndicatorValue) {
	if len(m.notifiers) == 0 {
		return
	}

	if !m.shouldSend(value.IndicatorID) {
		m.logger.Debug("Suppressing critical value alert within cooldown",
			zap.String("indicator_id", value.IndicatorID))
		return
	}

	for _, notifier := range m.notifiers {
		go func(n Notifier) {
			if err := n.NotifyCriticalValue(value); err != nil {
				m.logger.Error("Failed to send critical value alert",
					zap.Error(err),
					zap.String("indicator_id", value.IndicatorID))
			}
		}(notifier)
	}
}

// shouldSend checks and updates the cooldown window for an indicator
func (m *Manager) shouldSend(indicatorID string) bool {
	if m.cooldown <= 0 {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if last, ok := m.lastSent[indicatorID]; ok && now.Sub(last) < m.cooldown {
		return false
	}

	m.lastSent[indicatorID] = now
	return true
}

// indicatorLabel returns a display label for the alerted indicator
func indicatorLabel(value *types.IndicatorValue) string {
	if value.Indicator != nil && value.Indicator.Name != "" {
		return value.Indicator.Name
	}
	return value.IndicatorID
}
