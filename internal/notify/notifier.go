package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"secondbrain/pkg/metrics"
)

// Severity of an outbound notification. Warnings and above route to the
// alert channel, everything else to the log channel.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notifier delivers notifications. Delivery is strictly best-effort: the
// return value reports success but callers never treat false as an error.
type Notifier interface {
	Notify(title, message string, severity Severity) bool
}

// SlackNotifier posts block-formatted messages to Slack incoming webhooks,
// one webhook for routine traffic and one for alerts.
type SlackNotifier struct {
	webhookLog   string
	webhookAlert string
	httpClient   *http.Client
	logger       *zap.Logger
}

func NewSlackNotifier(webhookLog, webhookAlert string, logger *zap.Logger) *SlackNotifier {
	if webhookLog == "" && webhookAlert == "" {
		logger.Warn("No Slack webhook configured, notifications disabled")
	}
	return &SlackNotifier{
		webhookLog:   webhookLog,
		webhookAlert: webhookAlert,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
	Text   string       `json:"text"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Notify posts the message to the webhook for its severity. Failures are
// logged and reported as false, never escalated.
func (n *SlackNotifier) Notify(title, message string, severity Severity) bool {
	webhook := n.webhookFor(severity)
	if webhook == "" {
		n.logger.Debug("Notification skipped, no webhook for severity",
			zap.String("severity", string(severity)),
			zap.String("title", title),
		)
		return false
	}

	payload := buildPayload(title, message, severity)

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("Failed to marshal Slack payload", zap.Error(err))
		metrics.NotificationsSent.WithLabelValues(string(severity), "error").Inc()
		return false
	}

	resp, err := n.httpClient.Post(webhook, "application/json", bytes.NewReader(body))
	if err != nil {
		n.logger.Error("Slack notification failed", zap.Error(err))
		metrics.NotificationsSent.WithLabelValues(string(severity), "error").Inc()
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Error("Slack webhook returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("title", title),
		)
		metrics.NotificationsSent.WithLabelValues(string(severity), "error").Inc()
		return false
	}

	n.logger.Info("Notification sent",
		zap.String("severity", string(severity)),
		zap.String("title", title),
	)
	metrics.NotificationsSent.WithLabelValues(string(severity), "ok").Inc()
	return true
}

func (n *SlackNotifier) webhookFor(severity Severity) string {
	if severity == SeverityWarning || severity == SeverityCritical {
		if n.webhookAlert != "" {
			return n.webhookAlert
		}
	}
	if n.webhookLog != "" {
		return n.webhookLog
	}
	return n.webhookAlert
}

func buildPayload(title, message string, severity Severity) slackMessage {
	emoji := severityEmoji(severity)

	return slackMessage{
		Text: fmt.Sprintf("%s %s: %s", emoji, title, message),
		Blocks: []slackBlock{
			{
				Type: "header",
				Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("%s %s", emoji, title), Emoji: true},
			},
			{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: message},
			},
			{Type: "divider"},
		},
	}
}

func severityEmoji(severity Severity) string {
	switch severity {
	case SeverityCritical:
		return "🚨"
	case SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}
