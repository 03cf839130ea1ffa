package services

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"starpets-hunter/models"
	"starpets-hunter/utils"
)

// Notifier dispatches alerts as plain-text push notifications to an ntfy
// topic. With no topic configured it becomes a no-op.
type Notifier struct {
	server string
	topic  string
	client *http.Client
	logger *utils.Logger
}

// NewNotifier creates a Notifier posting to server/topic. server is the
// ntfy base URL (normally https://ntfy.sh); topic may be empty to disable
// notifications entirely.
func NewNotifier(server, topic string, logger *utils.Logger) *Notifier {
	return &Notifier{
		server: strings.TrimRight(server, "/"),
		topic:  topic,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Enabled reports whether a topic is configured.
func (n *Notifier) Enabled() bool {
	return n.topic != ""
}

// NotifyAll sends one notification per alert. Delivery failures are logged
// and do not block the remaining alerts.
func (n *Notifier) NotifyAll(alerts []*models.Alert) {
	if !n.Enabled() {
		if len(alerts) > 0 {
			n.logger.Warn("[notify] NTFY_TOPIC not set — %d alerts not dispatched", len(alerts))
		}
		return
	}

	for _, a := range alerts {
		if err := n.send(FormatAlert(a)); err != nil {
			n.logger.Warn("[notify] Could not deliver alert for %q: %v", a.ObservedName, err)
			continue
		}
		n.logger.Info("[notify] Alert sent: %s for %.2f€", a.ObservedName, a.Price)
	}
}

// FormatAlert renders the notification body for one alert.
func FormatAlert(a *models.Alert) string {
	return fmt.Sprintf("%s for %.2f€! (Target <= %g€)", a.ObservedName, a.Price, a.MaxPrice)
}

func (n *Notifier) send(message string) error {
	url := n.server + "/" + n.topic

	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("ntfy: build request: %w", err)
	}
	req.Header.Set("Title", "Starpets Price Alert")
	req.Header.Set("Priority", "high")
	req.Header.Set("Tags", "money_with_wings,star")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("ntfy: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy: unexpected status %s", resp.Status)
	}
	return nil
}
