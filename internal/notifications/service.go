package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"podlinks/internal/config"
)

const userAgent = "podlinks/0.1.0"

// Service defines the notification surface used by the CLI.
type Service interface {
	NotifyReportReady(ctx context.Context, episode string, websites int, reportPath string) error
	NotifyRunFailed(ctx context.Context, reference string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyReportReady(ctx context.Context, episode string, websites int, reportPath string) error {
	episode = strings.TrimSpace(episode)
	if episode == "" {
		episode = "episode"
	}
	var message string
	switch websites {
	case 0:
		message = fmt.Sprintf("No websites mentioned in %s", episode)
	case 1:
		message = fmt.Sprintf("1 website found in %s", episode)
	default:
		message = fmt.Sprintf("%d websites found in %s", websites, episode)
	}
	if reportPath = strings.TrimSpace(reportPath); reportPath != "" {
		message += "\nReport: " + reportPath
	}
	return n.send(ctx, payload{
		title:   "podlinks - Report Ready",
		message: message,
		tags:    []string{"podlinks", "report", "completed"},
	})
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, reference string, err error) error {
	var builder strings.Builder
	builder.WriteString("Run failed")
	if reference = strings.TrimSpace(reference); reference != "" {
		builder.WriteString(" for ")
		builder.WriteString(reference)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "podlinks - Error",
		message:  builder.String(),
		tags:     []string{"podlinks", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "podlinks - Test",
		message:  "Notification system test",
		tags:     []string{"podlinks", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyReportReady(context.Context, string, int, string) error { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error        { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
