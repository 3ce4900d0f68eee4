package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Read loads iCalendar data from a file path or an http(s) URL
func Read(ctx context.Context, source string) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(ctx, source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	if err := validateICalFormat(string(body)); err != nil {
		return nil, err
	}
	return body, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create calendar request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("calendar source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func validateICalFormat(bodyStr string) error {
	trimmed := strings.TrimSpace(strings.TrimPrefix(bodyStr, "\ufeff"))

	// HTML usually means a login page in front of the calendar
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}

	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s", preview)
	}
	return nil
}
