package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"k8s.io/klog/v2"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

// AppsScript talks to a spreadsheet-backed web app that serves the
// dashboard document on GET and accepts one record per POST.
type AppsScript struct {
	// URL is the deployed web app endpoint.
	URL string
	// Client performs the requests. Defaults to http.DefaultClient.
	Client *http.Client
	// Clock supplies the cache-busting timestamp. Defaults to time.Now.
	Clock func() time.Time
}

// NewAppsScript returns a client for the web app at endpoint.
func NewAppsScript(endpoint string, client *http.Client) *AppsScript {
	return &AppsScript{URL: endpoint, Client: client}
}

// Name implements Source.
func (a *AppsScript) Name() string { return "apps-script" }

func (a *AppsScript) client() *http.Client {
	if a.Client == nil {
		return http.DefaultClient
	}
	return a.Client
}

// Fetch implements Source.
func (a *AppsScript) Fetch(ctx context.Context) (*models.DashboardData, error) {
	log := klog.FromContext(ctx)

	if a.URL == "" {
		return nil, errors.New("apps script URL is not set")
	}
	u, err := url.Parse(a.URL)
	if err != nil {
		return nil, fmt.Errorf("parse apps script URL: %w", err)
	}
	q := u.Query()
	q.Set("_cacheBust", strconv.FormatInt(clockOrNow(a.Clock).UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	log.V(1).Info("fetching dashboard", "host", u.Host)
	resp, err := a.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dashboard: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read dashboard response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload jsonObject
		if json.Unmarshal(body, &payload) == nil {
			if msg, ok := upstreamError(payload); ok {
				return nil, fmt.Errorf("%w: %s (status %d)", ErrUpstream, msg, resp.StatusCode)
			}
		}
		return nil, fmt.Errorf("fetch dashboard: unexpected status %s", resp.Status)
	}

	return DecodeDashboard(body)
}

// Submit implements Writer. The record is sent as a JSON text body; a
// non-2xx status or a {"status":"error"} reply is returned as *WriteError.
func (a *AppsScript) Submit(ctx context.Context, entry models.FormEntry) error {
	if a.URL == "" {
		return errors.New("apps script URL is not set")
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := a.client().Do(req)
	if err != nil {
		return fmt.Errorf("submit record: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read submit response: %w", err)
	}

	var reply models.WriteResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &WriteError{StatusCode: resp.StatusCode, Message: "submit failed: " + resp.Status}
		}
		return fmt.Errorf("decode submit response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || reply.Status == "error" {
		msg := reply.Message
		if msg == "" {
			msg = "submit failed: " + resp.Status
		}
		return &WriteError{StatusCode: resp.StatusCode, Message: msg}
	}
	return nil
}
