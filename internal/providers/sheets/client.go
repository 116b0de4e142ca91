package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/retry"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

const (
	DefaultBaseURL = "https://sheets.googleapis.com"

	// PlaceholderAPIKey is the unedited sample key; it counts as no key
	PlaceholderAPIKey = "YOUR_GOOGLE_SHEETS_API_KEY"
)

// Mode selects between the live API and the demonstration dataset
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// ResolveMode returns ModeDemo iff apiKey is not a usable credential
func ResolveMode(apiKey string) Mode {
	key := strings.TrimSpace(apiKey)
	if key == "" || key == PlaceholderAPIKey {
		return ModeDemo
	}
	return ModeLive
}

// Config holds the Sheets client settings
type Config struct {
	BaseURL string
	APIKey  string
	Mode    Mode
	Timeout time.Duration
	Retry   *retry.RetryPolicy // nil means a single attempt
}

// Client reads cell values from the Google Sheets values API
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	apiKey     string
	mode       Mode
	retry      *retry.RetryPolicy
}

// New creates a new Sheets API client
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	policy := cfg.Retry
	if policy == nil {
		policy = retry.NewRetryPolicy(1, 0, nil)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "Mozilla/5.0 (compatible; FortunaDashboard/1.0)",
		baseURL:   baseURL,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		mode:      cfg.Mode,
		retry:     policy,
	}
}

// Mode reports whether the client serves live or demo data
func (c *Client) Mode() Mode {
	return c.mode
}

// FetchRows returns the rows of loc's range. In demo mode it returns the
// demonstration dataset without touching the network.
func (c *Client) FetchRows(ctx context.Context, loc models.SourceLocator) ([]models.Row, error) {
	if c.mode == ModeDemo {
		return DemoRows(), nil
	}
	if c.apiKey == "" || c.apiKey == PlaceholderAPIKey {
		return nil, &models.FetchError{Kind: models.FetchCredentials}
	}

	var rows []models.Row
	err := c.retry.Execute(ctx, func() error {
		var err error
		rows, err = c.fetch(ctx, c.valuesURL(loc))
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// valuesURL builds GET /v4/spreadsheets/{id}/values/{range}?key=...
func (c *Client) valuesURL(loc models.SourceLocator) string {
	q := url.Values{}
	q.Set("key", c.apiKey)
	return fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?%s",
		c.baseURL, url.PathEscape(loc.TableID), url.PathEscape(loc.Range), q.Encode())
}

// fetch makes an HTTP GET request and parses the values array
func (c *Client) fetch(ctx context.Context, rawURL string) ([]models.Row, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchMalformed, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchTransport, Err: fmt.Errorf("making request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchTransport, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.FetchError{Kind: models.FetchHTTP, Status: resp.StatusCode, Body: string(body)}
	}

	return parseValues(body)
}

// Retryable reports whether a fetch error is worth another attempt
func Retryable(err error) bool {
	var fetchErr *models.FetchError
	return errors.As(err, &fetchErr) && fetchErr.Temporary()
}

// parseValues extracts the "values" array; a missing array means no rows
func parseValues(body []byte) ([]models.Row, error) {
	if !gjson.ValidBytes(body) {
		return nil, &models.FetchError{Kind: models.FetchMalformed, Err: fmt.Errorf("response is not valid JSON")}
	}

	values := gjson.GetBytes(body, "values")
	if !values.Exists() {
		return []models.Row{}, nil
	}
	if !values.IsArray() {
		return nil, &models.FetchError{Kind: models.FetchMalformed, Err: fmt.Errorf("values is %s, not an array", values.Type)}
	}

	var parseErr error
	rows := make([]models.Row, 0, int(values.Get("#").Int()))
	values.ForEach(func(_, v gjson.Result) bool {
		if !v.IsArray() {
			parseErr = &models.FetchError{Kind: models.FetchMalformed, Err: fmt.Errorf("row %d is not an array", len(rows))}
			return false
		}
		cells := v.Array()
		row := make(models.Row, len(cells))
		for i, cell := range cells {
			row[i] = cell.String()
		}
		rows = append(rows, row)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return rows, nil
}
