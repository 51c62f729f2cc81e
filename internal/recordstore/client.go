package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/config"

	"go.uber.org/zap"
)

// DefaultMaxRecords caps a single list query when the caller does not
const DefaultMaxRecords = 100

// Record is a single row of a record store table
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime time.Time              `json:"createdTime"`
	Fields      map[string]interface{} `json:"fields"`
}

// ListParams narrows a list query
type ListParams struct {
	Filter     string // formula expression, empty means no filter
	MaxRecords int    // single page cap, <= 0 falls back to DefaultMaxRecords
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// Client talks to the record store REST API. Only the first page of a query is
// ever fetched and failed calls are not retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	baseID     string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a record store client from configuration
func NewClient(cfg config.RecordStoreConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		baseID:     cfg.BaseID,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// List returns the records of table matching params
func (c *Client) List(ctx context.Context, table string, params ListParams) ([]Record, error) {
	maxRecords := params.MaxRecords
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}

	query := url.Values{}
	query.Set("maxRecords", strconv.Itoa(maxRecords))
	if params.Filter != "" {
		query.Set("filterByFormula", params.Filter)
	}

	var resp listResponse
	if err := c.do(ctx, c.tableURL(table)+"?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("Record store query completed",
		zap.String("table", table),
		zap.String("filter", params.Filter),
		zap.Int("max_records", maxRecords),
		zap.Int("count", len(resp.Records)),
	)

	if resp.Records == nil {
		return []Record{}, nil
	}
	return resp.Records, nil
}

// Get returns a single record of table by its identifier
func (c *Client) Get(ctx context.Context, table, id string) (*Record, error) {
	var record Record
	if err := c.do(ctx, c.tableURL(table)+"/"+url.PathEscape(id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/v0/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table))
}

func (c *Client) do(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &RemoteQueryError{Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Record store request failed", zap.Error(err))
		return &RemoteQueryError{Message: err.Error()}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &RemoteQueryError{StatusCode: res.StatusCode, Message: err.Error()}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		qerr := parseRemoteError(res.StatusCode, body)
		c.logger.Warn("Record store returned an error",
			zap.Int("status", res.StatusCode),
			zap.String("type", qerr.Type),
			zap.String("message", qerr.Message),
		)
		return qerr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &RemoteQueryError{StatusCode: res.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}
