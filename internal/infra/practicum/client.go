// Package practicum implements the client for the Practicum homework statuses API.
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the homework statuses endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient HTTPDoer
	logger     *logrus.Entry
	now        func() time.Time
}

// NewClient builds a client for endpoint authorized with the OAuth token.
// A nil httpClient gets a plain *http.Client with the given timeout.
func NewClient(endpoint, token string, httpClient HTTPDoer, timeout time.Duration, logger *logrus.Entry) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// GetAPIAnswer requests statuses changed since fromDate (unix seconds).
// A nil fromDate means "now". The decoded JSON body is returned untouched.
func (c *Client) GetAPIAnswer(ctx context.Context, fromDate *int64) (any, error) {
	const op = "GetAPIAnswer"

	ts := c.now().Unix()
	if fromDate != nil {
		ts = *fromDate
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &homework.Error{Kind: homework.KindRequest, Op: op, Message: "invalid endpoint", Err: err}
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(ts, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &homework.Error{Kind: homework.KindRequest, Op: op, Message: "create request", Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", ts).Debug("Sending request to the API endpoint")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Request to the main API failed")
		return nil, &homework.Error{Kind: homework.KindRequest, Op: op, Message: "request to the main API failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		c.logger.WithField("status_code", resp.StatusCode).Error("API response status is not 200")
		return nil, &homework.Error{
			Kind:       homework.KindHTTPStatus,
			Op:         op,
			Message:    fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, c.endpoint),
			StatusCode: resp.StatusCode,
		}
	}

	var answer any
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		c.logger.WithError(err).Error("API response is not valid JSON")
		return nil, &homework.Error{Kind: homework.KindRequest, Op: op, Message: "decode response", Err: err}
	}

	c.logger.Info("API request succeeded. Status 200")
	return answer, nil
}
