package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultLanguage     = "en-US"

	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 40
	defaultRetries   = 3
	defaultDelay     = 500 * time.Millisecond
	userAgent        = "screenlist/1.0"
	maxResponseSize  = 5 * 1024 * 1024 // 5MB
)

// StatusError is a non-2xx answer from TMDB.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d", e.Code)
}

// Client talks to the TMDB v3 API.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxRetries   uint
	retryDelay   time.Duration
	logger       *logrus.Logger
}

type ClientConfig struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Timeout      time.Duration
	// RateLimit is the sustained requests per second; zero or less disables limiting.
	RateLimit  float64
	MaxRetries uint
	RetryDelay time.Duration
	Logger     *logrus.Logger
	HTTPClient *http.Client
}

func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.ImageBaseURL == "" {
		config.ImageBaseURL = DefaultImageBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaultRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaultDelay
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   20,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}

	return &Client{
		baseURL:      config.BaseURL,
		imageBaseURL: config.ImageBaseURL,
		apiKey:       config.APIKey,
		httpClient:   httpClient,
		limiter:      rate.NewLimiter(limit, defaultRateLimit),
		maxRetries:   config.MaxRetries,
		retryDelay:   config.RetryDelay,
		logger:       config.Logger,
	}
}

// Fetch GETs path and decodes the JSON body into T.
// Every failure (transport, timeout, non-2xx, oversize or malformed body) is
// logged and reported as absent; Fetch never returns an error.
func Fetch[T any](ctx context.Context, c *Client, path string, query url.Values) (T, bool) {
	var zero T

	body, err := c.get(ctx, path, query)
	if err != nil {
		c.logger.WithError(err).WithField("path", path).Warn("TMDB request failed")
		return zero, false
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		c.logger.WithError(err).WithField("path", path).Warn("Failed to decode TMDB response")
		return zero, false
	}
	return out, true
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body []byte
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			req.Header.Set("Accept", "application/json")
			req.Header.Set("User-Agent", userAgent)
			if c.apiKey != "" {
				req.Header.Set("Authorization", "Bearer "+c.apiKey)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to make HTTP request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				statusErr := &StatusError{Code: resp.StatusCode}
				if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
					return statusErr
				}
				return retry.Unrecoverable(statusErr)
			}

			b, err := readRespBody(resp)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetries),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.WithFields(logrus.Fields{
				"attempt": n + 1,
				"path":    path,
				"error":   err.Error(),
			}).Warn("TMDB request failed, retrying...")
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func readRespBody(resp *http.Response) ([]byte, error) {
	if resp.ContentLength > maxResponseSize {
		return nil, fmt.Errorf("response too large: %d bytes", resp.ContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxResponseSize {
		return nil, errors.New("response too large: exceeded 5MB")
	}
	return body, nil
}

// ImageURL turns a TMDB poster path into an absolute URL; empty paths stay nil.
func (c *Client) ImageURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	abs := c.imageBaseURL + *path
	return &abs
}
