package devices

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultFetchAttempts = 3
	defaultFetchDelay    = 500 * time.Millisecond
)

// Source provides the device catalogue a wizard session is configured with
type Source interface {
	Catalogue(ctx context.Context) (*Catalogue, error)
}

type Client struct {
	logger      *zap.SugaredLogger
	restyClient *resty.Client
	attempts    uint
	delay       time.Duration
}

var _ Source = &Client{}

func NewClient(config Config, logger *zap.SugaredLogger) *Client {
	return &Client{
		logger: logger,
		restyClient: resty.New().
			SetBaseURL(config.Host).
			SetTimeout(config.Timeout),
		attempts: defaultFetchAttempts,
		delay:    defaultFetchDelay,
	}
}

func (c *Client) Catalogue(ctx context.Context) (*Catalogue, error) {
	var catalogue *Catalogue
	fetch := func() error {
		result, err := c.fetch(ctx)
		if err != nil {
			c.logger.Warnw("unable to fetch device catalogue", zap.Error(err))
			return err
		}
		catalogue = result
		return nil
	}

	err := retry.Do(
		fetch,
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch device catalogue: %w", err)
	}
	return catalogue, nil
}

func (c *Client) fetch(ctx context.Context) (*Catalogue, error) {
	catalogue := &Catalogue{}
	httpErr := &ErrorResponse{}
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetResult(catalogue).
		SetError(httpErr).
		Get("/v1/devices")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		httpErr.StatusCode = resp.StatusCode()
		return nil, httpErr
	}
	return catalogue, nil
}

type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("unexpected response from device service: %v %v", e.StatusCode, e.Message)
}
