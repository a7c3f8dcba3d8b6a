package prescriptions

//go:generate mockgen --build_flags=--mod=mod -source=./client.go -destination=./mock_service.go -package=prescriptions Service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/tidepool-org/prescription-wizard/prescription"
)

const sessionTokenHeader = "X-Tidepool-Session-Token"

// Service is the prescription service boundary used by the wizard
type Service interface {
	GetPrescription(ctx context.Context, token, clinicId, prescriptionId string) (*prescription.Prescription, error)
	CreatePrescription(ctx context.Context, token, clinicId string, attrs prescription.Attributes) (*prescription.Prescription, error)
	CreatePrescriptionRevision(ctx context.Context, token, clinicId, prescriptionId string, attrs prescription.Attributes) (*prescription.Prescription, error)
}

type Client struct {
	logger      *zap.SugaredLogger
	restyClient *resty.Client
	rateLimiter *RateLimiter
}

var _ Service = &Client{}

func NewClient(config Config, rateLimiter *RateLimiter, logger *zap.SugaredLogger) *Client {
	return &Client{
		logger: logger,
		restyClient: resty.New().
			SetBaseURL(config.Host).
			SetTimeout(config.Timeout),
		rateLimiter: rateLimiter,
	}
}

func (c *Client) GetPrescription(ctx context.Context, token, clinicId, prescriptionId string) (*prescription.Prescription, error) {
	result := &prescription.Prescription{}
	httpErr := &ErrorResponse{}
	resp, err := c.request(ctx, token).
		SetPathParams(map[string]string{"clinicId": clinicId, "prescriptionId": prescriptionId}).
		SetResult(result).
		SetError(httpErr).
		Get("/v1/clinics/{clinicId}/prescriptions/{prescriptionId}")

	if err != nil {
		return nil, fmt.Errorf("unable to get prescription: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		httpErr.StatusCode = resp.StatusCode()
		return nil, httpErr
	}
	return result, nil
}

func (c *Client) CreatePrescription(ctx context.Context, token, clinicId string, attrs prescription.Attributes) (*prescription.Prescription, error) {
	c.rateLimiter.WaitOrContinue()
	c.logger.Debugw("creating prescription", "clinicId", clinicId, "revisionHash", attrs[string(prescription.FieldRevisionHash)])

	result := &prescription.Prescription{}
	httpErr := &ErrorResponse{}
	resp, err := c.request(ctx, token).
		SetPathParam("clinicId", clinicId).
		SetBody(attrs).
		SetResult(result).
		SetError(httpErr).
		Post("/v1/clinics/{clinicId}/prescriptions")

	if err != nil {
		return nil, fmt.Errorf("unable to create prescription: %w", err)
	}
	if resp.IsError() {
		httpErr.StatusCode = resp.StatusCode()
		return nil, httpErr
	}
	return result, nil
}

func (c *Client) CreatePrescriptionRevision(ctx context.Context, token, clinicId, prescriptionId string, attrs prescription.Attributes) (*prescription.Prescription, error) {
	c.rateLimiter.WaitOrContinue()
	c.logger.Debugw("creating prescription revision", "clinicId", clinicId, "prescriptionId", prescriptionId, "revisionHash", attrs[string(prescription.FieldRevisionHash)])

	result := &prescription.Prescription{}
	httpErr := &ErrorResponse{}
	resp, err := c.request(ctx, token).
		SetPathParams(map[string]string{"clinicId": clinicId, "prescriptionId": prescriptionId}).
		SetBody(attrs).
		SetResult(result).
		SetError(httpErr).
		Post("/v1/clinics/{clinicId}/prescriptions/{prescriptionId}/revisions")

	if err != nil {
		return nil, fmt.Errorf("unable to create prescription revision: %w", err)
	}
	if resp.IsError() {
		httpErr.StatusCode = resp.StatusCode()
		return nil, httpErr
	}
	return result, nil
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.restyClient.R().SetContext(ctx)
	if token != "" {
		req.SetHeader(sessionTokenHeader, token)
	}
	return req
}

type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("unexpected response from prescription service: %v %v", e.StatusCode, e.Message)
}
