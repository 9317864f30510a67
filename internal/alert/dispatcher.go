package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single webhook delivery.
	DefaultTimeout = 10 * time.Second

	alertMessageTemplateConstant         = ":rotating_light: %s is PUBLIC.\nhttps://github.com/%s"
	contentTypeHeaderNameConstant        = "Content-Type"
	contentTypeJSONValueConstant         = "application/json"
	webhookURLRequiredMessageConstant    = "webhook URL must be provided"
	repositoryRequiredMessageConstant    = "repository name must be provided"
	payloadEncodingErrorTemplateConstant = "failed to encode alert payload: %w"
	requestCreationErrorTemplateConstant = "failed to build alert request: %w"
	deliveryErrorTemplateConstant        = "failed to deliver alert for %s: %w"
	rejectionErrorTemplateConstant       = "webhook rejected alert for %s: status %d%s"
	rejectionBodySuffixTemplateConstant  = ": %s"
	rejectionBodyReadLimitConstant       = 2048
)

// ErrWebhookURLRequired indicates the dispatcher was constructed without a webhook URL.
var ErrWebhookURLRequired = errors.New(webhookURLRequiredMessageConstant)

// ErrRepositoryRequired indicates an empty repository name was dispatched.
var ErrRepositoryRequired = errors.New(repositoryRequiredMessageConstant)

// HTTPDoer abstracts the HTTP client used for webhook delivery.
type HTTPDoer interface {
	Do(request *http.Request) (*http.Response, error)
}

// Configuration controls dispatcher construction.
type Configuration struct {
	// WebhookURL is the mandatory webhook endpoint.
	WebhookURL string
	// Timeout bounds each delivery. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the transport, primarily for tests.
	HTTPClient HTTPDoer
}

// Dispatcher posts alert messages to a webhook endpoint.
type Dispatcher struct {
	webhookURL string
	httpClient HTTPDoer
}

type webhookPayload struct {
	Text string `json:"text"`
}

// NewDispatcher constructs a Dispatcher from the provided configuration.
func NewDispatcher(configuration Configuration) (*Dispatcher, error) {
	trimmedWebhookURL := strings.TrimSpace(configuration.WebhookURL)
	if len(trimmedWebhookURL) == 0 {
		return nil, ErrWebhookURLRequired
	}

	httpClient := configuration.HTTPClient
	if httpClient == nil {
		deliveryTimeout := configuration.Timeout
		if deliveryTimeout <= 0 {
			deliveryTimeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: deliveryTimeout}
	}

	return &Dispatcher{webhookURL: trimmedWebhookURL, httpClient: httpClient}, nil
}

// BuildMessage renders the fixed-format alert text for the repository.
func BuildMessage(repositoryName string) string {
	return fmt.Sprintf(alertMessageTemplateConstant, repositoryName, repositoryName)
}

// Dispatch sends the alert for the named repository. Any transport failure or
// non-2xx response is returned as an error; callers must treat it as fatal so
// an undelivered alert is never recorded as sent.
func (dispatcher *Dispatcher) Dispatch(executionContext context.Context, repositoryName string) error {
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return ErrRepositoryRequired
	}

	payloadBytes, encodeError := json.Marshal(webhookPayload{Text: BuildMessage(trimmedRepositoryName)})
	if encodeError != nil {
		return fmt.Errorf(payloadEncodingErrorTemplateConstant, encodeError)
	}

	request, requestError := http.NewRequestWithContext(executionContext, http.MethodPost, dispatcher.webhookURL, bytes.NewReader(payloadBytes))
	if requestError != nil {
		return fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
	}
	request.Header.Set(contentTypeHeaderNameConstant, contentTypeJSONValueConstant)

	response, deliveryError := dispatcher.httpClient.Do(request)
	if deliveryError != nil {
		return fmt.Errorf(deliveryErrorTemplateConstant, trimmedRepositoryName, deliveryError)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf(
			rejectionErrorTemplateConstant,
			trimmedRepositoryName,
			response.StatusCode,
			formatRejectionBody(response.Body),
		)
	}

	return nil
}

func formatRejectionBody(responseBody io.Reader) string {
	bodyBytes, readError := io.ReadAll(io.LimitReader(responseBody, rejectionBodyReadLimitConstant))
	if readError != nil {
		return ""
	}
	trimmedBody := strings.TrimSpace(string(bodyBytes))
	if len(trimmedBody) == 0 {
		return ""
	}
	return fmt.Sprintf(rejectionBodySuffixTemplateConstant, trimmedBody)
}
