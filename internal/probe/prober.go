package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultServiceBaseURL targets the public GitHub REST API.
	DefaultServiceBaseURL = "https://api.github.com"
	// DefaultTimeout bounds a single probe request.
	DefaultTimeout = 10 * time.Second
	// UserAgentValue identifies this client to the metadata service.
	UserAgentValue = "eyes-and-ears/1.0"

	repositoryEndpointTemplateConstant   = "%s/repos/%s"
	acceptHeaderNameConstant             = "Accept"
	acceptHeaderValueConstant            = "application/vnd.github+json"
	userAgentHeaderNameConstant          = "User-Agent"
	authorizationHeaderNameConstant      = "Authorization"
	authorizationHeaderTemplateConstant  = "Bearer %s"
	loggerNotConfiguredMessageConstant   = "logger not configured"
	repositoryRequiredMessageConstant    = "repository name must be provided"
	requestCreationErrorTemplateConstant = "failed to build probe request: %w"
	probeFailureLogMessageConstant       = "repository probe failed"
	unexpectedStatusLogMessageConstant   = "unexpected metadata service status"
	logFieldRepositoryConstant           = "repository"
	logFieldStatusCodeConstant           = "status_code"
)

// Status classifies the observed visibility of a repository.
type Status int

// Probe outcomes.
const (
	// StatusNotPublicOrAbsent covers both "still private" and "never created";
	// the metadata service is unable to distinguish the two for this client.
	StatusNotPublicOrAbsent Status = iota
	// StatusPublic means the repository exists and is publicly visible.
	StatusPublic
	// StatusError means the probe could not determine visibility.
	StatusError
)

// String renders the status for logs.
func (status Status) String() string {
	switch status {
	case StatusPublic:
		return "public"
	case StatusNotPublicOrAbsent:
		return "not-public-or-absent"
	default:
		return "error"
	}
}

// ErrLoggerNotConfigured indicates the prober was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrRepositoryRequired indicates an empty repository name was probed.
var ErrRepositoryRequired = errors.New(repositoryRequiredMessageConstant)

// HTTPDoer abstracts the HTTP client used for probe requests.
type HTTPDoer interface {
	Do(request *http.Request) (*http.Response, error)
}

// Configuration controls prober construction.
type Configuration struct {
	// ServiceBaseURL overrides the metadata service host, enabling GitHub
	// Enterprise endpoints. Defaults to DefaultServiceBaseURL.
	ServiceBaseURL string
	// APIToken is the optional bearer credential. An absent token is allowed
	// and simply yields the unauthenticated rate limit.
	APIToken string
	// Timeout bounds each probe request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the transport, primarily for tests.
	HTTPClient HTTPDoer
}

// Prober performs visibility probes against the repository metadata service.
type Prober struct {
	logger         *zap.Logger
	httpClient     HTTPDoer
	serviceBaseURL string
	apiToken       string
}

type repositoryMetadataResponse struct {
	Private *bool `json:"private"`
}

// NewProber constructs a Prober from the provided logger and configuration.
func NewProber(logger *zap.Logger, configuration Configuration) (*Prober, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}

	serviceBaseURL := strings.TrimSpace(configuration.ServiceBaseURL)
	if len(serviceBaseURL) == 0 {
		serviceBaseURL = DefaultServiceBaseURL
	}
	serviceBaseURL = strings.TrimRight(serviceBaseURL, "/")

	httpClient := configuration.HTTPClient
	if httpClient == nil {
		requestTimeout := configuration.Timeout
		if requestTimeout <= 0 {
			requestTimeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Prober{
		logger:         logger,
		httpClient:     httpClient,
		serviceBaseURL: serviceBaseURL,
		apiToken:       strings.TrimSpace(configuration.APIToken),
	}, nil
}

// Probe classifies the visibility of the named repository.
//
// Probe never returns an error for transport or service failures; those are
// logged and reported as StatusError so the caller's conservative fail-safe
// (treat as not public, alert on a later successful probe) applies.
func (prober *Prober) Probe(executionContext context.Context, repositoryName string) (Status, error) {
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return StatusError, ErrRepositoryRequired
	}

	endpointURL := fmt.Sprintf(repositoryEndpointTemplateConstant, prober.serviceBaseURL, trimmedRepositoryName)
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, endpointURL, nil)
	if requestError != nil {
		return StatusError, fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
	}

	request.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)
	request.Header.Set(userAgentHeaderNameConstant, UserAgentValue)
	if len(prober.apiToken) > 0 {
		request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderTemplateConstant, prober.apiToken))
	}

	response, requestExecutionError := prober.httpClient.Do(request)
	if requestExecutionError != nil {
		prober.logger.Warn(
			probeFailureLogMessageConstant,
			zap.String(logFieldRepositoryConstant, trimmedRepositoryName),
			zap.Error(requestExecutionError),
		)
		return StatusError, nil
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
		var metadata repositoryMetadataResponse
		if decodeError := json.NewDecoder(response.Body).Decode(&metadata); decodeError != nil {
			prober.logger.Warn(
				probeFailureLogMessageConstant,
				zap.String(logFieldRepositoryConstant, trimmedRepositoryName),
				zap.Error(decodeError),
			)
			return StatusError, nil
		}
		if metadata.Private != nil && !*metadata.Private {
			return StatusPublic, nil
		}
		return StatusNotPublicOrAbsent, nil
	case http.StatusNotFound:
		return StatusNotPublicOrAbsent, nil
	default:
		prober.logger.Warn(
			unexpectedStatusLogMessageConstant,
			zap.String(logFieldRepositoryConstant, trimmedRepositoryName),
			zap.Int(logFieldStatusCodeConstant, response.StatusCode),
		)
		return StatusError, nil
	}
}
