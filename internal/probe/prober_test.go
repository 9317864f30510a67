package probe_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stevenmitchelltan/eyes-and-ears/internal/probe"
)

const (
	testRepositoryNameConstant     = "acme/widget"
	testAPITokenConstant           = "token-value"
	testPublicMetadataConstant     = `{"private": false, "full_name": "acme/widget"}`
	testPrivateMetadataConstant    = `{"private": true}`
	testMissingFieldBodyConstant   = `{"full_name": "acme/widget"}`
	testExpectedProbePathConstant  = "/repos/acme/widget"
	testExpectedAuthHeaderConstant = "Bearer token-value"
)

type failingHTTPDoer struct {
	failure error
}

func (doer failingHTTPDoer) Do(*http.Request) (*http.Response, error) {
	return nil, doer.failure
}

func newObservedProber(t *testing.T, configuration probe.Configuration) (*probe.Prober, *observer.ObservedLogs) {
	t.Helper()

	observerCore, observedLogs := observer.New(zap.DebugLevel)
	prober, creationError := probe.NewProber(zap.New(observerCore), configuration)
	require.NoError(t, creationError)
	return prober, observedLogs
}

func TestNewProberRequiresLogger(t *testing.T) {
	_, creationError := probe.NewProber(nil, probe.Configuration{})
	require.ErrorIs(t, creationError, probe.ErrLoggerNotConfigured)
}

func TestProbeRequiresRepositoryName(t *testing.T) {
	prober, _ := newObservedProber(t, probe.Configuration{})
	_, probeError := prober.Probe(context.Background(), "   ")
	require.ErrorIs(t, probeError, probe.ErrRepositoryRequired)
}

func TestProbeClassifiesServiceResponses(t *testing.T) {
	testCases := []struct {
		name             string
		statusCode       int
		responseBody     string
		expectedStatus   probe.Status
		expectedWarnLogs int
	}{
		{
			name:           "PublicRepository",
			statusCode:     http.StatusOK,
			responseBody:   testPublicMetadataConstant,
			expectedStatus: probe.StatusPublic,
		},
		{
			name:           "PrivateRepository",
			statusCode:     http.StatusOK,
			responseBody:   testPrivateMetadataConstant,
			expectedStatus: probe.StatusNotPublicOrAbsent,
		},
		{
			name:           "MissingPrivateFieldTreatedAsNotPublic",
			statusCode:     http.StatusOK,
			responseBody:   testMissingFieldBodyConstant,
			expectedStatus: probe.StatusNotPublicOrAbsent,
		},
		{
			name:           "NotFound",
			statusCode:     http.StatusNotFound,
			responseBody:   `{"message": "Not Found"}`,
			expectedStatus: probe.StatusNotPublicOrAbsent,
		},
		{
			name:             "ServerErrorLoggedAndDowngraded",
			statusCode:       http.StatusInternalServerError,
			responseBody:     `{"message": "boom"}`,
			expectedStatus:   probe.StatusError,
			expectedWarnLogs: 1,
		},
		{
			name:             "RateLimitedLoggedAndDowngraded",
			statusCode:       http.StatusForbidden,
			responseBody:     `{"message": "rate limited"}`,
			expectedStatus:   probe.StatusError,
			expectedWarnLogs: 1,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			var observedRequest *http.Request
			metadataServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				observedRequest = request.Clone(context.Background())
				writer.WriteHeader(testCase.statusCode)
				_, _ = writer.Write([]byte(testCase.responseBody))
			}))
			defer metadataServer.Close()

			prober, observedLogs := newObservedProber(t, probe.Configuration{
				ServiceBaseURL: metadataServer.URL,
				APIToken:       testAPITokenConstant,
			})

			probeStatus, probeError := prober.Probe(context.Background(), testRepositoryNameConstant)
			require.NoError(t, probeError)
			require.Equal(t, testCase.expectedStatus, probeStatus)

			require.NotNil(t, observedRequest)
			require.Equal(t, testExpectedProbePathConstant, observedRequest.URL.Path)
			require.Equal(t, "application/vnd.github+json", observedRequest.Header.Get("Accept"))
			require.Equal(t, probe.UserAgentValue, observedRequest.Header.Get("User-Agent"))
			require.Equal(t, testExpectedAuthHeaderConstant, observedRequest.Header.Get("Authorization"))

			require.Len(t, observedLogs.FilterLevelExact(zap.WarnLevel).All(), testCase.expectedWarnLogs)
		})
	}
}

func TestProbeOmitsAuthorizationWithoutToken(t *testing.T) {
	var observedAuthorization string
	metadataServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		observedAuthorization = request.Header.Get("Authorization")
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer metadataServer.Close()

	prober, _ := newObservedProber(t, probe.Configuration{ServiceBaseURL: metadataServer.URL})

	probeStatus, probeError := prober.Probe(context.Background(), testRepositoryNameConstant)
	require.NoError(t, probeError)
	require.Equal(t, probe.StatusNotPublicOrAbsent, probeStatus)
	require.Empty(t, observedAuthorization)
}

func TestProbeTransportFailureDowngradedToStatusError(t *testing.T) {
	prober, observedLogs := newObservedProber(t, probe.Configuration{
		HTTPClient: failingHTTPDoer{failure: errors.New("connection refused")},
	})

	probeStatus, probeError := prober.Probe(context.Background(), testRepositoryNameConstant)
	require.NoError(t, probeError)
	require.Equal(t, probe.StatusError, probeStatus)
	require.Len(t, observedLogs.FilterLevelExact(zap.WarnLevel).All(), 1)
}

func TestStatusStringRendering(t *testing.T) {
	require.Equal(t, "public", probe.StatusPublic.String())
	require.Equal(t, "not-public-or-absent", probe.StatusNotPublicOrAbsent.String())
	require.Equal(t, "error", probe.StatusError.String())
}
