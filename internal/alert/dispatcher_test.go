package alert_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevenmitchelltan/eyes-and-ears/internal/alert"
)

const (
	testRepositoryNameConstant  = "acme/widget"
	testExpectedMessageConstant = ":rotating_light: acme/widget is PUBLIC.\nhttps://github.com/acme/widget"
)

type failingHTTPDoer struct {
	failure error
}

func (doer failingHTTPDoer) Do(*http.Request) (*http.Response, error) {
	return nil, doer.failure
}

func TestNewDispatcherRequiresWebhookURL(t *testing.T) {
	_, creationError := alert.NewDispatcher(alert.Configuration{WebhookURL: "   "})
	require.ErrorIs(t, creationError, alert.ErrWebhookURLRequired)
}

func TestBuildMessageFormat(t *testing.T) {
	require.Equal(t, testExpectedMessageConstant, alert.BuildMessage(testRepositoryNameConstant))
}

func TestDispatchPostsJSONPayload(t *testing.T) {
	var observedContentType string
	var observedPayload map[string]string

	webhookServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		observedContentType = request.Header.Get("Content-Type")
		bodyBytes, readError := io.ReadAll(request.Body)
		require.NoError(t, readError)
		require.NoError(t, json.Unmarshal(bodyBytes, &observedPayload))
		writer.WriteHeader(http.StatusOK)
	}))
	defer webhookServer.Close()

	dispatcher, creationError := alert.NewDispatcher(alert.Configuration{WebhookURL: webhookServer.URL})
	require.NoError(t, creationError)

	require.NoError(t, dispatcher.Dispatch(context.Background(), testRepositoryNameConstant))
	require.Equal(t, "application/json", observedContentType)
	require.Equal(t, testExpectedMessageConstant, observedPayload["text"])
}

func TestDispatchRejectsEmptyRepository(t *testing.T) {
	dispatcher, creationError := alert.NewDispatcher(alert.Configuration{WebhookURL: "https://hooks.example.com/T000/B000"})
	require.NoError(t, creationError)

	require.ErrorIs(t, dispatcher.Dispatch(context.Background(), "  "), alert.ErrRepositoryRequired)
}

func TestDispatchTreatsNonSuccessStatusAsFailure(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{name: "BadRequest", statusCode: http.StatusBadRequest, body: "invalid_payload"},
		{name: "ServerError", statusCode: http.StatusInternalServerError, body: "upstream down"},
		{name: "Redirect", statusCode: http.StatusFound, body: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			webhookServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(testCase.statusCode)
				_, _ = writer.Write([]byte(testCase.body))
			}))
			defer webhookServer.Close()

			dispatcher, creationError := alert.NewDispatcher(alert.Configuration{WebhookURL: webhookServer.URL})
			require.NoError(t, creationError)

			dispatchError := dispatcher.Dispatch(context.Background(), testRepositoryNameConstant)
			require.Error(t, dispatchError)
			require.ErrorContains(t, dispatchError, "webhook rejected alert")
			require.ErrorContains(t, dispatchError, testRepositoryNameConstant)
			if len(testCase.body) > 0 {
				require.ErrorContains(t, dispatchError, testCase.body)
			}
		})
	}
}

func TestDispatchPropagatesTransportFailure(t *testing.T) {
	dispatcher, creationError := alert.NewDispatcher(alert.Configuration{
		WebhookURL: "https://hooks.example.com/T000/B000",
		HTTPClient: failingHTTPDoer{failure: errors.New("connection reset")},
	})
	require.NoError(t, creationError)

	dispatchError := dispatcher.Dispatch(context.Background(), testRepositoryNameConstant)
	require.Error(t, dispatchError)
	require.ErrorContains(t, dispatchError, "failed to deliver alert")
	require.ErrorContains(t, dispatchError, "connection reset")
}
