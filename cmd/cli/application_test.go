package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/stevenmitchelltan/eyes-and-ears/cmd/cli"
	"github.com/stevenmitchelltan/eyes-and-ears/internal/watch"
)

func TestEmbeddedDefaultsProvideLoggingConfiguration(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
}

func TestEmbeddedDefaultsProvideWatchConfiguration(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, watch.DefaultStateFileName, configuration.Watch.StateFile)
	require.Equal(testInstance, watch.DefaultRepositoryPath, configuration.Watch.RepositoryPath)
	require.Equal(testInstance, watch.DefaultWebhookURLSource, configuration.Watch.WebhookURLSource)
	require.Equal(testInstance, watch.DefaultRemoteURLSource, configuration.Watch.RemoteURLSource)
	require.Equal(testInstance, watch.DefaultProbeTimeoutSeconds, configuration.Watch.ProbeTimeoutSeconds)
}

func TestWatchOptionsDecodeFromConfigurationMap(testInstance *testing.T) {
	watchOptions := map[string]any{
		"watchlist_file":        "repos.yaml",
		"repositories":          []string{"acme/widget"},
		"state_file":            "visibility.json",
		"repository_path":       "/srv/watcher",
		"branch":                "main",
		"webhook_url_source":    "file:/run/secrets/webhook",
		"remote_url_source":     "env:STATE_REMOTE",
		"probe_timeout_seconds": 30,
	}

	var decodedConfiguration watch.CommandConfiguration
	decodeWatchOptions(testInstance, watchOptions, &decodedConfiguration)

	require.Equal(testInstance, "repos.yaml", decodedConfiguration.WatchlistFile)
	require.Equal(testInstance, []string{"acme/widget"}, decodedConfiguration.Repositories)
	require.Equal(testInstance, "visibility.json", decodedConfiguration.StateFile)
	require.Equal(testInstance, "/srv/watcher", decodedConfiguration.RepositoryPath)
	require.Equal(testInstance, "main", decodedConfiguration.BranchName)
	require.Equal(testInstance, "file:/run/secrets/webhook", decodedConfiguration.WebhookURLSource)
	require.Equal(testInstance, "env:STATE_REMOTE", decodedConfiguration.RemoteURLSource)
	require.Equal(testInstance, 30, decodedConfiguration.ProbeTimeoutSeconds)
}

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testingInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testingInstance, viperInstance.Unmarshal(&configuration))
	return configuration
}

func decodeWatchOptions(testingInstance testing.TB, options map[string]any, target any) {
	testingInstance.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: target})
	require.NoError(testingInstance, decoderError)
	require.NoError(testingInstance, decoder.Decode(options))
}
