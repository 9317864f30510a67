package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevenmitchelltan/eyes-and-ears/internal/utils"
)

const (
	testConfigurationNameConstant       = "config"
	testConfigurationTypeConstant       = "yaml"
	testEnvironmentPrefixConstant       = "EYESANDEARS"
	testConfigurationFileNameConstant   = "config.yaml"
	testConfigurationContentConstant    = "common:\n  log_level: debug\nwatch:\n  state_file: custom-state.json\n"
	testEmbeddedConfigurationConstant   = "common:\n  log_level: warn\n  log_format: console\n"
	testMalformedConfigurationConstant  = "common: [\n"
	testEnvironmentVariableNameConstant = "EYESANDEARS_COMMON_LOG_LEVEL"
)

type loaderTestConfiguration struct {
	Common struct {
		LogLevel  string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"common"`
	Watch struct {
		StateFile string `mapstructure:"state_file"`
	} `mapstructure:"watch"`
}

func writeTestConfiguration(t *testing.T, directory string, content string) string {
	t.Helper()

	configurationPath := filepath.Join(directory, testConfigurationFileNameConstant)
	require.NoError(t, os.WriteFile(configurationPath, []byte(content), 0o644))
	return configurationPath
}

func TestConfigurationLoaderReadsFileAndDefaults(t *testing.T) {
	temporaryDirectory := t.TempDir()
	writeTestConfiguration(t, temporaryDirectory, testConfigurationContentConstant)

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)

	defaultValues := map[string]any{
		"common.log_format": "structured",
	}

	var configuration loaderTestConfiguration
	metadata, loadError := loader.LoadConfiguration("", defaultValues, &configuration)
	require.NoError(t, loadError)
	require.NotEmpty(t, metadata.ConfigFileUsed)
	require.Equal(t, "debug", configuration.Common.LogLevel)
	require.Equal(t, "structured", configuration.Common.LogFormat)
	require.Equal(t, "custom-state.json", configuration.Watch.StateFile)
}

func TestConfigurationLoaderMergesEmbeddedConfiguration(t *testing.T) {
	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{t.TempDir()},
	)
	loader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationConstant))

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.NoError(t, loadError)
	require.Equal(t, "warn", configuration.Common.LogLevel)
	require.Equal(t, "console", configuration.Common.LogFormat)
}

func TestConfigurationLoaderAppliesEnvironmentOverrides(t *testing.T) {
	temporaryDirectory := t.TempDir()
	writeTestConfiguration(t, temporaryDirectory, testConfigurationContentConstant)
	t.Setenv(testEnvironmentVariableNameConstant, "error")

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)

	viperBoundConfiguration := struct {
		Common struct {
			LogLevel string `mapstructure:"log_level"`
		} `mapstructure:"common"`
	}{}

	defaultValues := map[string]any{
		"common.log_level": "info",
	}

	_, loadError := loader.LoadConfiguration("", defaultValues, &viperBoundConfiguration)
	require.NoError(t, loadError)
	require.Equal(t, "error", viperBoundConfiguration.Common.LogLevel)
}

func TestConfigurationLoaderRejectsMalformedFile(t *testing.T) {
	temporaryDirectory := t.TempDir()
	configurationPath := writeTestConfiguration(t, temporaryDirectory, testMalformedConfigurationConstant)

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration(configurationPath, nil, &configuration)
	require.Error(t, loadError)
	require.ErrorContains(t, loadError, "failed to read configuration")
}

func TestConfigurationLoaderMissingFileFallsBackToDefaults(t *testing.T) {
	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{t.TempDir()},
	)

	var configuration loaderTestConfiguration
	metadata, loadError := loader.LoadConfiguration("", map[string]any{"common.log_level": "info"}, &configuration)
	require.NoError(t, loadError)
	require.Empty(t, metadata.ConfigFileUsed)
	require.Equal(t, "info", configuration.Common.LogLevel)
}
