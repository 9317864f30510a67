package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommandPrintsResolvedVersion(t *testing.T) {
	application := NewApplication()
	application.versionResolver = func(context.Context) string {
		return "v2.0.0"
	}

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{"version"})

	require.NoError(t, application.Execute())
	require.Equal(t, "eyes-and-ears version: v2.0.0\n", outputBuffer.String())
}

func TestRootCommandWithoutArgumentsShowsHelp(t *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs(nil)

	require.NoError(t, application.Execute())
	require.Contains(t, outputBuffer.String(), "watch")
	require.Contains(t, outputBuffer.String(), "version")
}

func TestLogFormatFlagOverridesConfiguration(t *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{"--log-format", "console"})

	require.NoError(t, application.Execute())
	require.Equal(t, "console", application.configuration.Common.LogFormat)
}
