package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevenmitchelltan/eyes-and-ears/internal/execshell"
)

func buildGitCommand(arguments ...string) execshell.ShellCommand {
	return execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: arguments, WorkingDirectory: "/tmp/checkout"},
	}
}

func TestCommandMessageFormatterStartedMessages(t *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		expectedMessage string
	}{
		{
			name:            "Status",
			command:         buildGitCommand("status", "--porcelain", "state.json"),
			expectedMessage: "Reviewing working tree status (in /tmp/checkout)",
		},
		{
			name:            "Config",
			command:         buildGitCommand("config", "user.name", "eyes-and-ears-bot"),
			expectedMessage: "Configuring git option user.name (in /tmp/checkout)",
		},
		{
			name:            "Fetch",
			command:         buildGitCommand("fetch", "https://example.com/repo.git", "main"),
			expectedMessage: "Fetching latest changes (in /tmp/checkout)",
		},
		{
			name:            "Rebase",
			command:         buildGitCommand("rebase", "FETCH_HEAD"),
			expectedMessage: "Rebasing onto fetched history (in /tmp/checkout)",
		},
		{
			name:            "Add",
			command:         buildGitCommand("add", "state.json"),
			expectedMessage: "Staging state.json (in /tmp/checkout)",
		},
		{
			name:            "Commit",
			command:         buildGitCommand("commit", "-m", "update"),
			expectedMessage: "Committing staged changes (in /tmp/checkout)",
		},
		{
			name:            "Push",
			command:         buildGitCommand("push", "https://example.com/repo.git", "HEAD:main"),
			expectedMessage: "Pushing committed state (in /tmp/checkout)",
		},
		{
			name:            "UnknownSubcommandFallsBack",
			command:         buildGitCommand("log", "-1"),
			expectedMessage: "Running git log -1",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedMessage, formatter.BuildStartedMessage(testCase.command))
		})
	}
}

func TestCommandMessageFormatterFailureMessages(t *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	command := buildGitCommand("push", "origin")

	failureMessage := formatter.BuildFailureMessage(command, execshell.ExecutionResult{ExitCode: 1, StandardError: "denied\n"})
	require.Equal(t, "git push origin failed with exit code 1: denied", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(command, errors.New("binary missing"))
	require.Equal(t, "git push origin failed: binary missing", executionFailureMessage)

	unknownFailureMessage := formatter.BuildExecutionFailureMessage(command, nil)
	require.Equal(t, "git push origin failed: unknown error", unknownFailureMessage)
}
