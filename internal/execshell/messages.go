package execshell

import (
	"fmt"
	"strings"
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	failureStandardErrorTemplateConstant    = ": %s"
	unknownFailureMessageConstant           = "unknown error"
)

const (
	gitStatusSubcommandNameConstant = "status"
	gitConfigSubcommandNameConstant = "config"
	gitFetchSubcommandNameConstant  = "fetch"
	gitRebaseSubcommandNameConstant = "rebase"
	gitAddSubcommandNameConstant    = "add"
	gitCommitSubcommandNameConstant = "commit"
	gitPushSubcommandNameConstant   = "push"
)

const (
	gitStatusStartTemplateConstant   = "Reviewing working tree status%s"
	gitStatusSuccessTemplateConstant = "Collected working tree status%s"
	gitConfigStartTemplateConstant   = "Configuring git option %s%s"
	gitConfigSuccessTemplateConstant = "Configured git option %s%s"
	gitFetchStartTemplateConstant    = "Fetching latest changes%s"
	gitFetchSuccessTemplateConstant  = "Fetched latest changes%s"
	gitRebaseStartTemplateConstant   = "Rebasing onto fetched history%s"
	gitRebaseSuccessTemplateConstant = "Rebased onto fetched history%s"
	gitAddStartTemplateConstant      = "Staging %s%s"
	gitAddSuccessTemplateConstant    = "Staged %s%s"
	gitCommitStartTemplateConstant   = "Committing staged changes%s"
	gitCommitSuccessTemplateConstant = "Committed staged changes%s"
	gitPushStartTemplateConstant     = "Pushing committed state%s"
	gitPushSuccessTemplateConstant   = "Pushed committed state%s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	switch formatter.gitSubcommand(command) {
	case gitStatusSubcommandNameConstant:
		return fmt.Sprintf(gitStatusStartTemplateConstant, formatter.workingDirectorySuffix(command))
	case gitConfigSubcommandNameConstant:
		return fmt.Sprintf(gitConfigStartTemplateConstant, formatter.firstNonFlagArgument(command, 1), formatter.workingDirectorySuffix(command))
	case gitFetchSubcommandNameConstant:
		return fmt.Sprintf(gitFetchStartTemplateConstant, formatter.workingDirectorySuffix(command))
	case gitRebaseSubcommandNameConstant:
		return fmt.Sprintf(gitRebaseStartTemplateConstant, formatter.workingDirectorySuffix(command))
	case gitAddSubcommandNameConstant:
		return fmt.Sprintf(gitAddStartTemplateConstant, formatter.firstNonFlagArgument(command, 1), formatter.workingDirectorySuffix(command))
	case gitCommitSubcommandNameConstant:
		return fmt.Sprintf(gitCommitStartTemplateConstant, formatter.workingDirectorySuffix(command))
	case gitPushSubcommandNameConstant:
		return fmt.Sprintf(gitPushStartTemplateConstant, formatter.workingDirectorySuffix(command))
	default:
		return fmt.Sprintf(genericStartTemplateConstant, formatCommandLabel(command))
	}
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	switch formatter.gitSubcommand(command) {
	case gitStatusSubcommandNameConstant:
		return fmt.Sprintf(gitStatusSuccessTemplateConstant, formatter.workingDirectorySuffix(command))
	case gitConfigSubcommandNameConstant:
		return fmt.Sprintf(gitConfigSuccessTemplateConstant, formatter.firstNonFlagArgument(command, 1), formatter.workingDirectorySuffix(command))
	case gitFetchSubcommandNameConstant:
		return fmt.Sprintf(gitFetchSuccessTemplateConstant, formatter.workingDirectorySuffix(command))
	case gitRebaseSubcommandNameConstant:
		return fmt.Sprintf(gitRebaseSuccessTemplateConstant, formatter.workingDirectorySuffix(command))
	case gitAddSubcommandNameConstant:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, formatter.firstNonFlagArgument(command, 1), formatter.workingDirectorySuffix(command))
	case gitCommitSubcommandNameConstant:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, formatter.workingDirectorySuffix(command))
	case gitPushSubcommandNameConstant:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, formatter.workingDirectorySuffix(command))
	default:
		return fmt.Sprintf(genericSuccessTemplateConstant, formatCommandLabel(command))
	}
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	standardErrorSuffix := ""
	if len(strings.TrimSpace(result.StandardError)) > 0 {
		standardErrorSuffix = fmt.Sprintf(failureStandardErrorTemplateConstant, strings.TrimSpace(result.StandardError))
	}
	return fmt.Sprintf(genericFailureTemplateConstant, formatCommandLabel(command), result.ExitCode, standardErrorSuffix)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureDescription := unknownFailureMessageConstant
	if failure != nil {
		failureDescription = failure.Error()
	}
	return fmt.Sprintf(genericExecutionFailureTemplateConstant, formatCommandLabel(command), failureDescription)
}

func (formatter CommandMessageFormatter) gitSubcommand(command ShellCommand) string {
	if command.Name != CommandGit {
		return ""
	}
	if len(command.Details.Arguments) == 0 {
		return ""
	}
	return command.Details.Arguments[0]
}

func (formatter CommandMessageFormatter) workingDirectorySuffix(command ShellCommand) string {
	if len(command.Details.WorkingDirectory) == 0 {
		return ""
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory)
}

func (formatter CommandMessageFormatter) firstNonFlagArgument(command ShellCommand, startIndex int) string {
	for argumentIndex := startIndex; argumentIndex < len(command.Details.Arguments); argumentIndex++ {
		argument := command.Details.Arguments[argumentIndex]
		if strings.HasPrefix(argument, "-") {
			continue
		}
		return argument
	}
	return formatCommandLabel(command)
}

func formatCommandLabel(command ShellCommand) string {
	if len(command.Details.Arguments) == 0 {
		return string(command.Name)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, command.Name, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
}
