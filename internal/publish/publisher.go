package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stevenmitchelltan/eyes-and-ears/internal/execshell"
)

const (
	// DefaultBranchName is the branch state commits land on.
	DefaultBranchName = "main"
	// DefaultCommitMessage tags state updates in the repository history.
	DefaultCommitMessage = "Update repo visibility state [bot]"
	// DefaultCommitterName identifies the bot in commit metadata.
	DefaultCommitterName = "eyes-and-ears-bot"
	// DefaultCommitterEmail identifies the bot in commit metadata.
	DefaultCommitterEmail = "eyes-and-ears-bot@example.com"

	gitExecutorMissingMessageConstant    = "git executor not configured"
	stateFileRequiredMessageConstant     = "state file path must be provided"
	remoteURLRequiredMessageConstant     = "remote URL must be provided"
	statusCheckFailureTemplateConstant   = "failed to check state file status: %w"
	identityFailureTemplateConstant      = "failed to configure commit identity: %w"
	fetchFailureTemplateConstant         = "failed to fetch latest history: %w"
	rebaseFailureTemplateConstant        = "failed to rebase onto latest history: %w"
	stageFailureTemplateConstant         = "failed to stage state file: %w"
	commitFailureTemplateConstant        = "failed to commit state file: %w"
	pushFailureTemplateConstant          = "failed to push state update: %w"
	gitStatusSubcommandConstant          = "status"
	gitStatusPorcelainFlagConstant       = "--porcelain"
	gitConfigSubcommandConstant          = "config"
	gitConfigUserNameKeyConstant         = "user.name"
	gitConfigUserEmailKeyConstant        = "user.email"
	gitFetchSubcommandConstant           = "fetch"
	gitRebaseSubcommandConstant          = "rebase"
	gitFetchHeadReferenceConstant        = "FETCH_HEAD"
	gitAddSubcommandConstant             = "add"
	gitCommitSubcommandConstant          = "commit"
	gitCommitMessageFlagConstant         = "-m"
	gitPushSubcommandConstant            = "push"
	gitPushReferenceTemplateConstant     = "HEAD:%s"
	gitTerminalPromptEnvironmentName     = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisabled = "0"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrStateFileRequired indicates the state file path option was empty.
var ErrStateFileRequired = errors.New(stateFileRequiredMessageConstant)

// ErrRemoteURLRequired indicates the remote URL option was empty.
var ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the publisher.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Dependencies enumerates external collaborators required for publishing.
type Dependencies struct {
	GitExecutor GitExecutor
}

// Options configures a publish operation.
type Options struct {
	// RepositoryPath is the checkout holding the state file.
	RepositoryPath string
	// StateFilePath is the state file location relative to the checkout.
	StateFilePath string
	// RemoteURL is the (possibly tokenized) URL fetched from and pushed to.
	RemoteURL string
	// BranchName defaults to DefaultBranchName.
	BranchName string
	// CommitMessage defaults to DefaultCommitMessage.
	CommitMessage string
	// CommitterName defaults to DefaultCommitterName.
	CommitterName string
	// CommitterEmail defaults to DefaultCommitterEmail.
	CommitterEmail string
}

// Result captures the observable outcome of a publish attempt.
type Result struct {
	// Published reports whether a commit was created and pushed.
	Published bool
}

// Publisher pushes state file changes through the versioned store.
type Publisher struct {
	executor GitExecutor
}

// NewPublisher constructs a Publisher from the provided dependencies.
func NewPublisher(dependencies Dependencies) (*Publisher, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Publisher{executor: dependencies.GitExecutor}, nil
}

// HasChanges reports whether the state file differs from the committed version.
func (publisher *Publisher) HasChanges(executionContext context.Context, options Options) (bool, error) {
	trimmedStateFile := strings.TrimSpace(options.StateFilePath)
	if len(trimmedStateFile) == 0 {
		return false, ErrStateFileRequired
	}

	statusResult, statusError := publisher.executeGit(executionContext, options.RepositoryPath,
		gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant, trimmedStateFile)
	if statusError != nil {
		return false, fmt.Errorf(statusCheckFailureTemplateConstant, statusError)
	}

	return len(strings.TrimSpace(statusResult.StandardOutput)) > 0, nil
}

// PublishIfChanged commits and pushes the state file when it changed relative
// to the last committed version. Every step failure aborts with a wrapped
// error; the state file itself already holds the new facts, so a rerun
// retries the publish.
func (publisher *Publisher) PublishIfChanged(executionContext context.Context, options Options) (Result, error) {
	sanitizedOptions, optionsError := sanitizeOptions(options)
	if optionsError != nil {
		return Result{}, optionsError
	}

	changed, changeError := publisher.HasChanges(executionContext, sanitizedOptions)
	if changeError != nil {
		return Result{}, changeError
	}
	if !changed {
		return Result{Published: false}, nil
	}

	if identityError := publisher.configureIdentity(executionContext, sanitizedOptions); identityError != nil {
		return Result{}, identityError
	}

	if _, fetchError := publisher.executeGit(executionContext, sanitizedOptions.RepositoryPath,
		gitFetchSubcommandConstant, sanitizedOptions.RemoteURL, sanitizedOptions.BranchName); fetchError != nil {
		return Result{}, fmt.Errorf(fetchFailureTemplateConstant, fetchError)
	}

	if _, rebaseError := publisher.executeGit(executionContext, sanitizedOptions.RepositoryPath,
		gitRebaseSubcommandConstant, gitFetchHeadReferenceConstant); rebaseError != nil {
		return Result{}, fmt.Errorf(rebaseFailureTemplateConstant, rebaseError)
	}

	if _, stageError := publisher.executeGit(executionContext, sanitizedOptions.RepositoryPath,
		gitAddSubcommandConstant, sanitizedOptions.StateFilePath); stageError != nil {
		return Result{}, fmt.Errorf(stageFailureTemplateConstant, stageError)
	}

	if _, commitError := publisher.executeGit(executionContext, sanitizedOptions.RepositoryPath,
		gitCommitSubcommandConstant, gitCommitMessageFlagConstant, sanitizedOptions.CommitMessage); commitError != nil {
		return Result{}, fmt.Errorf(commitFailureTemplateConstant, commitError)
	}

	pushReference := fmt.Sprintf(gitPushReferenceTemplateConstant, sanitizedOptions.BranchName)
	if _, pushError := publisher.executeGit(executionContext, sanitizedOptions.RepositoryPath,
		gitPushSubcommandConstant, sanitizedOptions.RemoteURL, pushReference); pushError != nil {
		return Result{}, fmt.Errorf(pushFailureTemplateConstant, pushError)
	}

	return Result{Published: true}, nil
}

func (publisher *Publisher) configureIdentity(executionContext context.Context, options Options) error {
	if _, nameError := publisher.executeGit(executionContext, options.RepositoryPath,
		gitConfigSubcommandConstant, gitConfigUserNameKeyConstant, options.CommitterName); nameError != nil {
		return fmt.Errorf(identityFailureTemplateConstant, nameError)
	}
	if _, emailError := publisher.executeGit(executionContext, options.RepositoryPath,
		gitConfigSubcommandConstant, gitConfigUserEmailKeyConstant, options.CommitterEmail); emailError != nil {
		return fmt.Errorf(identityFailureTemplateConstant, emailError)
	}
	return nil
}

func (publisher *Publisher) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return publisher.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentName: gitTerminalPromptEnvironmentDisabled,
		},
	})
}

func sanitizeOptions(options Options) (Options, error) {
	sanitized := options

	sanitized.StateFilePath = strings.TrimSpace(options.StateFilePath)
	if len(sanitized.StateFilePath) == 0 {
		return Options{}, ErrStateFileRequired
	}

	sanitized.RemoteURL = strings.TrimSpace(options.RemoteURL)
	if len(sanitized.RemoteURL) == 0 {
		return Options{}, ErrRemoteURLRequired
	}

	sanitized.RepositoryPath = strings.TrimSpace(options.RepositoryPath)

	sanitized.BranchName = strings.TrimSpace(options.BranchName)
	if len(sanitized.BranchName) == 0 {
		sanitized.BranchName = DefaultBranchName
	}

	sanitized.CommitMessage = strings.TrimSpace(options.CommitMessage)
	if len(sanitized.CommitMessage) == 0 {
		sanitized.CommitMessage = DefaultCommitMessage
	}

	sanitized.CommitterName = strings.TrimSpace(options.CommitterName)
	if len(sanitized.CommitterName) == 0 {
		sanitized.CommitterName = DefaultCommitterName
	}

	sanitized.CommitterEmail = strings.TrimSpace(options.CommitterEmail)
	if len(sanitized.CommitterEmail) == 0 {
		sanitized.CommitterEmail = DefaultCommitterEmail
	}

	return sanitized, nil
}
