package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stevenmitchelltan/eyes-and-ears/internal/alert"
	"github.com/stevenmitchelltan/eyes-and-ears/internal/execshell"
	"github.com/stevenmitchelltan/eyes-and-ears/internal/githubauth"
	"github.com/stevenmitchelltan/eyes-and-ears/internal/probe"
	"github.com/stevenmitchelltan/eyes-and-ears/internal/publish"
	"github.com/stevenmitchelltan/eyes-and-ears/internal/state"
	"github.com/stevenmitchelltan/eyes-and-ears/internal/watchlist"
)

const (
	commandUseConstant              = "watch"
	commandShortDescriptionConstant = "Probe watched repositories and alert on public visibility"
	commandLongDescriptionConstant  = "watch probes every repository on the watchlist, sends a one-time webhook alert when a repository becomes publicly visible, and publishes the updated tracking state to the configured git remote."

	watchlistFlagNameConstant        = "watchlist"
	watchlistFlagDescriptionConstant = "Path to the YAML watchlist file"
	stateFlagNameConstant            = "state"
	stateFlagDescriptionConstant     = "State file path relative to the repository checkout"
	dryRunFlagNameConstant           = "dry-run"
	dryRunFlagDescriptionConstant    = "Probe repositories without alerting, saving state, or publishing"

	missingRepositoriesMessageConstant = "no repositories to watch; supply --watchlist or configure repositories"
	webhookResolutionTemplateConstant  = "failed to resolve webhook URL: %w"
	remoteResolutionTemplateConstant   = "failed to resolve git remote URL: %w"
	apiTokenResolutionTemplateConstant = "failed to resolve API token: %w"
	stateLoadTemplateConstant          = "failed to load tracking state: %w"
	stateSaveTemplateConstant          = "failed to save tracking state: %w"

	watchSummaryTemplateConstant    = "WATCHED: %d repositories (%d public, %d alerted, %d probe failures)\n"
	statePublishedMessageConstant   = "PUBLISHED: state update pushed\n"
	stateUnchangedMessageConstant   = "UNCHANGED: no state changes to publish\n"
	dryRunCompletedMessageConstant  = "DRY-RUN: alerts, state, and publication skipped\n"
	probeLoggerCreationTemplateText = "failed to construct status prober: %w"
	dispatcherCreationTemplateText  = "failed to construct alert dispatcher: %w"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the watch command. The executor, prober,
// dispatcher, and lookup fields are optional overrides used by tests.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	GitExecutor           publish.GitExecutor
	Prober                StatusProber
	Dispatcher            AlertDispatcher
	EnvironmentLookup     EnvironmentLookup
	FileReader            FileReader
}

// Build constructs the watch command.
func (builder *CommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(watchlistFlagNameConstant, "", watchlistFlagDescriptionConstant)
	command.Flags().String(stateFlagNameConstant, "", stateFlagDescriptionConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)

	return command
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()

	watchlistPath, watchlistFlagError := command.Flags().GetString(watchlistFlagNameConstant)
	if watchlistFlagError != nil {
		return watchlistFlagError
	}
	if len(strings.TrimSpace(watchlistPath)) > 0 {
		configuration.WatchlistFile = strings.TrimSpace(watchlistPath)
	}

	stateFileOverride, stateFlagError := command.Flags().GetString(stateFlagNameConstant)
	if stateFlagError != nil {
		return stateFlagError
	}
	if len(strings.TrimSpace(stateFileOverride)) > 0 {
		configuration.StateFile = strings.TrimSpace(stateFileOverride)
	}

	dryRunRequested, dryRunFlagError := command.Flags().GetBool(dryRunFlagNameConstant)
	if dryRunFlagError != nil {
		return dryRunFlagError
	}

	watchedRepositories, watchlistError := builder.resolveRepositories(configuration)
	if watchlistError != nil {
		return watchlistError
	}

	logger := builder.resolveLogger()
	secretResolver := NewSecretResolver(builder.EnvironmentLookup, builder.FileReader)

	// The remote URL is mandatory for every mutating run; resolving it before
	// reconciliation keeps a misconfigured remote from alerting or touching
	// state. Dry runs never publish and skip the requirement.
	remoteURL := ""
	if !dryRunRequested {
		resolvedRemoteURL, remoteError := secretResolver.ResolveDeclaration(configuration.RemoteURLSource)
		if remoteError != nil {
			return fmt.Errorf(remoteResolutionTemplateConstant, remoteError)
		}
		remoteURL = resolvedRemoteURL
	}

	statusProber, proberError := builder.resolveProber(logger, secretResolver, configuration)
	if proberError != nil {
		return proberError
	}

	alertDispatcher, dispatcherError := builder.resolveDispatcher(secretResolver, configuration)
	if dispatcherError != nil {
		return dispatcherError
	}

	reconciliationService, serviceError := NewService(Dependencies{
		Logger:     logger,
		Prober:     statusProber,
		Dispatcher: alertDispatcher,
	})
	if serviceError != nil {
		return serviceError
	}

	statePath := configuration.StateFile
	if !filepath.IsAbs(statePath) {
		statePath = filepath.Join(configuration.RepositoryPath, configuration.StateFile)
	}

	trackingStore, stateLoadError := state.Load(statePath)
	if stateLoadError != nil {
		return fmt.Errorf(stateLoadTemplateConstant, stateLoadError)
	}

	reconciliationResult, reconcileError := reconciliationService.Reconcile(command.Context(), Options{
		Repositories: watchedRepositories,
		Store:        trackingStore,
		DryRun:       dryRunRequested,
	})
	if reconcileError != nil {
		return reconcileError
	}

	fmt.Fprintf(command.OutOrStdout(), watchSummaryTemplateConstant,
		len(reconciliationResult.Outcomes),
		reconciliationResult.PublicCount,
		reconciliationResult.AlertsDispatched,
		reconciliationResult.ProbeFailures,
	)

	if dryRunRequested {
		fmt.Fprint(command.OutOrStdout(), dryRunCompletedMessageConstant)
		return nil
	}

	if saveError := trackingStore.Save(statePath); saveError != nil {
		return fmt.Errorf(stateSaveTemplateConstant, saveError)
	}

	gitExecutor, gitExecutorError := builder.resolveGitExecutor(logger)
	if gitExecutorError != nil {
		return gitExecutorError
	}

	statePublisher, publisherError := publish.NewPublisher(publish.Dependencies{GitExecutor: gitExecutor})
	if publisherError != nil {
		return publisherError
	}

	publishResult, publishError := statePublisher.PublishIfChanged(command.Context(), publish.Options{
		RepositoryPath: configuration.RepositoryPath,
		StateFilePath:  configuration.StateFile,
		RemoteURL:      remoteURL,
		BranchName:     configuration.BranchName,
		CommitMessage:  configuration.CommitMessage,
		CommitterName:  configuration.CommitterName,
		CommitterEmail: configuration.CommitterEmail,
	})
	if publishError != nil {
		return publishError
	}

	if publishResult.Published {
		fmt.Fprint(command.OutOrStdout(), statePublishedMessageConstant)
	} else {
		fmt.Fprint(command.OutOrStdout(), stateUnchangedMessageConstant)
	}

	return nil
}

func (builder *CommandBuilder) resolveRepositories(configuration CommandConfiguration) ([]string, error) {
	if len(configuration.WatchlistFile) > 0 {
		return watchlist.Load(configuration.WatchlistFile)
	}
	if len(configuration.Repositories) > 0 {
		return watchlist.Normalize(configuration.Repositories)
	}
	return nil, errors.New(missingRepositoriesMessageConstant)
}

func (builder *CommandBuilder) resolveProber(logger *zap.Logger, secretResolver *SecretResolver, configuration CommandConfiguration) (StatusProber, error) {
	if builder.Prober != nil {
		return builder.Prober, nil
	}

	apiToken, tokenError := builder.resolveAPIToken(secretResolver, configuration)
	if tokenError != nil {
		return nil, tokenError
	}
	statusProber, proberError := probe.NewProber(logger, probe.Configuration{
		ServiceBaseURL: configuration.ServiceBaseURL,
		APIToken:       apiToken,
		Timeout:        configuration.ProbeTimeout(),
	})
	if proberError != nil {
		return nil, fmt.Errorf(probeLoggerCreationTemplateText, proberError)
	}
	return statusProber, nil
}

// resolveAPIToken prefers an explicitly configured source and otherwise falls
// back to the conventional GitHub token environment variables. The token is
// optional either way.
func (builder *CommandBuilder) resolveAPIToken(secretResolver *SecretResolver, configuration CommandConfiguration) (string, error) {
	if len(configuration.APITokenSource) > 0 {
		apiToken, tokenError := secretResolver.ResolveDeclaration(configuration.APITokenSource)
		if tokenError != nil {
			return "", fmt.Errorf(apiTokenResolutionTemplateConstant, tokenError)
		}
		return apiToken, nil
	}

	apiToken, _ := githubauth.ResolveToken(githubauth.EnvironmentLookup(builder.EnvironmentLookup))
	return apiToken, nil
}

func (builder *CommandBuilder) resolveDispatcher(secretResolver *SecretResolver, configuration CommandConfiguration) (AlertDispatcher, error) {
	if builder.Dispatcher != nil {
		return builder.Dispatcher, nil
	}

	webhookURL, webhookError := secretResolver.ResolveDeclaration(configuration.WebhookURLSource)
	if webhookError != nil {
		return nil, fmt.Errorf(webhookResolutionTemplateConstant, webhookError)
	}

	alertDispatcher, dispatcherError := alert.NewDispatcher(alert.Configuration{
		WebhookURL: webhookURL,
		Timeout:    configuration.ProbeTimeout(),
	})
	if dispatcherError != nil {
		return nil, fmt.Errorf(dispatcherCreationTemplateText, dispatcherError)
	}
	return alertDispatcher, nil
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (publish.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
