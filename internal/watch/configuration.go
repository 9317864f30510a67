package watch

import (
	"strings"
	"time"
)

const (
	// DefaultStateFileName is the state file location relative to the checkout.
	DefaultStateFileName = "state.json"
	// DefaultRepositoryPath is the checkout the watcher operates in.
	DefaultRepositoryPath = "."
	// DefaultWebhookURLSource names the environment variable holding the webhook URL.
	DefaultWebhookURLSource = "env:SLACK_WEBHOOK_URL"
	// DefaultRemoteURLSource names the environment variable holding the git remote URL.
	DefaultRemoteURLSource = "env:GIT_REMOTE_URL"
	// DefaultProbeTimeoutSeconds bounds a single status probe.
	DefaultProbeTimeoutSeconds = 10

	stateFileConfigKeySuffixConstant      = ".state_file"
	repositoryPathConfigKeySuffixConstant = ".repository_path"
	webhookSourceConfigKeySuffixConstant  = ".webhook_url_source"
	remoteSourceConfigKeySuffixConstant   = ".remote_url_source"
	probeTimeoutConfigKeySuffixConstant   = ".probe_timeout_seconds"
)

// CommandConfiguration captures persistent settings for the watch command.
type CommandConfiguration struct {
	WatchlistFile       string   `mapstructure:"watchlist_file"`
	Repositories        []string `mapstructure:"repositories"`
	StateFile           string   `mapstructure:"state_file"`
	RepositoryPath      string   `mapstructure:"repository_path"`
	BranchName          string   `mapstructure:"branch"`
	WebhookURLSource    string   `mapstructure:"webhook_url_source"`
	RemoteURLSource     string   `mapstructure:"remote_url_source"`
	APITokenSource      string   `mapstructure:"api_token_source"`
	ServiceBaseURL      string   `mapstructure:"service_base_url"`
	CommitMessage       string   `mapstructure:"commit_message"`
	CommitterName       string   `mapstructure:"committer_name"`
	CommitterEmail      string   `mapstructure:"committer_email"`
	ProbeTimeoutSeconds int      `mapstructure:"probe_timeout_seconds"`
}

// DefaultCommandConfiguration returns baseline configuration values for the watch command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		StateFile:           DefaultStateFileName,
		RepositoryPath:      DefaultRepositoryPath,
		WebhookURLSource:    DefaultWebhookURLSource,
		RemoteURLSource:     DefaultRemoteURLSource,
		ProbeTimeoutSeconds: DefaultProbeTimeoutSeconds,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + stateFileConfigKeySuffixConstant:      DefaultStateFileName,
		configurationKeyPrefix + repositoryPathConfigKeySuffixConstant: DefaultRepositoryPath,
		configurationKeyPrefix + webhookSourceConfigKeySuffixConstant:  DefaultWebhookURLSource,
		configurationKeyPrefix + remoteSourceConfigKeySuffixConstant:   DefaultRemoteURLSource,
		configurationKeyPrefix + probeTimeoutConfigKeySuffixConstant:   DefaultProbeTimeoutSeconds,
	}
}

// Sanitize trims configured values and applies defaults to unset fields.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.WatchlistFile = strings.TrimSpace(configuration.WatchlistFile)
	sanitized.Repositories = sanitizeRepositories(configuration.Repositories)
	sanitized.StateFile = withDefault(configuration.StateFile, DefaultStateFileName)
	sanitized.RepositoryPath = withDefault(configuration.RepositoryPath, DefaultRepositoryPath)
	sanitized.BranchName = strings.TrimSpace(configuration.BranchName)
	sanitized.WebhookURLSource = withDefault(configuration.WebhookURLSource, DefaultWebhookURLSource)
	sanitized.RemoteURLSource = withDefault(configuration.RemoteURLSource, DefaultRemoteURLSource)
	sanitized.APITokenSource = strings.TrimSpace(configuration.APITokenSource)
	sanitized.ServiceBaseURL = strings.TrimSpace(configuration.ServiceBaseURL)
	sanitized.CommitMessage = strings.TrimSpace(configuration.CommitMessage)
	sanitized.CommitterName = strings.TrimSpace(configuration.CommitterName)
	sanitized.CommitterEmail = strings.TrimSpace(configuration.CommitterEmail)
	if configuration.ProbeTimeoutSeconds <= 0 {
		sanitized.ProbeTimeoutSeconds = DefaultProbeTimeoutSeconds
	}

	return sanitized
}

// ProbeTimeout converts the configured probe timeout into a duration.
func (configuration CommandConfiguration) ProbeTimeout() time.Duration {
	return time.Duration(configuration.ProbeTimeoutSeconds) * time.Second
}

func withDefault(candidateValue string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}

func sanitizeRepositories(candidateRepositories []string) []string {
	sanitizedRepositories := make([]string, 0, len(candidateRepositories))
	for _, candidateRepository := range candidateRepositories {
		trimmedRepository := strings.TrimSpace(candidateRepository)
		if len(trimmedRepository) == 0 {
			continue
		}
		sanitizedRepositories = append(sanitizedRepositories, trimmedRepository)
	}
	if len(sanitizedRepositories) == 0 {
		return nil
	}
	return sanitizedRepositories
}
