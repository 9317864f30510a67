// Package githubauth resolves GitHub API credentials from the environment.
package githubauth

import (
	"os"
	"strings"
)

// Environment variable names consulted for GitHub authentication.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// ResolveToken returns the first non-empty GitHub authentication token observed
// through the provided lookup, falling back to the process environment. The
// token is optional: a missing token simply yields unauthenticated requests.
func ResolveToken(environmentLookup EnvironmentLookup) (string, bool) {
	resolvedLookup := environmentLookup
	if resolvedLookup == nil {
		resolvedLookup = os.LookupEnv
	}

	for _, environmentKey := range tokenPreference {
		candidateValue, exists := resolvedLookup(environmentKey)
		if !exists {
			continue
		}
		trimmedValue := strings.TrimSpace(candidateValue)
		if len(trimmedValue) > 0 {
			return trimmedValue, true
		}
	}

	return "", false
}
