package watchlist

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	watchlistPathRequiredMessageConstant   = "watchlist path must be provided"
	watchlistLoadErrorTemplateConstant     = "failed to load watchlist: %w"
	watchlistParseErrorTemplateConstant    = "failed to parse watchlist: %w"
	watchlistEmptyMessageConstant          = "watchlist must name at least one repository"
	invalidRepositoryNameTemplateConstant  = "invalid repository name %q: expected owner/name"
	repositoryNameSeparatorConstant        = "/"
	expectedRepositoryNameSegmentsConstant = 2
)

// ErrWatchlistPathRequired indicates no watchlist file path was supplied.
var ErrWatchlistPathRequired = errors.New(watchlistPathRequiredMessageConstant)

// ErrWatchlistEmpty indicates the normalized watchlist contained no repositories.
var ErrWatchlistEmpty = errors.New(watchlistEmptyMessageConstant)

// Document describes the on-disk watchlist format.
type Document struct {
	Repositories []string `yaml:"repositories"`
}

// Load reads the watchlist document from disk and normalizes its entries.
func Load(filePath string) ([]string, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return nil, ErrWatchlistPathRequired
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return nil, fmt.Errorf(watchlistLoadErrorTemplateConstant, readError)
	}

	var document Document
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		var bareList []string
		if bareListError := yaml.Unmarshal(contentBytes, &bareList); bareListError != nil {
			return nil, fmt.Errorf(watchlistParseErrorTemplateConstant, unmarshalError)
		}
		document.Repositories = bareList
	}

	return Normalize(document.Repositories)
}

// Normalize trims entries, drops blanks, validates owner/name shape, and
// removes duplicates while preserving first-seen order.
func Normalize(candidateRepositories []string) ([]string, error) {
	seenRepositories := make(map[string]struct{}, len(candidateRepositories))
	normalizedRepositories := make([]string, 0, len(candidateRepositories))

	for _, candidateRepository := range candidateRepositories {
		trimmedRepository := strings.TrimSpace(candidateRepository)
		if len(trimmedRepository) == 0 {
			continue
		}

		if validationError := validateRepositoryName(trimmedRepository); validationError != nil {
			return nil, validationError
		}

		if _, alreadySeen := seenRepositories[trimmedRepository]; alreadySeen {
			continue
		}

		seenRepositories[trimmedRepository] = struct{}{}
		normalizedRepositories = append(normalizedRepositories, trimmedRepository)
	}

	if len(normalizedRepositories) == 0 {
		return nil, ErrWatchlistEmpty
	}

	return normalizedRepositories, nil
}

func validateRepositoryName(repositoryName string) error {
	segments := strings.Split(repositoryName, repositoryNameSeparatorConstant)
	if len(segments) != expectedRepositoryNameSegmentsConstant {
		return fmt.Errorf(invalidRepositoryNameTemplateConstant, repositoryName)
	}
	for _, segment := range segments {
		if len(strings.TrimSpace(segment)) == 0 {
			return fmt.Errorf(invalidRepositoryNameTemplateConstant, repositoryName)
		}
	}
	return nil
}
