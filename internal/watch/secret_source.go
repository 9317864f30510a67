package watch

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	secretSourceSeparatorConstant             = ":"
	environmentSecretSourceKindValueConstant  = "env"
	fileSecretSourceKindValueConstant         = "file"
	environmentNameMissingMessageConstant     = "environment variable name must be provided"
	secretFilePathMissingMessageConstant      = "secret file path must be provided"
	environmentSecretMissingTemplateConstant  = "environment variable %s is not set"
	secretFileReadErrorTemplateConstant       = "unable to read secret file %s: %w"
	secretFileEmptyTemplateConstant           = "secret file %s is empty"
	unsupportedSecretSourceTemplateConstant   = "unsupported secret source type %q"
	secretSourceDeclarationMissingMessageText = "secret source must be provided"
)

// ErrSecretSourceRequired indicates an empty secret source declaration.
var ErrSecretSourceRequired = errors.New(secretSourceDeclarationMissingMessageText)

// SecretSourceKind enumerates the supported secret retrieval mechanisms.
type SecretSourceKind string

// Secret source kind enumerations.
const (
	SecretSourceKindEnvironment SecretSourceKind = SecretSourceKind(environmentSecretSourceKindValueConstant)
	SecretSourceKindFile        SecretSourceKind = SecretSourceKind(fileSecretSourceKindValueConstant)
)

// SecretSource specifies where a sensitive value such as the webhook URL or
// the git remote URL is stored.
type SecretSource struct {
	Kind      SecretSourceKind
	Reference string
}

// ParseSecretSource interprets textual secret source declarations of the form
// "env:NAME" or "file:/path". A bare value is treated as an environment
// variable name.
func ParseSecretSource(declaration string) (SecretSource, error) {
	trimmedDeclaration := strings.TrimSpace(declaration)
	if len(trimmedDeclaration) == 0 {
		return SecretSource{}, ErrSecretSourceRequired
	}

	declarationComponents := strings.SplitN(trimmedDeclaration, secretSourceSeparatorConstant, 2)
	if len(declarationComponents) == 1 {
		return SecretSource{Kind: SecretSourceKindEnvironment, Reference: trimmedDeclaration}, nil
	}

	sourceKind := strings.ToLower(strings.TrimSpace(declarationComponents[0]))
	sourceReference := strings.TrimSpace(declarationComponents[1])

	switch sourceKind {
	case environmentSecretSourceKindValueConstant:
		if len(sourceReference) == 0 {
			return SecretSource{}, errors.New(environmentNameMissingMessageConstant)
		}
		return SecretSource{Kind: SecretSourceKindEnvironment, Reference: sourceReference}, nil
	case fileSecretSourceKindValueConstant:
		if len(sourceReference) == 0 {
			return SecretSource{}, errors.New(secretFilePathMissingMessageConstant)
		}
		return SecretSource{Kind: SecretSourceKindFile, Reference: sourceReference}, nil
	default:
		return SecretSource{}, fmt.Errorf(unsupportedSecretSourceTemplateConstant, sourceKind)
	}
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// SecretResolver retrieves secret values from parsed sources.
type SecretResolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
}

// NewSecretResolver creates a secret resolver with optional dependency overrides.
func NewSecretResolver(environmentLookup EnvironmentLookup, fileReader FileReader) *SecretResolver {
	resolvedEnvironmentLookup := environmentLookup
	if resolvedEnvironmentLookup == nil {
		resolvedEnvironmentLookup = os.LookupEnv
	}

	resolvedFileReader := fileReader
	if resolvedFileReader == nil {
		resolvedFileReader = os.ReadFile
	}

	return &SecretResolver{
		environmentLookup: resolvedEnvironmentLookup,
		fileReader:        resolvedFileReader,
	}
}

// Resolve returns the secret value described by the source, trimmed of
// surrounding whitespace.
func (resolver *SecretResolver) Resolve(source SecretSource) (string, error) {
	switch source.Kind {
	case SecretSourceKindEnvironment:
		environmentValue, variableFound := resolver.environmentLookup(source.Reference)
		if !variableFound {
			return "", fmt.Errorf(environmentSecretMissingTemplateConstant, source.Reference)
		}
		trimmedValue := strings.TrimSpace(environmentValue)
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentSecretMissingTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	case SecretSourceKindFile:
		fileContents, readError := resolver.fileReader(source.Reference)
		if readError != nil {
			return "", fmt.Errorf(secretFileReadErrorTemplateConstant, source.Reference, readError)
		}
		trimmedValue := strings.TrimSpace(string(fileContents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(secretFileEmptyTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedSecretSourceTemplateConstant, source.Kind)
	}
}

// ResolveDeclaration parses and resolves a secret source declaration in one step.
func (resolver *SecretResolver) ResolveDeclaration(declaration string) (string, error) {
	parsedSource, parseError := ParseSecretSource(declaration)
	if parseError != nil {
		return "", parseError
	}
	return resolver.Resolve(parsedSource)
}
