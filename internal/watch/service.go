package watch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stevenmitchelltan/eyes-and-ears/internal/probe"
	"github.com/stevenmitchelltan/eyes-and-ears/internal/state"
)

const (
	serviceLoggerMissingMessageConstant     = "logger not configured"
	serviceProberMissingMessageConstant     = "status prober not configured"
	serviceDispatcherMissingMessageConstant = "alert dispatcher not configured"
	serviceStoreMissingMessageConstant      = "tracking store not configured"
	probeFailedTemplateConstant             = "failed to probe %s: %w"
	alertDeliveryAbortTemplateConstant      = "aborting reconciliation after alert failure for %s: %w"
	repositoryLogFieldNameConstant          = "repository"
	statusLogFieldNameConstant              = "status"
	visibilityCheckedMessageConstant        = "repository visibility checked"
	alertDispatchedMessageConstant          = "public visibility alert dispatched"
	alertSuppressedMessageConstant          = "public visibility alert suppressed by dry-run"
	alertAlreadySentMessageConstant         = "public repository already alerted"
)

// ErrServiceLoggerNotConfigured indicates the service was built without a logger.
var ErrServiceLoggerNotConfigured = errors.New(serviceLoggerMissingMessageConstant)

// ErrProberNotConfigured indicates the service was built without a status prober.
var ErrProberNotConfigured = errors.New(serviceProberMissingMessageConstant)

// ErrDispatcherNotConfigured indicates the service was built without an alert dispatcher.
var ErrDispatcherNotConfigured = errors.New(serviceDispatcherMissingMessageConstant)

// ErrStoreNotConfigured indicates a reconciliation run was requested without a tracking store.
var ErrStoreNotConfigured = errors.New(serviceStoreMissingMessageConstant)

// StatusProber reports the current visibility of a repository.
type StatusProber interface {
	Probe(executionContext context.Context, repositoryName string) (probe.Status, error)
}

// AlertDispatcher delivers a public-visibility alert for a repository.
type AlertDispatcher interface {
	Dispatch(executionContext context.Context, repositoryName string) error
}

// Dependencies enumerates the collaborators required by the service.
type Dependencies struct {
	Logger     *zap.Logger
	Prober     StatusProber
	Dispatcher AlertDispatcher
}

// Options describes a single reconciliation pass.
type Options struct {
	Repositories []string
	Store        *state.Store
	DryRun       bool
}

// RepositoryOutcome records what a reconciliation pass observed for one repository.
type RepositoryOutcome struct {
	Repository      string
	Status          probe.Status
	AlertDispatched bool
	AlertSuppressed bool
}

// Result aggregates the outcomes of a reconciliation pass.
type Result struct {
	Outcomes         []RepositoryOutcome
	PublicCount      int
	AlertsDispatched int
	ProbeFailures    int
}

// Service reconciles repository visibility against the tracking store,
// dispatching at most one alert per repository.
type Service struct {
	logger     *zap.Logger
	prober     StatusProber
	dispatcher AlertDispatcher
}

// NewService validates dependencies and constructs a reconciliation service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrServiceLoggerNotConfigured
	}
	if dependencies.Prober == nil {
		return nil, ErrProberNotConfigured
	}
	if dependencies.Dispatcher == nil {
		return nil, ErrDispatcherNotConfigured
	}
	return &Service{
		logger:     dependencies.Logger,
		prober:     dependencies.Prober,
		dispatcher: dependencies.Dispatcher,
	}, nil
}

// Reconcile probes every repository, dispatches alerts for newly public ones,
// and updates the tracking store. A failed alert delivery aborts the pass
// before the corresponding record is marked, so the next pass retries it.
func (service *Service) Reconcile(executionContext context.Context, options Options) (Result, error) {
	if options.Store == nil {
		return Result{}, ErrStoreNotConfigured
	}

	reconciliationResult := Result{
		Outcomes: make([]RepositoryOutcome, 0, len(options.Repositories)),
	}

	for _, repositoryName := range options.Repositories {
		if !options.DryRun {
			options.Store.EnsureRecord(repositoryName)
		}

		repositoryStatus, probeError := service.prober.Probe(executionContext, repositoryName)
		if probeError != nil {
			return reconciliationResult, fmt.Errorf(probeFailedTemplateConstant, repositoryName, probeError)
		}

		service.logger.Debug(visibilityCheckedMessageConstant,
			zap.String(repositoryLogFieldNameConstant, repositoryName),
			zap.String(statusLogFieldNameConstant, repositoryStatus.String()),
		)

		repositoryOutcome := RepositoryOutcome{
			Repository: repositoryName,
			Status:     repositoryStatus,
		}

		switch repositoryStatus {
		case probe.StatusError:
			reconciliationResult.ProbeFailures++
		case probe.StatusPublic:
			reconciliationResult.PublicCount++
			alertOutcome, alertError := service.handlePublicRepository(executionContext, options, repositoryName)
			if alertError != nil {
				reconciliationResult.Outcomes = append(reconciliationResult.Outcomes, repositoryOutcome)
				return reconciliationResult, alertError
			}
			repositoryOutcome.AlertDispatched = alertOutcome.AlertDispatched
			repositoryOutcome.AlertSuppressed = alertOutcome.AlertSuppressed
			if alertOutcome.AlertDispatched {
				reconciliationResult.AlertsDispatched++
			}
		}

		reconciliationResult.Outcomes = append(reconciliationResult.Outcomes, repositoryOutcome)
	}

	return reconciliationResult, nil
}

func (service *Service) handlePublicRepository(executionContext context.Context, options Options, repositoryName string) (RepositoryOutcome, error) {
	if options.Store.AlertSent(repositoryName) {
		service.logger.Debug(alertAlreadySentMessageConstant,
			zap.String(repositoryLogFieldNameConstant, repositoryName),
		)
		return RepositoryOutcome{}, nil
	}

	if options.DryRun {
		service.logger.Info(alertSuppressedMessageConstant,
			zap.String(repositoryLogFieldNameConstant, repositoryName),
		)
		return RepositoryOutcome{AlertSuppressed: true}, nil
	}

	if dispatchError := service.dispatcher.Dispatch(executionContext, repositoryName); dispatchError != nil {
		return RepositoryOutcome{}, fmt.Errorf(alertDeliveryAbortTemplateConstant, repositoryName, dispatchError)
	}

	options.Store.MarkAlertSent(repositoryName)
	service.logger.Info(alertDispatchedMessageConstant,
		zap.String(repositoryLogFieldNameConstant, repositoryName),
	)

	return RepositoryOutcome{AlertDispatched: true}, nil
}
