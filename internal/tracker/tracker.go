package tracker

import (
	"context"

	"github.com/octanebridge/octane/internal/bugparam"
	"github.com/octanebridge/octane/internal/octane"
)

// Credentials authenticate one host operation.
type Credentials = octane.Credentials

// BugTracker is the contract between the host and a bug tracker integration.
// Each credentialed method is one logical operation: implementations open
// their connection at the start and release it before returning.
type BugTracker interface {
	// Name returns the lowercase registry identifier (e.g. "octane").
	Name() string

	// ShortDisplayName returns the product name shown in lists.
	ShortDisplayName() string

	// LongDisplayName includes the configured endpoint once Configure succeeded.
	LongDisplayName() string

	// ConfigFields describes the configuration the host must collect.
	ConfigFields() []ConfigField

	// Configure validates and stores the host configuration.
	Configure(cfg map[string]string) error

	// RequiresAuthentication reports whether operations need Credentials.
	RequiresAuthentication() bool

	// TestConfiguration checks the configuration against the remote service.
	TestConfiguration(ctx context.Context, creds Credentials) error

	// ValidateCredentials checks that creds are accepted.
	ValidateCredentials(ctx context.Context, creds Credentials) error

	// Parameters returns the fields the user fills in to file a bug.
	Parameters(ctx context.Context, creds Credentials) (*bugparam.Set, error)

	// OnParameterChange refreshes fields depending on changed.
	OnParameterChange(ctx context.Context, creds Credentials, changed bugparam.ID, current *bugparam.Set) (*bugparam.Set, error)

	// BatchParameters is Parameters for filing one bug for many issues.
	BatchParameters(ctx context.Context, creds Credentials) (*bugparam.Set, error)

	// OnBatchParameterChange is OnParameterChange for batch filing.
	OnBatchParameterChange(ctx context.Context, creds Credentials, changed bugparam.ID, current *bugparam.Set) (*bugparam.Set, error)

	// FileBug creates a bug from field values keyed by field id.
	FileBug(ctx context.Context, creds Credentials, values map[string]string) (*Bug, error)

	// FetchBug reads a bug's current state.
	FetchBug(ctx context.Context, creds Credentials, bugID string) (*Bug, error)

	IsOpen(bug *Bug) bool
	IsClosed(bug *Bug) bool
	IsClosedAndCanReopen(bug *Bug) bool

	// Reopen moves a closed bug back to an open state and comments on it.
	Reopen(ctx context.Context, creds Credentials, bug *Bug, comment string) error

	// AddComment attaches a comment to the bug.
	AddComment(ctx context.Context, creds Credentials, bug *Bug, comment string) error

	// DeepLink returns the browser URL of a bug.
	DeepLink(bugID string) string
}

// Bug is a tracker bug as seen by the host.
type Bug struct {
	ID         string `json:"id" yaml:"id"`
	Status     string `json:"status" yaml:"status"`
	StatusName string `json:"status_name,omitempty" yaml:"status_name,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ConfigField describes one configuration value a tracker needs.
type ConfigField struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
	// Secret values are masked when displayed.
	Secret bool `json:"secret,omitempty" yaml:"secret,omitempty"`
	// Hidden fields are not offered in the host's configuration screen.
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// ErrNotInitialized is returned when a tracker is used before Configure.
type ErrNotInitialized struct {
	Tracker string
}

func (e *ErrNotInitialized) Error() string {
	return e.Tracker + " tracker not configured; call Configure() first"
}

// Unwrap reports the missing configuration as a KindConfiguration error.
func (e *ErrNotInitialized) Unwrap() error {
	return &octane.Error{Kind: octane.KindConfiguration, Op: "configure", Message: e.Tracker + " tracker not configured"}
}
