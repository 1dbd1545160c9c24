// Package octane registers the ALM Octane bug tracker.
package octane

import (
	"context"
	"fmt"
	"strings"

	"github.com/octanebridge/octane/internal/bugparam"
	"github.com/octanebridge/octane/internal/bugstate"
	"github.com/octanebridge/octane/internal/debug"
	octaneapi "github.com/octanebridge/octane/internal/octane"
	"github.com/octanebridge/octane/internal/tracker"
)

const trackerName = "octane"

func init() {
	tracker.Register(trackerName, func() tracker.BugTracker {
		return New()
	})
}

// Tracker implements tracker.BugTracker for ALM Octane.
type Tracker struct {
	conn   *octaneapi.ConnectionConfig
	proxy  *octaneapi.ProxyConfig
	params *bugparam.Engine
}

func New() *Tracker {
	return &Tracker{params: bugparam.New()}
}

func (t *Tracker) Name() string {
	return trackerName
}

func (t *Tracker) ShortDisplayName() string {
	return "Octane"
}

func (t *Tracker) LongDisplayName() string {
	if t.conn == nil {
		return t.ShortDisplayName()
	}
	return t.ShortDisplayName() + " (" + t.conn.BaseURL() + ")"
}

func (t *Tracker) ConfigFields() []tracker.ConfigField {
	fields := []tracker.ConfigField{
		{Key: octaneapi.KeyURL, Label: "Octane URL", Description: "Octane base URL, e.g. https://octane.example.com", Required: true},
		{Key: octaneapi.KeySharedSpaceID, Label: "Shared Space ID", Description: "Octane shared space id", Required: true},
		{Key: octaneapi.KeyWorkspaceID, Label: "Workspace ID", Description: "Octane workspace id", Required: true},
	}
	for _, scheme := range []string{"http", "https"} {
		upper := strings.ToUpper(scheme)
		fields = append(fields,
			tracker.ConfigField{Key: scheme + "ProxyHost", Label: upper + " Proxy Host", Description: "Proxy host for " + scheme + " Octane URLs", Hidden: true},
			tracker.ConfigField{Key: scheme + "ProxyPort", Label: upper + " Proxy Port", Description: "Proxy port for " + scheme + " Octane URLs", Hidden: true},
			tracker.ConfigField{Key: scheme + "ProxyUsername", Label: upper + " Proxy Username", Description: "Optional proxy user name", Hidden: true},
			tracker.ConfigField{Key: scheme + "ProxyPassword", Label: upper + " Proxy Password", Description: "Optional proxy password", Hidden: true, Secret: true},
		)
	}
	return fields
}

// Configure validates the connection settings and the proxy matching the
// URL scheme. On error the previous configuration is kept.
func (t *Tracker) Configure(cfg map[string]string) error {
	conn, err := octaneapi.ConnectionConfigFrom(cfg)
	if err != nil {
		return err
	}
	proxy, err := octaneapi.ProxyConfigFor(cfg, conn.BaseURL())
	if err != nil {
		return err
	}
	t.conn, t.proxy = conn, proxy
	debug.Logf("octane: configured %s shared space %s workspace %s\n",
		conn.BaseURL(), conn.SharedSpaceID(), conn.WorkspaceID())
	return nil
}

func (t *Tracker) RequiresAuthentication() bool {
	return true
}

// withAPI runs fn against a Transport that lives only for this call.
func (t *Tracker) withAPI(creds tracker.Credentials, fn func(api *octaneapi.API) error) error {
	if t.conn == nil {
		return &tracker.ErrNotInitialized{Tracker: trackerName}
	}
	api, err := octaneapi.Open(t.conn, creds, t.proxy)
	if err != nil {
		return err
	}
	defer func() { _ = api.Close() }()
	return fn(api)
}

func (t *Tracker) TestConfiguration(ctx context.Context, creds tracker.Credentials) error {
	return t.ValidateCredentials(ctx, creds)
}

func (t *Tracker) ValidateCredentials(ctx context.Context, creds tracker.Credentials) error {
	return t.withAPI(creds, func(api *octaneapi.API) error {
		return api.ValidateConnection(ctx)
	})
}

func (t *Tracker) Parameters(ctx context.Context, creds tracker.Credentials) (*bugparam.Set, error) {
	var s *bugparam.Set
	err := t.withAPI(creds, func(api *octaneapi.API) error {
		var err error
		s, err = t.params.Parameters(ctx, api)
		return err
	})
	return s, err
}

func (t *Tracker) OnParameterChange(ctx context.Context, creds tracker.Credentials, changed bugparam.ID, current *bugparam.Set) (*bugparam.Set, error) {
	var s *bugparam.Set
	err := t.withAPI(creds, func(api *octaneapi.API) error {
		var err error
		s, err = t.params.OnChange(ctx, api, changed, current)
		return err
	})
	return s, err
}

func (t *Tracker) BatchParameters(ctx context.Context, creds tracker.Credentials) (*bugparam.Set, error) {
	return t.Parameters(ctx, creds)
}

func (t *Tracker) OnBatchParameterChange(ctx context.Context, creds tracker.Credentials, changed bugparam.ID, current *bugparam.Set) (*bugparam.Set, error) {
	return t.OnParameterChange(ctx, creds, changed, current)
}

// FileBug resolves the parent selection and creates the defect in the
// "new" phase.
func (t *Tracker) FileBug(ctx context.Context, creds tracker.Credentials, values map[string]string) (*tracker.Bug, error) {
	var bug *tracker.Bug
	err := t.withAPI(creds, func(api *octaneapi.API) error {
		sub, err := t.params.BuildSubmission(ctx, api, values)
		if err != nil {
			return err
		}
		id, err := api.FileBug(ctx, sub)
		if err != nil {
			return fmt.Errorf("file defect: %w", err)
		}
		bug = &tracker.Bug{ID: id, Status: sub.Phase.ID, URL: t.conn.DeepLink(id)}
		return nil
	})
	return bug, err
}

func (t *Tracker) FetchBug(ctx context.Context, creds tracker.Credentials, bugID string) (*tracker.Bug, error) {
	var bug *tracker.Bug
	err := t.withAPI(creds, func(api *octaneapi.API) error {
		phase, err := api.DefectPhase(ctx, bugID)
		if err != nil {
			return err
		}
		bug = &tracker.Bug{ID: bugID, Status: phase.ID, StatusName: phase.Name, URL: t.conn.DeepLink(bugID)}
		return nil
	})
	return bug, err
}

func (t *Tracker) IsOpen(bug *tracker.Bug) bool {
	return bugstate.IsOpen(bug.Status)
}

func (t *Tracker) IsClosed(bug *tracker.Bug) bool {
	return bugstate.IsClosed(bug.Status)
}

func (t *Tracker) IsClosedAndCanReopen(bug *tracker.Bug) bool {
	return bugstate.IsClosedAndCanReopen(bug.Status)
}

// Reopen reopens bug from its recorded status. A bug without a recorded
// status has its phase read first, within the same operation.
func (t *Tracker) Reopen(ctx context.Context, creds tracker.Credentials, bug *tracker.Bug, comment string) error {
	return t.withAPI(creds, func(api *octaneapi.API) error {
		phase := bug.Status
		if phase == "" {
			var err error
			if phase, err = bugstate.CurrentStatus(ctx, api, bug.ID); err != nil {
				return err
			}
		}
		if err := bugstate.Reopen(ctx, api, bug.ID, phase, comment); err != nil {
			return err
		}
		bug.Status = bugstate.Classify(phase).ReopenTarget
		bug.StatusName = ""
		return nil
	})
}

func (t *Tracker) AddComment(ctx context.Context, creds tracker.Credentials, bug *tracker.Bug, comment string) error {
	return t.withAPI(creds, func(api *octaneapi.API) error {
		return api.AddComment(ctx, bug.ID, comment)
	})
}

// DeepLink returns "" until the tracker is configured.
func (t *Tracker) DeepLink(bugID string) string {
	if t.conn == nil {
		return ""
	}
	return t.conn.DeepLink(bugID)
}
