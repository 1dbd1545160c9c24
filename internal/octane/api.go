package octane

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/octanebridge/octane/internal/debug"
)

// API provides the entity level operations on top of a Requester.
type API struct {
	r Requester
}

// NewAPI wraps r. Tests pass a fake Requester; production code uses Open.
func NewAPI(r Requester) *API {
	return &API{r: r}
}

// Open builds a Transport for one operation and wraps it in an API.
// The caller must Close the returned API.
func Open(conn *ConnectionConfig, creds Credentials, proxy *ProxyConfig) (*API, error) {
	c, err := NewClient(conn, creds, proxy)
	if err != nil {
		return nil, err
	}
	return NewAPI(c), nil
}

// Close releases the underlying Transport if it holds resources.
func (a *API) Close() error {
	if c, ok := a.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ValidateConnection performs the cheapest authenticated read available.
func (a *API) ValidateConnection(ctx context.Context) error {
	params := url.Values{"fields": {"id"}, "limit": {"1"}}
	return a.r.Do(ctx, "GET", WorkItemRoot.Plural(), params, nil, nil)
}

type dataEnvelope struct {
	Data []interface{} `json:"data"`
}

func wrap(v interface{}) dataEnvelope {
	return dataEnvelope{Data: []interface{}{v}}
}

// FileBug creates a defect from payload and returns its id.
func (a *API) FileBug(ctx context.Context, payload interface{}) (string, error) {
	body := wrap(payload)
	debug.Logf("octane: file bug %+v\n", payload)

	var created entityList
	if err := a.r.Do(ctx, "POST", Defect.Plural(), nil, body, &created); err != nil {
		return "", err
	}
	if len(created.Data) == 0 || created.Data[0].ID == "" {
		return "", &Error{Kind: KindResponse, Op: "POST " + Defect.Plural(), Message: "response does not contain the new defect id"}
	}
	return created.Data[0].ID, nil
}

type commentPayload struct {
	OwnerWorkItem Reference `json:"owner_work_item"`
	Text          string    `json:"text"`
}

// AddComment attaches text to the defect as a new comment.
func (a *API) AddComment(ctx context.Context, defectID, text string) error {
	if err := requireID("add comment", defectID); err != nil {
		return err
	}
	body := wrap(commentPayload{OwnerWorkItem: Defect.Ref(defectID), Text: text})
	return a.r.Do(ctx, "POST", Comment.Plural(), nil, body, nil)
}

type phaseUpdate struct {
	Phase Reference `json:"phase"`
}

// TransitionToPhase moves the defect into phaseID.
func (a *API) TransitionToPhase(ctx context.Context, defectID, phaseID string) error {
	if err := requireID("transition", defectID); err != nil {
		return err
	}
	return a.r.Do(ctx, "PUT", defectPath(defectID), nil, phaseUpdate{Phase: Phase.Ref(phaseID)}, nil)
}

// PhaseInfo is the phase reference embedded in a defect.
type PhaseInfo struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type defectPhase struct {
	Phase *PhaseInfo `json:"phase"`
}

// DefectPhase reads the defect's current phase.
func (a *API) DefectPhase(ctx context.Context, defectID string) (*PhaseInfo, error) {
	if err := requireID("fetch phase", defectID); err != nil {
		return nil, err
	}
	path := defectPath(defectID)
	var d defectPhase
	if err := a.r.Do(ctx, "GET", path, url.Values{"fields": {"phase"}}, nil, &d); err != nil {
		return nil, err
	}
	if d.Phase == nil {
		return nil, &Error{Kind: KindResponse, Op: "GET " + path, Message: "defect has no phase"}
	}
	return d.Phase, nil
}

// PhaseID returns the id of the defect's current phase.
func (a *API) PhaseID(ctx context.Context, defectID string) (string, error) {
	p, err := a.DefectPhase(ctx, defectID)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// PhaseName returns the display name of the defect's current phase.
func (a *API) PhaseName(ctx context.Context, defectID string) (string, error) {
	p, err := a.DefectPhase(ctx, defectID)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

func defectPath(id string) string {
	return Defect.Plural() + "/" + url.PathEscape(strings.TrimSpace(id))
}

func requireID(op, id string) error {
	if strings.TrimSpace(id) == "" {
		return PreconditionError(op, "defect id must be specified")
	}
	return nil
}
