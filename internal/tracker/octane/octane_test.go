package octane

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octanebridge/octane/internal/bugparam"
	octaneapi "github.com/octanebridge/octane/internal/octane"
	"github.com/octanebridge/octane/internal/octane/octanetest"
	"github.com/octanebridge/octane/internal/tracker"
)

var creds = tracker.Credentials{Username: "sa@nga", Password: "secret"}

func newTracker(t *testing.T) (*Tracker, *octanetest.Server) {
	t.Helper()
	srv := octanetest.New(t)
	tr := New()
	require.NoError(t, tr.Configure(map[string]string{
		octaneapi.KeyURL:           srv.URL + "/",
		octaneapi.KeySharedSpaceID: octanetest.SharedSpaceID,
		octaneapi.KeyWorkspaceID:   octanetest.WorkspaceID,
	}))
	return tr, srv
}

func TestRegistered(t *testing.T) {
	bt, err := tracker.NewTracker("octane")
	require.NoError(t, err)
	assert.Equal(t, "octane", bt.Name())
	assert.True(t, bt.RequiresAuthentication())
}

func TestDisplayNames(t *testing.T) {
	tr := New()
	assert.Equal(t, "Octane", tr.ShortDisplayName())
	assert.Equal(t, "Octane", tr.LongDisplayName())
	assert.Empty(t, tr.DeepLink("1"))

	tr, srv := newTracker(t)
	assert.Equal(t, "Octane ("+srv.URL+")", tr.LongDisplayName())
	assert.Equal(t, srv.URL+"/ui/entity-navigation?p=1001/1002&entityType=work_item&id=77", tr.DeepLink("77"))
}

func TestConfigFields(t *testing.T) {
	fields := New().ConfigFields()
	require.Len(t, fields, 11)

	visible := 0
	for _, f := range fields {
		if !f.Hidden {
			visible++
			assert.True(t, f.Required, "%s should be required", f.Key)
		}
	}
	assert.Equal(t, 3, visible)
	assert.Equal(t, "httpsProxyPassword", fields[10].Key)
	assert.True(t, fields[10].Secret)
}

func TestConfigureRejectsBadConfig(t *testing.T) {
	tr := New()
	err := tr.Configure(map[string]string{octaneapi.KeyURL: "https://octane"})
	assert.True(t, octaneapi.IsKind(err, octaneapi.KindConfiguration))

	err = tr.Configure(map[string]string{
		octaneapi.KeyURL:            "https://octane",
		octaneapi.KeySharedSpaceID:  "1",
		octaneapi.KeyWorkspaceID:    "2",
		octaneapi.KeyHTTPSProxyHost: "proxy",
		octaneapi.KeyHTTPSProxyPort: "nope",
	})
	assert.True(t, octaneapi.IsKind(err, octaneapi.KindConfiguration))
}

func TestNotConfigured(t *testing.T) {
	err := New().ValidateCredentials(context.Background(), creds)
	var notInit *tracker.ErrNotInitialized
	assert.True(t, errors.As(err, &notInit))
	assert.Equal(t, octaneapi.KindConfiguration, octaneapi.KindOf(err))
}

func TestValidateCredentials(t *testing.T) {
	tr, srv := newTracker(t)
	srv.SetResponse("GET", "work_item_roots", http.StatusOK, octanetest.IDs("1"))

	require.NoError(t, tr.TestConfiguration(context.Background(), creds))
	assert.Equal(t, "work_item_roots", srv.LastRequest().Path)

	srv.SetAuthError(true)
	err := tr.ValidateCredentials(context.Background(), creds)
	assert.True(t, octaneapi.IsKind(err, octaneapi.KindAuthentication))
}

func TestParametersFlow(t *testing.T) {
	tr, srv := newTracker(t)
	srv.SetResponse("GET", "work_item_roots", http.StatusOK, octanetest.Names("Backlog", "Ops"))
	srv.SetQueryResponse("GET", "epics", octaneapi.EpicsUnderRootQuery("Ops"), http.StatusOK, octanetest.Names("Security"))
	srv.SetQueryResponse("GET", "features", octaneapi.FeaturesUnderEpicQuery("Ops", "Security"), http.StatusOK, octanetest.Names("Hardening", "Audit"))
	ctx := context.Background()

	s, err := tr.Parameters(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.RequestCount(), "only roots are queried while nothing is selected")

	require.NoError(t, s.SetValue(bugparam.Root, "Ops"))
	s, err = tr.OnParameterChange(ctx, creds, bugparam.Root, s)
	require.NoError(t, err)

	assert.Equal(t, "Security", s.Value(bugparam.Epic), "single epic is auto-selected")
	feature, _ := s.Choice(bugparam.Feature)
	assert.Equal(t, []string{"Hardening", "Audit"}, feature.Choices)
	assert.True(t, feature.Required)

	batch, err := tr.BatchParameters(ctx, creds)
	require.NoError(t, err)
	_, err = tr.OnBatchParameterChange(ctx, creds, bugparam.Name, batch)
	require.NoError(t, err)
}

func TestFileBug(t *testing.T) {
	tr, srv := newTracker(t)
	srv.SetQueryResponse("GET", "features", octaneapi.FeatureQuery("Ops", "Security", "Audit"), http.StatusOK, octanetest.IDs("3005"))
	srv.SetResponse("POST", "defects", http.StatusCreated, octanetest.IDs("9001"))

	bug, err := tr.FileBug(context.Background(), creds, map[string]string{
		"TYPE":        "Defect",
		"ROOT":        "Ops",
		"EPIC":        "Security",
		"FEATURE":     "Audit",
		"NAME":        "Fix XSS in login.jsp",
		"DESCRIPTION": "Issue Ids: 42",
	})
	require.NoError(t, err)
	assert.Equal(t, "9001", bug.ID)
	assert.Equal(t, "phase.defect.new", bug.Status)
	assert.True(t, tr.IsOpen(bug))
	assert.Contains(t, bug.URL, "id=9001")

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "features", reqs[0].Path)
	assert.Equal(t, "id", reqs[0].Query.Get("fields"))
	assert.JSONEq(t, `{"data":[{
		"parent": {"type": "feature", "id": "3005"},
		"phase": {"type": "phase", "id": "phase.defect.new"},
		"name": "Fix XSS in login.jsp",
		"description": "Issue Ids: 42"
	}]}`, string(reqs[1].Body))
}

func TestFileBugWithoutParent(t *testing.T) {
	tr, srv := newTracker(t)
	_, err := tr.FileBug(context.Background(), creds, map[string]string{"NAME": "n"})
	assert.True(t, octaneapi.IsKind(err, octaneapi.KindPrecondition))
	assert.Zero(t, srv.RequestCount())
}

func TestFetchBugAndClassify(t *testing.T) {
	tr, srv := newTracker(t)
	srv.SetResponse("GET", "defects/9001", http.StatusOK, octanetest.Phase("9001", "phase.defect.fixed", "Fixed"))

	bug, err := tr.FetchBug(context.Background(), creds, "9001")
	require.NoError(t, err)
	assert.Equal(t, "phase.defect.fixed", bug.Status)
	assert.Equal(t, "Fixed", bug.StatusName)
	assert.False(t, tr.IsOpen(bug))
	assert.True(t, tr.IsClosed(bug))
	assert.True(t, tr.IsClosedAndCanReopen(bug))
}

func TestReopen(t *testing.T) {
	tr, srv := newTracker(t)
	srv.SetResponse("GET", "defects/9001", http.StatusOK, octanetest.Phase("9001", "phase.defect.fixed", "Fixed"))
	srv.SetResponse("PUT", "defects/9001", http.StatusOK, map[string]string{"id": "9001"})
	srv.SetResponse("POST", "comments", http.StatusCreated, octanetest.IDs("1"))

	bug := &tracker.Bug{ID: "9001"}
	require.NoError(t, tr.Reopen(context.Background(), creds, bug, "Issue still present"))
	assert.Equal(t, "phase.defect.opened", bug.Status)

	reqs := srv.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, []string{"GET", "PUT", "POST"}, []string{reqs[0].Method, reqs[1].Method, reqs[2].Method})
}

func TestReopenClosedBugFails(t *testing.T) {
	tr, srv := newTracker(t)
	err := tr.Reopen(context.Background(), creds, &tracker.Bug{ID: "1", Status: "phase.defect.closed"}, "c")
	assert.True(t, octaneapi.IsKind(err, octaneapi.KindPrecondition))
	assert.Zero(t, srv.RequestCount())
}

func TestAddComment(t *testing.T) {
	tr, srv := newTracker(t)
	srv.SetResponse("POST", "comments", http.StatusCreated, octanetest.IDs("1"))

	require.NoError(t, tr.AddComment(context.Background(), creds, &tracker.Bug{ID: "5"}, "hello"))
	assert.JSONEq(t, `{"data":[{"owner_work_item":{"type":"defect","id":"5"},"text":"hello"}]}`, string(srv.LastRequest().Body))
}
