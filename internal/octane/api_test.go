package octane_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octanebridge/octane/internal/octane"
	"github.com/octanebridge/octane/internal/octane/octanetest"
)

func TestValidateConnection(t *testing.T) {
	srv := octanetest.New(t)
	srv.SetResponse("GET", "work_item_roots", http.StatusOK, octanetest.IDs("1"))
	api := newAPI(t, srv)

	require.NoError(t, api.ValidateConnection(context.Background()))
	req := srv.LastRequest()
	assert.Equal(t, "id", req.Query.Get("fields"))
	assert.Equal(t, "1", req.Query.Get("limit"))

	srv.SetAuthError(true)
	err := api.ValidateConnection(context.Background())
	assert.True(t, octane.IsKind(err, octane.KindAuthentication))
}

func TestFileBugWrapsPayload(t *testing.T) {
	srv := octanetest.New(t)
	srv.SetResponse("POST", "defects", http.StatusCreated, octanetest.IDs("5001"))
	api := newAPI(t, srv)

	payload := map[string]interface{}{
		"parent": octane.Feature.Ref("31"),
		"name":   "Fix it",
	}
	id, err := api.FileBug(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "5001", id)

	req := srv.LastRequest()
	assert.Equal(t, "POST", req.Method)
	assert.JSONEq(t, `{"data":[{"parent":{"type":"feature","id":"31"},"name":"Fix it"}]}`, string(req.Body))
}

func TestFileBugMissingID(t *testing.T) {
	srv := octanetest.New(t)
	srv.SetResponse("POST", "defects", http.StatusCreated, map[string]interface{}{"data": []interface{}{}})
	api := newAPI(t, srv)

	_, err := api.FileBug(context.Background(), map[string]string{"name": "x"})
	assert.True(t, octane.IsKind(err, octane.KindResponse))
}

func TestAddComment(t *testing.T) {
	srv := octanetest.New(t)
	srv.SetResponse("POST", "comments", http.StatusCreated, octanetest.IDs("8"))
	api := newAPI(t, srv)

	require.NoError(t, api.AddComment(context.Background(), "5001", "still broken"))
	assert.JSONEq(t,
		`{"data":[{"owner_work_item":{"type":"defect","id":"5001"},"text":"still broken"}]}`,
		string(srv.LastRequest().Body))
}

func TestTransitionToPhase(t *testing.T) {
	srv := octanetest.New(t)
	srv.SetResponse("PUT", "defects/5001", http.StatusOK, map[string]string{"id": "5001"})
	api := newAPI(t, srv)

	require.NoError(t, api.TransitionToPhase(context.Background(), "5001", octane.PhaseDefectOpened))
	req := srv.LastRequest()
	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, "defects/5001", req.Path)
	assert.JSONEq(t, `{"phase":{"type":"phase","id":"phase.defect.opened"}}`, string(req.Body))
}

func TestDefectPhase(t *testing.T) {
	srv := octanetest.New(t)
	srv.SetResponse("GET", "defects/5001", http.StatusOK, octanetest.Phase("5001", octane.PhaseDefectFixed, "Fixed"))
	api := newAPI(t, srv)
	ctx := context.Background()

	id, err := api.PhaseID(ctx, "5001")
	require.NoError(t, err)
	assert.Equal(t, "phase.defect.fixed", id)

	name, err := api.PhaseName(ctx, "5001")
	require.NoError(t, err)
	assert.Equal(t, "Fixed", name)
	assert.Equal(t, "phase", srv.LastRequest().Query.Get("fields"))
}

func TestDefectPhaseMissing(t *testing.T) {
	srv := octanetest.New(t)
	srv.SetResponse("GET", "defects/1", http.StatusOK, map[string]string{"id": "1"})
	api := newAPI(t, srv)

	_, err := api.PhaseID(context.Background(), "1")
	assert.True(t, octane.IsKind(err, octane.KindResponse))

	_, err = api.PhaseID(context.Background(), " ")
	assert.True(t, octane.IsKind(err, octane.KindPrecondition))
}
