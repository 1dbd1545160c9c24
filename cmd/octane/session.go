package main

import (
	"context"

	"github.com/octanebridge/octane/internal/config"
	"github.com/octanebridge/octane/internal/debug"
	"github.com/octanebridge/octane/internal/tracker"
)

const trackerName = "octane"

// session is a configured tracker plus the credentials every call uses.
type session struct {
	tracker tracker.BugTracker
	creds   tracker.Credentials
}

// loadStore reads the config file named by --config.
func (o *rootOptions) loadStore() (*config.Store, error) {
	store, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	debug.Logf("config: using %s\n", store.Path())
	return store, nil
}

// openSession resolves settings and configures the tracker. Nothing is
// sent to the server.
func (o *rootOptions) openSession(ctx context.Context) (*session, error) {
	store, err := o.loadStore()
	if err != nil {
		return nil, err
	}
	settings, err := config.Resolve(ctx, store, o.prompt)
	if err != nil {
		return nil, err
	}
	bt, err := newTracker(settings.Tracker)
	if err != nil {
		return nil, err
	}
	return &session{tracker: bt, creds: settings.Credentials}, nil
}

// configuredTracker is openSession without credentials, for commands that
// never talk to the server.
func (o *rootOptions) configuredTracker(ctx context.Context) (*session, error) {
	store, err := o.loadStore()
	if err != nil {
		return nil, err
	}
	host, err := config.ResolveTracker(ctx, store)
	if err != nil {
		return nil, err
	}
	bt, err := newTracker(host)
	if err != nil {
		return nil, err
	}
	return &session{tracker: bt}, nil
}

func newTracker(host map[string]string) (tracker.BugTracker, error) {
	bt, err := tracker.NewTracker(trackerName)
	if err != nil {
		return nil, err
	}
	if err := bt.Configure(host); err != nil {
		return nil, err
	}
	return bt, nil
}
