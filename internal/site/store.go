package site

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/state"
)

// Client is the subset of RestClient the store drives.
type Client interface {
	PullSites()
	PullSite(site SiteModel)
	NewSite(siteName, siteTitle, language string, visibility SiteVisibility, dryRun bool)
}

// Ensure RestClient implements Client at compile time.
var _ Client = (*RestClient)(nil)

// Event is published to subscribers after the store handles a result action.
type Event interface {
	isSiteEvent()
}

// OnSiteChanged follows UpdateSites and UpdateSite.
type OnSiteChanged struct {
	Cause        dispatch.Type
	RowsAffected int
	Err          *SiteError
}

// OnNewSiteCreated follows CreatedNewSite.
type OnNewSiteCreated struct {
	Payload NewSiteResponsePayload
}

func (OnSiteChanged) isSiteEvent()    {}
func (OnNewSiteCreated) isSiteEvent() {}

// Snapshot is a copy of the store state.
type Snapshot struct {
	Sites               Sites
	LastUpdated         time.Time
	LastError           *SiteError
	ConsecutiveFailures int
}

// IsOffline reports whether the last two or more fetches failed.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store owns the site collection. It is mutated only from OnAction.
type Store struct {
	client Client
	log    logrus.FieldLogger
	events *state.Broadcaster[Event]

	mu       sync.RWMutex
	snapshot Snapshot
}

// Ensure Store implements dispatch.Handler at compile time.
var _ dispatch.Handler = (*Store)(nil)

// NewStore builds a Store driving client.
func NewStore(client Client, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		client: client,
		log:    log.WithField("component", "site-store"),
		events: state.NewBroadcaster[Event](0),
	}
}

// OnAction implements dispatch.Handler.
func (s *Store) OnAction(a dispatch.Action) {
	switch a := a.(type) {
	case FetchSitesAction:
		s.client.PullSites()
	case FetchSiteAction:
		s.client.PullSite(a.Site)
	case CreateNewSiteAction:
		p := a.Payload
		s.client.NewSite(p.SiteName, p.SiteTitle, p.Language, p.Visibility, p.DryRun)
	case UpdateSitesAction:
		s.updateSites(a)
	case UpdateSiteAction:
		s.updateSite(a)
	case CreatedNewSiteAction:
		s.publish(OnNewSiteCreated{Payload: a.Payload})
	}
}

// Subscribe returns a channel of store events and its cancel function.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.events.Subscribe()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshot
	snap.Sites = s.snapshot.Sites.Clone()
	if s.snapshot.LastError != nil {
		errCopy := *s.snapshot.LastError
		snap.LastError = &errCopy
	}
	return snap
}

// Sites returns a copy of the site collection.
func (s *Store) Sites() Sites {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Sites.Clone()
}

// SiteByID looks a site up by its remote id.
func (s *Store) SiteByID(id int64) (SiteModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Sites.ByID(id)
}

// Count returns the number of known sites.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot.Sites)
}

func (s *Store) updateSites(a UpdateSitesAction) {
	if a.Err != nil {
		s.recordError(a.Err)
		s.publish(OnSiteChanged{Cause: dispatch.UpdateSites, Err: a.Err})
		return
	}
	s.mu.Lock()
	s.snapshot.Sites = a.Sites.Clone()
	s.markSuccess()
	rows := len(s.snapshot.Sites)
	s.mu.Unlock()

	s.publish(OnSiteChanged{Cause: dispatch.UpdateSites, RowsAffected: rows})
}

func (s *Store) updateSite(a UpdateSiteAction) {
	if a.Err != nil {
		s.recordError(a.Err)
		s.publish(OnSiteChanged{Cause: dispatch.UpdateSite, Err: a.Err})
		return
	}
	s.mu.Lock()
	replaced := false
	for i := range s.snapshot.Sites {
		if s.snapshot.Sites[i].SiteID == a.Site.SiteID {
			s.snapshot.Sites[i] = a.Site
			replaced = true
			break
		}
	}
	if !replaced {
		s.snapshot.Sites = append(s.snapshot.Sites, a.Site)
	}
	s.markSuccess()
	s.mu.Unlock()

	s.publish(OnSiteChanged{Cause: dispatch.UpdateSite, RowsAffected: 1})
}

// markSuccess must be called with mu held.
func (s *Store) markSuccess() {
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

func (s *Store) recordError(err *SiteError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

func (s *Store) publish(e Event) {
	if dropped := s.events.Publish(e); dropped > 0 {
		s.log.WithField("dropped", dropped).Warn("subscriber buffer full, event dropped")
	}
}
