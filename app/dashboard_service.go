package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"goincome/domain/statement"
	"goincome/domain/view"
	"goincome/internal"
	"goincome/internal/profiling"
	"goincome/ports"
)

// ErrFetchFailure marks a failed initial load
var ErrFetchFailure = errors.New("fetch failure")

// Notices shown when load problems are surfaced to the user
const (
	LoadFailedMessage = "Income statements could not be loaded."
	EmptyLoadMessage  = "No income statements were returned."
)

// Dataset is the canonical dataset published by the one-shot load
type Dataset struct {
	Records  []statement.Record
	LoadedAt time.Time
	Err      error
}

// LoadStatus reports the progress of the initial load
type LoadStatus struct {
	Done     bool      `json:"done"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// DashboardConfig holds the service settings
type DashboardConfig struct {
	Symbol            string
	SurfaceLoadErrors bool
}

// DashboardService owns the canonical dataset and drives the per-session view state
type DashboardService struct {
	source   ports.StatementSource
	sessions ports.SessionRepository
	config   DashboardConfig
	logger   *internal.Logger

	once    sync.Once
	ready   chan struct{}
	dataset atomic.Pointer[Dataset]
}

// NewDashboardService creates the service. Nothing is fetched until Load.
func NewDashboardService(
	source ports.StatementSource,
	sessions ports.SessionRepository,
	config DashboardConfig,
	logger *internal.Logger,
) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DashboardService{
		source:   source,
		sessions: sessions,
		config:   config,
		logger:   logger.With("Loader"),
		ready:    make(chan struct{}),
	}
}

// Symbol returns the ticker the dashboard shows
func (s *DashboardService) Symbol() string {
	return s.config.Symbol
}

// Load performs the single fetch of the process. Later calls return the
// outcome of the first one without fetching again. A failed or empty fetch
// still publishes an (empty) dataset.
func (s *DashboardService) Load(ctx context.Context) error {
	s.once.Do(func() {
		start := time.Now()
		records, err := s.source.FetchStatements(ctx)

		ds := &Dataset{LoadedAt: time.Now()}
		switch {
		case err != nil:
			ds.Err = fmt.Errorf("%w: %w", ErrFetchFailure, err)
			s.logger.Error("loading %s statements failed after %s: %v", s.config.Symbol, time.Since(start), err)
		case len(records) == 0:
			s.logger.Warn("no %s statements fetched", s.config.Symbol)
		default:
			ds.Records = records
			s.logger.Info("loaded %d %s statements in %s", len(records), s.config.Symbol, time.Since(start))
		}

		s.dataset.Store(ds)
		close(s.ready)
	})

	if ds := s.dataset.Load(); ds != nil {
		return ds.Err
	}
	return nil
}

// Ready is closed once the initial load has finished, successfully or not
func (s *DashboardService) Ready() <-chan struct{} {
	return s.ready
}

// Status reports the initial load
func (s *DashboardService) Status() LoadStatus {
	ds := s.dataset.Load()
	if ds == nil {
		return LoadStatus{}
	}
	st := LoadStatus{Done: true, Records: len(ds.Records), LoadedAt: ds.LoadedAt}
	if ds.Err != nil {
		st.Error = ds.Err.Error()
	}
	return st
}

// Canonical returns the published dataset, nil before the load finishes
func (s *DashboardService) Canonical() []statement.Record {
	if ds := s.dataset.Load(); ds != nil {
		return ds.Records
	}
	return nil
}

// seed hands the canonical dataset to a session that has not seen it yet
func (s *DashboardService) seed(st view.State) view.State {
	if st.Loaded {
		return st
	}
	ds := s.dataset.Load()
	if ds == nil {
		return st
	}

	st = view.Load(st, ds.Records)
	if s.config.SurfaceLoadErrors {
		switch {
		case ds.Err != nil:
			st = view.WithNotice(st, view.NoticeError, LoadFailedMessage)
		case len(ds.Records) == 0:
			st = view.WithNotice(st, view.NoticeInfo, EmptyLoadMessage)
		}
	}
	return st
}

// View returns the current state of a session, creating it when needed
func (s *DashboardService) View(sessionID string) view.State {
	return s.sessions.Update(sessionID, s.seed)
}

// ApplyFilters validates criteria and recomputes the session's visible subset.
// A validation error is returned together with the updated state.
func (s *DashboardService) ApplyFilters(sessionID string, criteria statement.Criteria) (view.State, error) {
	var applyErr error
	st := s.sessions.Update(sessionID, func(st view.State) view.State {
		st, applyErr = view.ApplyFilters(s.seed(st), criteria)
		return st
	})
	if applyErr != nil {
		s.logger.Debug("session %s: rejected filters: %v", sessionID, applyErr)
	}
	return st, applyErr
}

// ClearFilters resets the session to the canonical dataset
func (s *DashboardService) ClearFilters(sessionID string) view.State {
	return s.sessions.Update(sessionID, func(st view.State) view.State {
		return view.ClearFilters(s.seed(st))
	})
}

// ToggleSort sorts the session's visible subset by key
func (s *DashboardService) ToggleSort(sessionID string, key string) (view.State, error) {
	sortKey, err := statement.ParseSortKey(key)
	if err != nil {
		return s.View(sessionID), err
	}
	return s.sessions.Update(sessionID, func(st view.State) view.State {
		return view.ToggleSort(s.seed(st), sortKey)
	}), nil
}

// Summary computes the statistics panel for a state
func (s *DashboardService) Summary(st view.State) profiling.Summary {
	return profiling.Summarize(st.Visible)
}
