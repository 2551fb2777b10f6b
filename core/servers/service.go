// ABOUTME: Server service validates, persists and lists published servers
// ABOUTME: Provides business logic for server operations independent of HTTP layer

package servers

import (
	"context"
	"time"

	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/interfaces"
	"serverlist-api/core/listing"
	"serverlist-api/core/validation"
	"serverlist-api/pkg/featureflags"
	"serverlist-api/pkg/metrics"
)

// Options tunes listing behaviour
type Options struct {
	// PageSize is used when a query asks for no limit
	PageSize int

	// MaxPageSize caps the limit of a query
	MaxPageSize int
}

// DefaultOptions returns the listing defaults
func DefaultOptions() Options {
	return Options{PageSize: 20, MaxPageSize: 50}
}

// ServerService handles server validation, persistence and listings
type ServerService struct {
	deps      interfaces.Dependencies
	opts      Options
	validator *validation.Validator
	listing   *listing.Cache
	flags     featureflags.Manager
	metrics   *metrics.Metrics
	prober    interfaces.CoverProber
	covers    interfaces.CoverEnqueuer
	now       func() time.Time
}

// NewServerService creates a new server service. deps.Store is required;
// listings may be nil to disable caching.
func NewServerService(deps interfaces.Dependencies, listings *listing.Cache, flags featureflags.Manager, opts Options) *ServerService {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions().PageSize
	}
	if opts.MaxPageSize < opts.PageSize {
		opts.MaxPageSize = opts.PageSize
	}
	if flags == nil {
		flags = featureflags.NewStaticManager(featureflags.Defaults)
	}

	return &ServerService{
		deps:      deps,
		opts:      opts,
		validator: validation.New(),
		listing:   listings,
		flags:     flags,
		now:       time.Now,
	}
}

// SetMetrics sets the metrics recorder
func (s *ServerService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetCoverProber sets the prober used when the cover probe flag is on
func (s *ServerService) SetCoverProber(p interfaces.CoverProber) {
	s.prober = p
}

// SetCoverEnqueuer sets where cover colour jobs are sent after a save
func (s *ServerService) SetCoverEnqueuer(e interfaces.CoverEnqueuer) {
	s.covers = e
}

// SetClock replaces the time source (for testing)
func (s *ServerService) SetClock(now func() time.Time) {
	s.now = now
}

// Validate checks the draft without saving it
func (s *ServerService) Validate(ctx context.Context, draft domain.ServerDraft) error {
	_, err := s.check(ctx, &draft)
	return err
}

// check normalizes and validates the draft, returning its resolved tags
func (s *ServerService) check(ctx context.Context, draft *domain.ServerDraft) ([]domain.Tag, error) {
	draft.Normalize()

	if err := s.validator.ValidateDraft(*draft); err != nil {
		return nil, err
	}

	tags, err := s.deps.Store.FindTags(ctx, draft.Tags)
	if err != nil {
		return nil, coreerrors.WrapError(err, "failed to resolve tags")
	}
	if len(tags) != len(draft.Tags) {
		known := make(map[string]bool, len(tags))
		for _, t := range tags {
			known[t.Slug] = true
		}
		for _, slug := range draft.Tags {
			if !known[slug] {
				return nil, coreerrors.ValidationErrors{
					{Field: "tags", Message: "Tag sconosciuto: " + slug},
				}
			}
		}
	}

	if s.prober != nil && s.flags.IsEnabled(ctx, featureflags.CoverProbe) {
		if err := s.prober.Probe(ctx, draft.Cover); err != nil {
			s.logDebug("Cover probe rejected image", map[string]interface{}{
				"cover": draft.Cover,
				"error": err.Error(),
			})
			return nil, coreerrors.ValidationErrors{
				{Field: "cover", Message: validation.CoverInvalidMessage},
			}
		}
	}

	return tags, nil
}

// Create validates and stores a new server
func (s *ServerService) Create(ctx context.Context, draft domain.ServerDraft) (*domain.Server, error) {
	tags, err := s.check(ctx, &draft)
	if err != nil {
		s.metrics.MutationFailed("create")
		return nil, err
	}

	srv := &domain.Server{
		Title:     draft.Title,
		Content:   draft.Content,
		IP:        draft.IP,
		Cover:     draft.Cover,
		CreatedAt: s.now(),
	}
	if err := s.deps.Store.CreateServer(ctx, srv, tagIDs(tags)); err != nil {
		s.metrics.MutationFailed("create")
		return nil, coreerrors.WrapError(err, "failed to create server")
	}
	srv.Tags = tags

	s.afterMutation(ctx)
	s.enqueueCover(ctx, srv.ID, srv.Cover)
	s.metrics.ServerCreated()

	s.logInfo("Server created", map[string]interface{}{
		"server_id": srv.ID,
		"tags":      len(tags),
	})

	return srv, nil
}

// Update validates the draft and replaces the editable fields of server id
func (s *ServerService) Update(ctx context.Context, id int64, draft domain.ServerDraft) (*domain.Server, error) {
	existing, err := s.deps.Store.GetServer(ctx, id, time.Time{})
	if err != nil {
		s.metrics.MutationFailed("update")
		return nil, err
	}

	tags, err := s.check(ctx, &draft)
	if err != nil {
		s.metrics.MutationFailed("update")
		return nil, err
	}

	srv := &domain.Server{
		ID:        id,
		Title:     draft.Title,
		Content:   draft.Content,
		IP:        draft.IP,
		Cover:     draft.Cover,
		UpdatedAt: s.now(),
	}
	if err := s.deps.Store.UpdateServer(ctx, srv, tagIDs(tags)); err != nil {
		s.metrics.MutationFailed("update")
		return nil, coreerrors.WrapError(err, "failed to update server")
	}

	s.afterMutation(ctx)
	if existing.Cover != srv.Cover {
		s.enqueueCover(ctx, id, srv.Cover)
	}
	s.metrics.ServerUpdated()

	s.logInfo("Server updated", map[string]interface{}{
		"server_id": id,
		"tags":      len(tags),
	})

	return s.deps.Store.GetServer(ctx, id, domain.WindowMonth.Since(s.now()))
}

// Get loads one server with votes counted inside window
func (s *ServerService) Get(ctx context.Context, id int64, window domain.Window) (*domain.Server, error) {
	if window == "" {
		window = domain.WindowMonth
	}
	return s.deps.Store.GetServer(ctx, id, window.Since(s.now()))
}

// RecordView counts one detail page view
func (s *ServerService) RecordView(ctx context.Context, id int64) error {
	return s.deps.Store.IncrementViews(ctx, id)
}

// List returns one page of servers. Pages are cached until the next mutation.
func (s *ServerService) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	q, err := s.normalizeQuery(q)
	if err != nil {
		return nil, err
	}

	offset, err := domain.DecodeCursor(q, q.Cursor)
	if err != nil {
		return nil, &coreerrors.ValidationError{Field: "cursor", Message: "Cursore non valido."}
	}

	cacheKey := q.CacheKey(offset)
	var cached domain.Page
	slot, hit := s.listing.Load(ctx, cacheKey, &cached)
	if hit {
		return &cached, nil
	}

	servers, err := s.deps.Store.ListServers(ctx, q, q.Window.Since(s.now()), offset, q.Limit+1)
	if err != nil {
		return nil, coreerrors.WrapError(err, "failed to list servers")
	}

	page := &domain.Page{Servers: servers}
	if len(servers) > q.Limit {
		page.Servers = servers[:q.Limit]
		page.HasMore = true
		page.NextCursor = domain.EncodeCursor(q, offset+q.Limit)
	}
	if page.Servers == nil {
		page.Servers = []*domain.Server{}
	}

	s.listing.Store(ctx, slot, page)
	return page, nil
}

func (s *ServerService) normalizeQuery(q domain.ListQuery) (domain.ListQuery, error) {
	window, err := domain.ParseWindow(string(q.Window))
	if err != nil {
		return q, &coreerrors.ValidationError{Field: "window", Message: "Periodo non valido."}
	}
	q.Window = window

	sort, err := domain.ParseSort(string(q.Sort))
	if err != nil {
		return q, &coreerrors.ValidationError{Field: "sort", Message: "Ordinamento non valido."}
	}
	q.Sort = sort

	switch {
	case q.Limit <= 0:
		q.Limit = s.opts.PageSize
	case q.Limit > s.opts.MaxPageSize:
		q.Limit = s.opts.MaxPageSize
	}

	return q, nil
}

// Top returns the server with the most votes inside window. Servers without
// votes in the window never qualify.
func (s *ServerService) Top(ctx context.Context, window domain.Window) (*domain.Server, error) {
	window, err := domain.ParseWindow(string(window))
	if err != nil {
		return nil, &coreerrors.ValidationError{Field: "window", Message: "Periodo non valido."}
	}

	cacheKey := "top:" + string(window)
	var cached domain.Server
	slot, hit := s.listing.Load(ctx, cacheKey, &cached)
	if hit {
		return &cached, nil
	}

	q := domain.ListQuery{Window: window, Sort: domain.SortPopular, Limit: 1}
	servers, err := s.deps.Store.ListServers(ctx, q, window.Since(s.now()), 0, 1)
	if err != nil {
		return nil, coreerrors.WrapError(err, "failed to load top server")
	}
	if len(servers) == 0 || servers[0].Votes == 0 {
		return nil, &coreerrors.NotFoundError{Resource: "top server", ID: string(window)}
	}

	s.listing.Store(ctx, slot, servers[0])
	return servers[0], nil
}

// Vote records one vote from voter. A voter may vote each server once per day.
func (s *ServerService) Vote(ctx context.Context, id int64, voter string) (*domain.Server, error) {
	if voter == "" {
		return nil, &coreerrors.ValidationError{Field: "voter", Message: "Votante mancante."}
	}

	if _, err := s.deps.Store.GetServer(ctx, id, time.Time{}); err != nil {
		return nil, err
	}

	vote := domain.Vote{ServerID: id, Voter: voter, CreatedAt: s.now()}
	if err := s.deps.Store.AddVote(ctx, vote); err != nil {
		if !coreerrors.IsConflict(err) {
			s.metrics.MutationFailed("vote")
		}
		return nil, err
	}

	s.afterMutation(ctx)
	s.metrics.VoteRecorded()

	return s.deps.Store.GetServer(ctx, id, domain.WindowMonth.Since(s.now()))
}

// SetCoverColor stores an extracted cover colour. It is the sink of the
// cover worker.
func (s *ServerService) SetCoverColor(ctx context.Context, id int64, color string) error {
	if err := s.deps.Store.SetCoverColor(ctx, id, color); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

func (s *ServerService) afterMutation(ctx context.Context) {
	if err := s.listing.Invalidate(ctx); err != nil {
		s.logWarn("Failed to invalidate listing cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *ServerService) enqueueCover(ctx context.Context, id int64, cover string) {
	if s.covers == nil || !s.flags.IsEnabled(ctx, featureflags.CoverColors) {
		return
	}
	if err := s.covers.Enqueue(id, cover); err != nil {
		s.logWarn("Failed to queue cover colour extraction", map[string]interface{}{
			"server_id": id,
			"error":     err.Error(),
		})
	}
}

func tagIDs(tags []domain.Tag) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func (s *ServerService) logDebug(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Debug(msg, fields)
	}
}

func (s *ServerService) logInfo(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, fields)
	}
}

func (s *ServerService) logWarn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}
