package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

var errUnexpectedCall = errors.New("unexpected call")

type stubUserRepo struct {
	createFn          func(ctx context.Context, user domain.User) (*domain.User, error)
	getByIDFn         func(ctx context.Context, id int64) (*domain.User, error)
	getByIdentifierFn func(ctx context.Context, identifier string) (*domain.User, error)
	existsFn          func(ctx context.Context, username, email string) (bool, error)
	listFn            func(ctx context.Context, filter port.UserListFilter) ([]domain.User, int, error)
	updateProfileFn   func(ctx context.Context, id int64, update port.UserProfileUpdate) (*domain.User, error)
	updatePasswordFn  func(ctx context.Context, id int64, passwordHash string) error
	updateRoleFn      func(ctx context.Context, id int64, role domain.UserRole) error
	updateStatusFn    func(ctx context.Context, id int64, status domain.UserStatus) error
	updateLastLoginFn func(ctx context.Context, id int64, at time.Time) error
	deleteFn          func(ctx context.Context, id int64) error
	getStatsFn        func(ctx context.Context, userID int64) (*domain.UserStats, error)
}

func (r *stubUserRepo) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, user)
}

func (r *stubUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByIDFn(ctx, id)
}

func (r *stubUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if r.getByIdentifierFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByIdentifierFn(ctx, identifier)
}

func (r *stubUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if r.existsFn == nil {
		return false, errUnexpectedCall
	}
	return r.existsFn(ctx, username, email)
}

func (r *stubUserRepo) List(ctx context.Context, filter port.UserListFilter) ([]domain.User, int, error) {
	if r.listFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return r.listFn(ctx, filter)
}

func (r *stubUserRepo) UpdateProfile(ctx context.Context, id int64, update port.UserProfileUpdate) (*domain.User, error) {
	if r.updateProfileFn == nil {
		return nil, errUnexpectedCall
	}
	return r.updateProfileFn(ctx, id, update)
}

func (r *stubUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if r.updatePasswordFn == nil {
		return errUnexpectedCall
	}
	return r.updatePasswordFn(ctx, id, passwordHash)
}

func (r *stubUserRepo) UpdateRole(ctx context.Context, id int64, role domain.UserRole) error {
	if r.updateRoleFn == nil {
		return errUnexpectedCall
	}
	return r.updateRoleFn(ctx, id, role)
}

func (r *stubUserRepo) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	if r.updateStatusFn == nil {
		return errUnexpectedCall
	}
	return r.updateStatusFn(ctx, id, status)
}

func (r *stubUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if r.updateLastLoginFn == nil {
		return nil
	}
	return r.updateLastLoginFn(ctx, id, at)
}

func (r *stubUserRepo) Delete(ctx context.Context, id int64) error {
	if r.deleteFn == nil {
		return errUnexpectedCall
	}
	return r.deleteFn(ctx, id)
}

func (r *stubUserRepo) GetStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	if r.getStatsFn == nil {
		return nil, repository.ErrNotFound
	}
	return r.getStatsFn(ctx, userID)
}

type stubSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	byUser   map[int64]*domain.User

	deletedHashes []string
	deletedUsers  []int64
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{
		sessions: make(map[string]domain.Session),
		byUser:   make(map[int64]*domain.User),
	}
}

func (r *stubSessionRepo) Create(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.TokenHash] = session
	return nil
}

func (r *stubSessionRepo) GetUserByTokenHash(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[tokenHash]
	if !ok || !session.IsActive(now) {
		return nil, repository.ErrNotFound
	}

	user, ok := r.byUser[session.UserID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *stubSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	r.deletedHashes = append(r.deletedHashes, tokenHash)
	return nil
}

func (r *stubSessionRepo) DeleteAllForUser(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for hash, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, hash)
			removed++
		}
	}
	r.deletedUsers = append(r.deletedUsers, userID)
	return removed, nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	return 0, nil
}

// stubHasher encodes passwords as "hashed:<password>" so tests can assert on
// stored values without real argon2 work.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Verify(password, encoded string) (bool, error) {
	return encoded == "hashed:"+password, nil
}

type stubPasswordPolicy struct {
	err error
}

func (p stubPasswordPolicy) Validate(string) error { return p.err }

type stubEventPublisher struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func newStubEventPublisher() *stubEventPublisher {
	return &stubEventPublisher{counts: make(map[string]int)}
}

func (p *stubEventPublisher) record(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[name]++
	return p.err
}

func (p *stubEventPublisher) published(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[name]
}

func (p *stubEventPublisher) PublishUserRegistered(context.Context, domain.UserRegisteredEvent) error {
	return p.record("user_registered")
}

func (p *stubEventPublisher) PublishPasswordChanged(context.Context, domain.PasswordChangedEvent) error {
	return p.record("password_changed")
}

func (p *stubEventPublisher) PublishRoleChanged(context.Context, domain.RoleChangedEvent) error {
	return p.record("role_changed")
}

func (p *stubEventPublisher) PublishStatusChanged(context.Context, domain.StatusChangedEvent) error {
	return p.record("status_changed")
}

func (p *stubEventPublisher) PublishUserDeleted(context.Context, domain.UserDeletedEvent) error {
	return p.record("user_deleted")
}

func (p *stubEventPublisher) PublishSessionRevoked(context.Context, domain.SessionRevokedEvent) error {
	return p.record("session_revoked")
}

type stubPlaceRepo struct {
	places map[int64]domain.Place

	listFn       func(ctx context.Context, filter port.PlaceListFilter) ([]domain.Place, error)
	listAllFn    func(ctx context.Context) ([]domain.Place, error)
	createFn     func(ctx context.Context, draft domain.PlaceDraft) (*domain.Place, error)
	updateFn     func(ctx context.Context, id int64, draft domain.PlaceDraft) (*domain.Place, error)
	deactivateFn func(ctx context.Context, id int64) error

	visitBumps []int64
}

func (r *stubPlaceRepo) List(ctx context.Context, filter port.PlaceListFilter) ([]domain.Place, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(ctx, filter)
}

func (r *stubPlaceRepo) ListAll(ctx context.Context) ([]domain.Place, error) {
	if r.listAllFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listAllFn(ctx)
}

func (r *stubPlaceRepo) GetByID(_ context.Context, id int64) (*domain.Place, error) {
	place, ok := r.places[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := place
	return &clone, nil
}

func (r *stubPlaceRepo) Create(ctx context.Context, draft domain.PlaceDraft) (*domain.Place, error) {
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, draft)
}

func (r *stubPlaceRepo) Update(ctx context.Context, id int64, draft domain.PlaceDraft) (*domain.Place, error) {
	if r.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return r.updateFn(ctx, id, draft)
}

func (r *stubPlaceRepo) Deactivate(ctx context.Context, id int64) error {
	if r.deactivateFn == nil {
		return errUnexpectedCall
	}
	return r.deactivateFn(ctx, id)
}

func (r *stubPlaceRepo) IncrementVisitCount(_ context.Context, id int64) error {
	r.visitBumps = append(r.visitBumps, id)
	return nil
}

type stubReviewRepo struct {
	reviews map[int64]domain.Review

	createFn       func(ctx context.Context, review domain.Review) (*domain.Review, error)
	listForPlaceFn func(ctx context.Context, placeID int64, limit int) ([]domain.Review, error)
	deleteFn       func(ctx context.Context, id int64) error
	addLikeFn      func(ctx context.Context, reviewID, userID int64) error
	removeLikeFn   func(ctx context.Context, reviewID, userID int64) error
}

func (r *stubReviewRepo) Create(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, review)
}

func (r *stubReviewRepo) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := review
	return &clone, nil
}

func (r *stubReviewRepo) ListForPlace(ctx context.Context, placeID int64, limit int) ([]domain.Review, error) {
	if r.listForPlaceFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listForPlaceFn(ctx, placeID, limit)
}

func (r *stubReviewRepo) Delete(ctx context.Context, id int64) error {
	if r.deleteFn == nil {
		return errUnexpectedCall
	}
	return r.deleteFn(ctx, id)
}

func (r *stubReviewRepo) AddLike(ctx context.Context, reviewID, userID int64) error {
	if r.addLikeFn == nil {
		return errUnexpectedCall
	}
	return r.addLikeFn(ctx, reviewID, userID)
}

func (r *stubReviewRepo) RemoveLike(ctx context.Context, reviewID, userID int64) error {
	if r.removeLikeFn == nil {
		return errUnexpectedCall
	}
	return r.removeLikeFn(ctx, reviewID, userID)
}

type stubFavoriteRepo struct {
	addFn    func(ctx context.Context, userID, placeID int64) error
	removeFn func(ctx context.Context, userID, placeID int64) error
	listFn   func(ctx context.Context, userID int64) ([]port.FavoriteWithPlace, error)
}

func (r *stubFavoriteRepo) Add(ctx context.Context, userID, placeID int64) error {
	if r.addFn == nil {
		return errUnexpectedCall
	}
	return r.addFn(ctx, userID, placeID)
}

func (r *stubFavoriteRepo) Remove(ctx context.Context, userID, placeID int64) error {
	if r.removeFn == nil {
		return errUnexpectedCall
	}
	return r.removeFn(ctx, userID, placeID)
}

func (r *stubFavoriteRepo) ListForUser(ctx context.Context, userID int64) ([]port.FavoriteWithPlace, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(ctx, userID)
}

type stubRatingRepo struct {
	upsertFn func(ctx context.Context, userID, placeID int64, rating int) (float64, error)
}

func (r *stubRatingRepo) Upsert(ctx context.Context, userID, placeID int64, rating int) (float64, error) {
	if r.upsertFn == nil {
		return 0, errUnexpectedCall
	}
	return r.upsertFn(ctx, userID, placeID, rating)
}

type stubVisitRepo struct {
	addFn  func(ctx context.Context, userID, placeID int64) (*domain.Visit, error)
	listFn func(ctx context.Context, userID int64) ([]port.VisitWithPlace, error)
}

func (r *stubVisitRepo) Add(ctx context.Context, userID, placeID int64) (*domain.Visit, error) {
	if r.addFn == nil {
		return nil, errUnexpectedCall
	}
	return r.addFn(ctx, userID, placeID)
}

func (r *stubVisitRepo) ListForUser(ctx context.Context, userID int64) ([]port.VisitWithPlace, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(ctx, userID)
}

type stubAdminLogRepo struct {
	mu      sync.Mutex
	entries []domain.AdminLog
	err     error

	listFn func(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error)
}

func (r *stubAdminLogRepo) Append(_ context.Context, entry domain.AdminLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubAdminLogRepo) List(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error) {
	if r.listFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return r.listFn(ctx, limit, offset)
}

func (r *stubAdminLogRepo) appended() []domain.AdminLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AdminLog, len(r.entries))
	copy(out, r.entries)
	return out
}

type stubAdminStatsRepo struct {
	stats *domain.AdminStats
	err   error
}

func (r *stubAdminStatsRepo) Collect(context.Context) (*domain.AdminStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.stats, nil
}

// stubRateLimitStore keeps attempts in memory per identifier.
type stubRateLimitStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

func newStubRateLimitStore() *stubRateLimitStore {
	return &stubRateLimitStore{attempts: make(map[string][]time.Time)}
}

func (s *stubRateLimitStore) TrimWindow(_ context.Context, identifier string, window time.Duration, reference time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := reference.Add(-window)
	kept := s.attempts[identifier][:0]
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	s.attempts[identifier] = kept
	return nil
}

func (s *stubRateLimitStore) CountAttempts(_ context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := reference.Add(-window)
	count := 0
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (s *stubRateLimitStore) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[identifier] = append(s.attempts[identifier], at)
	return nil
}

func (s *stubRateLimitStore) OldestAttempt(_ context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := reference.Add(-window)
	var oldest time.Time
	found := false
	for _, at := range s.attempts[identifier] {
		if !at.After(cutoff) {
			continue
		}
		if !found || at.Before(oldest) {
			oldest = at
			found = true
		}
	}
	return oldest, found, nil
}

type stubCache struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	sets   int
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]string)}
}

func (c *stubCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return "", c.getErr
	}
	value, ok := c.values[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return value, nil
}

func (c *stubCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	c.sets++
	return nil
}

func (c *stubCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

type stubWeatherProvider struct {
	mu           sync.Mutex
	currentCalls int
	dailyCalls   int

	observation *port.WeatherObservation
	daily       []port.DailyForecast
	err         error
}

func (p *stubWeatherProvider) Current(context.Context, float64, float64) (*port.WeatherObservation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentCalls++
	if p.err != nil {
		return nil, p.err
	}
	return p.observation, nil
}

func (p *stubWeatherProvider) Daily(_ context.Context, _, _ float64, days int) ([]port.DailyForecast, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dailyCalls++
	if p.err != nil {
		return nil, p.err
	}
	if days < len(p.daily) {
		return p.daily[:days], nil
	}
	return p.daily, nil
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }
