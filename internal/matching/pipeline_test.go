package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aura-collective/aura-backend/internal/assessment"
	"github.com/aura-collective/aura-backend/internal/config"
	"github.com/aura-collective/aura-backend/internal/location"
	"github.com/aura-collective/aura-backend/internal/political"
)

type fakeRepository struct {
	scores map[string]*PairScore
	ranked []*PairScore
	quota  *DailyQuota
	users  map[int64]*UserSnapshot

	saved      []*PairScore
	recorded   [][]int64
	quotaCalls int
	recordErr  error
}

func newFakeRepo() *fakeRepository {
	return &fakeRepository{
		scores: make(map[string]*PairScore),
		users:  make(map[int64]*UserSnapshot),
	}
}

func pairKey(a, b int64) string { return fmt.Sprintf("%d:%d", a, b) }

func (f *fakeRepository) PairScore(_ context.Context, a, b int64) (*PairScore, error) {
	if s, ok := f.scores[pairKey(a, b)]; ok {
		return s, nil
	}
	return nil, ErrScoreNotFound
}

func (f *fakeRepository) SavePairScore(_ context.Context, s *PairScore) (*PairScore, error) {
	if existing, ok := f.scores[pairKey(s.UserAID, s.UserBID)]; ok {
		return existing, nil
	}
	s.ID = int64(len(f.saved) + 1)
	s.CalculatedAt = time.Now()
	f.scores[pairKey(s.UserAID, s.UserBID)] = s
	f.saved = append(f.saved, s)
	return s, nil
}

func (f *fakeRepository) RankedPairScores(_ context.Context, _ int64, minScore float64, _ int) ([]*PairScore, error) {
	var out []*PairScore
	for _, s := range f.ranked {
		if s.OverallScore >= minScore {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepository) DeletePairScore(_ context.Context, a, b int64) error {
	delete(f.scores, pairKey(a, b))
	return nil
}

func (f *fakeRepository) DeletePairScoresForUser(_ context.Context, userID int64) ([]PairRef, error) {
	var deleted []PairRef
	for key, s := range f.scores {
		if s.UserAID == userID || s.UserBID == userID {
			delete(f.scores, key)
			deleted = append(deleted, PairRef{UserAID: s.UserAID, UserBID: s.UserBID})
		}
	}
	return deleted, nil
}

func (f *fakeRepository) QuotaForDay(_ context.Context, userID int64, day time.Time, limit int) (*DailyQuota, error) {
	f.quotaCalls++
	if f.quota == nil {
		f.quota = &DailyQuota{ID: 1, UserID: userID, MatchDate: day, MatchLimit: limit}
	}
	return f.quota, nil
}

func (f *fakeRepository) RecordShown(_ context.Context, _ int64, shownIDs []int64) error {
	if len(shownIDs) == 0 {
		return nil
	}
	if f.recordErr != nil {
		return f.recordErr
	}
	if f.quota.MatchesShown+len(shownIDs) > f.quota.MatchLimit {
		return ErrQuotaExceeded
	}
	f.quota.MatchesShown += len(shownIDs)
	f.recorded = append(f.recorded, shownIDs)
	return nil
}

func (f *fakeRepository) UserSnapshot(_ context.Context, userID int64) (*UserSnapshot, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepository) UserByUUID(_ context.Context, userUUID string) (*UserSnapshot, error) {
	for _, u := range f.users {
		if u.UUID == userUUID {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

type fakeAI struct {
	score      *PairScore
	candidates []*CandidateScore
	err        error

	calcCalls int
}

func (f *fakeAI) CalculateScore(_ context.Context, _, _ *ProfilePayload) (*PairScore, error) {
	f.calcCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.score, nil
}

func (f *fakeAI) DailyCandidates(_ context.Context, _ int64, _ int) ([]*CandidateScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

type fakeProfiles struct {
	profiles    map[int64]*assessment.Profile
	explanation *assessment.MatchExplanation
}

func (f *fakeProfiles) Profile(_ context.Context, userID int64) (*assessment.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, assessment.ErrProfileNotFound
}

func (f *fakeProfiles) MatchExplanation(_ context.Context, _, _ int64) (*assessment.MatchExplanation, error) {
	if f.explanation == nil {
		return nil, errors.New("no match data")
	}
	return f.explanation, nil
}

// fakeCache records cache traffic so tests can assert invalidation.
type fakeCache struct {
	entries map[string]*PairScore
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*PairScore)}
}

func (c *fakeCache) Get(_ context.Context, a, b int64) *PairScore {
	return c.entries[pairKey(a, b)]
}

func (c *fakeCache) Set(_ context.Context, s *PairScore) {
	c.entries[pairKey(s.UserAID, s.UserBID)] = s
}

func (c *fakeCache) Delete(_ context.Context, a, b int64) {
	delete(c.entries, pairKey(a, b))
	c.deletes = append(c.deletes, pairKey(a, b))
}

type fakeIntake struct{ complete bool }

func (f *fakeIntake) IsIntakeComplete(_ context.Context, _ int64) (bool, error) {
	return f.complete, nil
}

type fakeValues struct {
	allowed bool
	message string
	econ    float64
	snaps   map[int64]*political.Snapshot
}

func (f *fakeValues) CanAccessMatching(_ context.Context, _ int64) (bool, error) {
	return f.allowed, nil
}

func (f *fakeValues) GateStatusMessage(_ context.Context, _ int64) (string, error) {
	return f.message, nil
}

func (f *fakeValues) EconomicCompatibility(_ context.Context, _, _ int64) (float64, error) {
	return f.econ, nil
}

func (f *fakeValues) Snapshot(_ context.Context, userID int64) (*political.Snapshot, error) {
	if s, ok := f.snaps[userID]; ok {
		return s, nil
	}
	return &political.Snapshot{OrientationOrdinal: -1}, nil
}

type fakeTravel struct {
	prefs *location.Preferences
	times map[int64]*location.TravelTimeInfo
}

func (f *fakeTravel) TravelTime(_ context.Context, _, userB int64) (*location.TravelTimeInfo, error) {
	if t, ok := f.times[userB]; ok {
		return t, nil
	}
	return &location.TravelTimeInfo{Minutes: -1, Bucket: location.BucketUnknown}, nil
}

func (f *fakeTravel) Preferences(_ context.Context, userID int64) (*location.Preferences, error) {
	if f.prefs != nil {
		return f.prefs, nil
	}
	return &location.Preferences{
		UserID:                    userID,
		MaxTravelMinutes:          60,
		ShowExceptionalMatches:    true,
		ExceptionalMatchThreshold: 0.90,
	}, nil
}

var fixedNow = time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)

func newTestService(repo *fakeRepository, ai AIClient, values *fakeValues, intakeDone bool, travel *fakeTravel) *service {
	cfg := &config.Config{
		DailyMatchLimit:             5,
		MinimumCompatibility:        50,
		ExceptionalMatchThreshold:   0.90,
		PoliticalAssessmentRequired: true,
	}
	if travel == nil {
		travel = &fakeTravel{}
	}
	return &service{
		repo:     repo,
		cache:    newScoreCache(nil, 0),
		ai:       ai,
		profiles: &fakeProfiles{profiles: make(map[int64]*assessment.Profile)},
		intake:   &fakeIntake{complete: intakeDone},
		values:   values,
		travel:   travel,
		cfg:      cfg,
		now:      func() time.Time { return fixedNow },
	}
}

func TestDailyMatchesIntakeGate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, &fakeValues{allowed: true}, false, nil)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if !resp.Gated {
		t.Fatalf("expected gated response")
	}
	if resp.GateMessage == "" {
		t.Fatalf("gated response missing message")
	}
	if repo.quotaCalls != 0 {
		t.Fatalf("quota touched for a gated user")
	}
}

func TestDailyMatchesValuesGate(t *testing.T) {
	repo := newFakeRepo()
	values := &fakeValues{allowed: false, message: "Complete your values assessment to continue."}
	svc := newTestService(repo, nil, values, true, nil)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if !resp.Gated {
		t.Fatalf("expected gated response")
	}
	if resp.GateMessage != values.message {
		t.Fatalf("gate message = %q, want %q", resp.GateMessage, values.message)
	}
	if repo.quotaCalls != 0 {
		t.Fatalf("quota touched for a gated user")
	}
}

func TestDailyMatchesQuotaExhausted(t *testing.T) {
	repo := newFakeRepo()
	repo.quota = &DailyQuota{ID: 1, UserID: 1, MatchesShown: 5, MatchLimit: 5}
	svc := newTestService(repo, nil, &fakeValues{allowed: true}, true, nil)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if !resp.DailyLimitReached {
		t.Fatalf("expected daily limit reached")
	}
	if resp.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", resp.Remaining)
	}

	wantReset := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	if resp.ResetsAt == nil || !resp.ResetsAt.Equal(wantReset) {
		t.Fatalf("resetsAt = %v, want %v", resp.ResetsAt, wantReset)
	}
}

func TestDailyMatchesLocalFallbackRanking(t *testing.T) {
	repo := newFakeRepo()
	repo.ranked = []*PairScore{
		{UserAID: 1, UserBID: 2, OverallScore: 88, EnemyScore: 5},
		{UserAID: 1, UserBID: 3, OverallScore: 72, EnemyScore: 10},
		{UserAID: 1, UserBID: 4, OverallScore: 40, EnemyScore: 20}, // below minimum
	}
	repo.users[2] = &UserSnapshot{ID: 2, UUID: "uuid-2"}
	repo.users[3] = &UserSnapshot{ID: 3, UUID: "uuid-3"}

	ai := &fakeAI{err: errors.New("scorer down")}
	svc := newTestService(repo, ai, &fakeValues{allowed: true}, true, nil)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if len(resp.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(resp.Matches))
	}
	if resp.Matches[0].UserID != 2 || resp.Matches[1].UserID != 3 {
		t.Fatalf("unexpected ranking order: %+v", resp.Matches)
	}
	if resp.Matches[0].UserUUID != "uuid-2" {
		t.Fatalf("account details not attached: %+v", resp.Matches[0])
	}
	if resp.Remaining != 3 {
		t.Fatalf("remaining = %d, want 3", resp.Remaining)
	}
	if len(repo.recorded) != 1 || len(repo.recorded[0]) != 2 {
		t.Fatalf("shown users not recorded: %+v", repo.recorded)
	}
}

func TestDailyMatchesSkipsAlreadyShown(t *testing.T) {
	repo := newFakeRepo()
	shown := `[2]`
	repo.quota = &DailyQuota{ID: 1, UserID: 1, MatchesShown: 1, MatchLimit: 5, ShownUserIDs: &shown}
	repo.ranked = []*PairScore{
		{UserAID: 1, UserBID: 2, OverallScore: 90},
		{UserAID: 1, UserBID: 3, OverallScore: 70},
	}

	ai := &fakeAI{err: errors.New("scorer down")}
	svc := newTestService(repo, ai, &fakeValues{allowed: true}, true, nil)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if len(resp.Matches) != 1 || resp.Matches[0].UserID != 3 {
		t.Fatalf("already shown user repeated: %+v", resp.Matches)
	}
}

func TestDailyMatchesLocationFilter(t *testing.T) {
	repo := newFakeRepo()
	repo.ranked = []*PairScore{
		{UserAID: 1, UserBID: 2, OverallScore: 75},
		{UserAID: 1, UserBID: 3, OverallScore: 70},
	}
	travel := &fakeTravel{
		prefs: &location.Preferences{MaxTravelMinutes: 30, ShowExceptionalMatches: true, ExceptionalMatchThreshold: 0.90},
		times: map[int64]*location.TravelTimeInfo{
			2: {Minutes: 45, Bucket: location.BucketUnder45},
			3: {Minutes: 15, Bucket: location.BucketUnder15},
		},
	}

	ai := &fakeAI{err: errors.New("scorer down")}
	svc := newTestService(repo, ai, &fakeValues{allowed: true}, true, travel)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if len(resp.Matches) != 1 || resp.Matches[0].UserID != 3 {
		t.Fatalf("too-far candidate not filtered: %+v", resp.Matches)
	}
}

func TestDailyMatchesExceptionalScoreBypassesDistance(t *testing.T) {
	repo := newFakeRepo()
	repo.ranked = []*PairScore{
		{UserAID: 1, UserBID: 2, OverallScore: 95},
	}
	travel := &fakeTravel{
		prefs: &location.Preferences{MaxTravelMinutes: 30, ShowExceptionalMatches: true, ExceptionalMatchThreshold: 0.90},
		times: map[int64]*location.TravelTimeInfo{
			2: {Minutes: 90, Bucket: location.BucketOver60},
		},
	}

	ai := &fakeAI{err: errors.New("scorer down")}
	svc := newTestService(repo, ai, &fakeValues{allowed: true}, true, travel)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if len(resp.Matches) != 1 {
		t.Fatalf("exceptional match filtered out: %+v", resp.Matches)
	}
}

func TestDailyMatchesUsesAICandidates(t *testing.T) {
	repo := newFakeRepo()
	reason := "shared love of hiking"
	ai := &fakeAI{candidates: []*CandidateScore{
		{UserID: 2, UserUUID: "uuid-2", CompatibilityScore: 91, Reason: &reason},
		{UserID: 1, UserUUID: "uuid-1", CompatibilityScore: 99}, // requester, skipped
	}}
	svc := newTestService(repo, ai, &fakeValues{allowed: true}, true, nil)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if len(resp.Matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(resp.Matches))
	}
	if resp.Matches[0].UserID != 2 || resp.Matches[0].Reason == nil {
		t.Fatalf("candidate details lost: %+v", resp.Matches[0])
	}
}

func TestCompatibilityStoresAndReusesScore(t *testing.T) {
	repo := newFakeRepo()
	ai := &fakeAI{err: errors.New("scorer down")}
	svc := newTestService(repo, ai, &fakeValues{allowed: true, econ: 50}, true, nil)

	first, err := svc.Compatibility(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Compatibility: %v", err)
	}
	if first.UserAID != 1 || first.UserBID != 2 {
		t.Fatalf("pair ids not set: %+v", first)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(repo.saved))
	}

	second, err := svc.Compatibility(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Compatibility: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("score recomputed instead of reused")
	}
	if second.OverallScore != first.OverallScore {
		t.Fatalf("stored score changed between reads")
	}
}

func TestCompatibilityPrefersAIScore(t *testing.T) {
	repo := newFakeRepo()
	ai := &fakeAI{score: &PairScore{OverallScore: 77, PersonalityScore: 80}}
	svc := newTestService(repo, ai, &fakeValues{allowed: true}, true, nil)

	score, err := svc.Compatibility(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Compatibility: %v", err)
	}
	if score.OverallScore != 77 {
		t.Fatalf("overall = %v, want AI-provided 77", score.OverallScore)
	}
	if ai.calcCalls != 1 {
		t.Fatalf("AI calls = %d, want 1", ai.calcCalls)
	}
}

func TestCompatibilityRejectsSelfMatch(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, &fakeValues{allowed: true}, true, nil)

	if _, err := svc.Compatibility(context.Background(), 7, 7); err != ErrSelfMatch {
		t.Fatalf("err = %v, want ErrSelfMatch", err)
	}
}

func TestDailyMatchesQuotaRaceReportsLimitReached(t *testing.T) {
	repo := newFakeRepo()
	repo.ranked = []*PairScore{
		{UserAID: 1, UserBID: 2, OverallScore: 80},
	}
	repo.recordErr = ErrQuotaExceeded

	ai := &fakeAI{err: errors.New("scorer down")}
	svc := newTestService(repo, ai, &fakeValues{allowed: true}, true, nil)

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if !resp.DailyLimitReached {
		t.Fatalf("expected daily limit reached when recording loses the race")
	}
	if resp.Remaining != 0 || len(resp.Matches) != 0 {
		t.Fatalf("matches leaked past an exhausted quota: %+v", resp)
	}

	wantReset := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	if resp.ResetsAt == nil || !resp.ResetsAt.Equal(wantReset) {
		t.Fatalf("resetsAt = %v, want %v", resp.ResetsAt, wantReset)
	}
}

func TestDailyMatchesAttachesCategoryBreakdown(t *testing.T) {
	repo := newFakeRepo()
	repo.ranked = []*PairScore{
		{UserAID: 1, UserBID: 2, OverallScore: 88},
	}
	repo.users[2] = &UserSnapshot{ID: 2, UUID: "uuid-2"}

	ai := &fakeAI{err: errors.New("scorer down")}
	svc := newTestService(repo, ai, &fakeValues{allowed: true}, true, nil)
	svc.profiles = &fakeProfiles{explanation: &assessment.MatchExplanation{
		Match: &assessment.MatchResult{MatchPercentage: 82.5, HasEnoughData: true},
		CategoryBreakdown: map[string]float64{
			"Core Values":      92,
			"Personality":      78,
			"Lifestyle":        45,
			"Attachment Style": 30,
		},
	}}

	resp, err := svc.DailyMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("DailyMatches: %v", err)
	}
	if len(resp.Matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(resp.Matches))
	}

	rec := resp.Matches[0]
	if rec.MatchPercentage == nil || *rec.MatchPercentage != 82.5 {
		t.Fatalf("match percentage = %v, want 82.5", rec.MatchPercentage)
	}
	if len(rec.CategoryBreakdown) != 4 {
		t.Fatalf("breakdown not attached: %+v", rec.CategoryBreakdown)
	}
	if len(rec.TopCompatibilityAreas) != 2 ||
		rec.TopCompatibilityAreas[0] != "Core Values" || rec.TopCompatibilityAreas[1] != "Personality" {
		t.Fatalf("top areas = %v", rec.TopCompatibilityAreas)
	}
	if len(rec.AreasToDiscuss) != 2 ||
		rec.AreasToDiscuss[0] != "Attachment Style" || rec.AreasToDiscuss[1] != "Lifestyle" {
		t.Fatalf("areas to discuss = %v", rec.AreasToDiscuss)
	}
	if rec.MatchInsight == "" {
		t.Fatalf("match insight missing")
	}
}

func TestInvalidateUserPurgesCachedScores(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	values := &fakeValues{allowed: true, econ: 85}
	svc := newTestService(repo, nil, values, true, nil)
	svc.cache = cache

	first, err := svc.Compatibility(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Compatibility: %v", err)
	}
	if cache.Get(context.Background(), 1, 2) == nil {
		t.Fatalf("score not cached after first computation")
	}

	if _, err := svc.InvalidateUser(context.Background(), 1); err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}
	if cache.Get(context.Background(), 1, 2) != nil {
		t.Fatalf("cache still serving an invalidated score")
	}

	// Profile data changed between computations; the next read must
	// reflect it rather than the old cached result.
	values.econ = 15
	second, err := svc.Compatibility(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Compatibility: %v", err)
	}
	if len(repo.saved) != 2 {
		t.Fatalf("score not recomputed after invalidation: saved = %d", len(repo.saved))
	}
	if second.OverallScore == first.OverallScore {
		t.Fatalf("still serving overall=%v computed before invalidation", first.OverallScore)
	}
}

func TestInvalidateUserDropsBothDirections(t *testing.T) {
	repo := newFakeRepo()
	repo.scores[pairKey(1, 2)] = &PairScore{UserAID: 1, UserBID: 2}
	repo.scores[pairKey(3, 1)] = &PairScore{UserAID: 3, UserBID: 1}
	repo.scores[pairKey(2, 3)] = &PairScore{UserAID: 2, UserBID: 3}
	svc := newTestService(repo, nil, &fakeValues{allowed: true}, true, nil)

	deleted, err := svc.InvalidateUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	if _, ok := repo.scores[pairKey(2, 3)]; !ok {
		t.Fatalf("unrelated pair removed")
	}
}
