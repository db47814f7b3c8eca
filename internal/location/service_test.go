package location

import (
	"context"
	"fmt"
	"testing"
)

type fakeRepository struct {
	areas     map[int64][]*Area
	centroids map[string]*Centroid
	prefs     map[int64]*Preferences
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		areas:     make(map[int64][]*Area),
		centroids: make(map[string]*Centroid),
		prefs:     make(map[int64]*Preferences),
	}
}

func centroidKey(neighborhood *string, city, state string) string {
	n := ""
	if neighborhood != nil {
		n = *neighborhood
	}
	return fmt.Sprintf("%s|%s|%s", n, city, state)
}

func (f *fakeRepository) AreasByUser(_ context.Context, userID int64) ([]*Area, error) {
	return f.areas[userID], nil
}

func (f *fakeRepository) ReplaceAreas(_ context.Context, userID int64, areas []*Area) error {
	f.areas[userID] = areas
	return nil
}

func (f *fakeRepository) OverlappingCities(_ context.Context, userA, userB int64) ([]string, error) {
	var overlap []string
	for _, a := range f.areas[userA] {
		for _, b := range f.areas[userB] {
			if a.City == b.City && a.State == b.State {
				overlap = append(overlap, a.City)
			}
		}
	}
	return overlap, nil
}

func (f *fakeRepository) BestCentroid(_ context.Context, neighborhood *string, city, state string) (*Centroid, error) {
	if c, ok := f.centroids[centroidKey(neighborhood, city, state)]; ok {
		return c, nil
	}
	if c, ok := f.centroids[centroidKey(nil, city, state)]; ok {
		return c, nil
	}
	return nil, ErrCentroidNotFound
}

func (f *fakeRepository) PreferencesByUser(_ context.Context, userID int64) (*Preferences, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	return p, nil
}

func (f *fakeRepository) SavePreferences(_ context.Context, p *Preferences) error {
	f.prefs[p.UserID] = p
	return nil
}

func fptr(v float64) *float64 { return &v }

func addCityArea(repo *fakeRepository, userID int64, city string, lat, lng float64) {
	repo.areas[userID] = append(repo.areas[userID], &Area{UserID: userID, City: city, State: "CA"})
	repo.centroids[centroidKey(nil, city, "CA")] = &Centroid{
		AreaKey: city, City: city, State: "CA", Lat: fptr(lat), Lng: fptr(lng),
	}
}

func TestTravelTimeUnknownWithoutAreas(t *testing.T) {
	svc := NewService(newFakeRepository(), 60)

	info, err := svc.TravelTime(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("TravelTime: %v", err)
	}
	if info.Minutes != -1 {
		t.Fatalf("minutes = %d, want -1", info.Minutes)
	}
	if info.Bucket != BucketUnknown {
		t.Fatalf("bucket = %s, want UNKNOWN", info.Bucket)
	}
	if info.Display != "" {
		t.Fatalf("display = %q, want empty", info.Display)
	}
}

func TestTravelTimeSameCentroidIsFloored(t *testing.T) {
	repo := newFakeRepository()
	addCityArea(repo, 1, "Oakland", 37.8044, -122.2712)
	repo.areas[2] = append(repo.areas[2], &Area{UserID: 2, City: "Oakland", State: "CA"})
	svc := NewService(repo, 60)

	info, err := svc.TravelTime(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("TravelTime: %v", err)
	}
	if info.Minutes != 5 {
		t.Fatalf("minutes = %d, want floor of 5", info.Minutes)
	}
	if !info.HasOverlappingAreas {
		t.Fatalf("overlapping city not detected")
	}
}

func TestTravelTimeUsesClosestAreaPair(t *testing.T) {
	repo := newFakeRepository()
	// User 1 lists a nearby and a distant area; the estimate should
	// come from the closer pairing.
	addCityArea(repo, 1, "Oakland", 37.8044, -122.2712)
	addCityArea(repo, 1, "Sacramento", 38.5816, -121.4944)
	addCityArea(repo, 2, "Berkeley", 37.8715, -122.2730)
	svc := NewService(repo, 60)

	info, err := svc.TravelTime(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("TravelTime: %v", err)
	}

	// Oakland to Berkeley is about 4.6 miles: 4.6/25*60*1.4 = 15.5,
	// rounding to 15. Sacramento would be hours.
	if info.Minutes != 15 {
		t.Fatalf("minutes = %d, want 15", info.Minutes)
	}
	if info.Bucket != BucketUnder15 {
		t.Fatalf("bucket = %s, want UNDER_15", info.Bucket)
	}
	if info.Display == "" {
		t.Fatalf("display missing for known travel time")
	}
}

func TestTravelTimeRoundsToFiveMinutes(t *testing.T) {
	repo := newFakeRepository()
	addCityArea(repo, 1, "Oakland", 37.8044, -122.2712)
	addCityArea(repo, 2, "San Jose", 37.3382, -121.8863)
	svc := NewService(repo, 60)

	info, err := svc.TravelTime(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("TravelTime: %v", err)
	}
	if info.Minutes%5 != 0 {
		t.Fatalf("minutes = %d, not rounded to 5", info.Minutes)
	}
	if info.Minutes <= 60 {
		t.Fatalf("minutes = %d, expected over an hour for Oakland to San Jose", info.Minutes)
	}
	if info.Bucket != BucketOver60 {
		t.Fatalf("bucket = %s, want OVER_60", info.Bucket)
	}
}

func TestDefaultPreferences(t *testing.T) {
	svc := NewService(newFakeRepository(), 45)

	prefs, err := svc.Preferences(context.Background(), 7)
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if prefs.MaxTravelMinutes != 45 {
		t.Fatalf("max travel = %d, want configured default 45", prefs.MaxTravelMinutes)
	}
	if !prefs.ShowExceptionalMatches || prefs.ExceptionalMatchThreshold != 0.90 {
		t.Fatalf("unexpected defaults: %+v", prefs)
	}
}
