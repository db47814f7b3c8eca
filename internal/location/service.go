// internal/location/service.go
// Approximate travel times between users' areas. Estimates are
// deliberately fuzzy: centroid-to-centroid haversine distance at an
// urban driving speed with traffic overhead, rounded to 5 minutes.

package location

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrCentroidNotFound    = errors.New("area centroid not found")
	ErrPreferencesNotFound = errors.New("location preferences not found")
)

const (
	earthRadiusMiles  = 3959.0
	avgDrivingMPH     = 25.0
	urbanOverhead     = 1.4
	roundingMinutes   = 5
	minTravelMinutes  = 5
	unknownTravelTime = -1
)

type Service interface {
	TravelTime(ctx context.Context, userA, userB int64) (*TravelTimeInfo, error)
	Preferences(ctx context.Context, userID int64) (*Preferences, error)
	SavePreferences(ctx context.Context, p *Preferences) error
	SetAreas(ctx context.Context, userID int64, areas []*Area) error
	Areas(ctx context.Context, userID int64) ([]*Area, error)
}

type service struct {
	repo                    Repository
	defaultMaxTravelMinutes int
}

func NewService(repo Repository, defaultMaxTravelMinutes int) Service {
	return &service{repo: repo, defaultMaxTravelMinutes: defaultMaxTravelMinutes}
}

// TravelTime returns the minimum centroid-to-centroid estimate across
// both users' area lists, plus any overlapping cities. Minutes is -1
// when either user has no resolvable areas.
func (s *service) TravelTime(ctx context.Context, userA, userB int64) (*TravelTimeInfo, error) {
	minutes, err := s.minTravelMinutes(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.repo.OverlappingCities(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	info := &TravelTimeInfo{
		Minutes:             minutes,
		Bucket:              bucketFor(minutes),
		HasOverlappingAreas: len(overlapping) > 0,
		OverlappingAreas:    overlapping,
	}
	if minutes >= 0 {
		info.Display = fmt.Sprintf("~%d min from your areas", minutes)
	}

	return info, nil
}

func (s *service) minTravelMinutes(ctx context.Context, userA, userB int64) (int, error) {
	areasA, err := s.repo.AreasByUser(ctx, userA)
	if err != nil {
		return 0, err
	}
	areasB, err := s.repo.AreasByUser(ctx, userB)
	if err != nil {
		return 0, err
	}
	if len(areasA) == 0 || len(areasB) == 0 {
		return unknownTravelTime, nil
	}

	best := unknownTravelTime
	for _, areaA := range areasA {
		centroidA, err := s.repo.BestCentroid(ctx, areaA.Neighborhood, areaA.City, areaA.State)
		if err == ErrCentroidNotFound {
			continue
		}
		if err != nil {
			return 0, err
		}

		for _, areaB := range areasB {
			centroidB, err := s.repo.BestCentroid(ctx, areaB.Neighborhood, areaB.City, areaB.State)
			if err == ErrCentroidNotFound {
				continue
			}
			if err != nil {
				return 0, err
			}

			minutes := minutesBetween(centroidA, centroidB)
			if minutes < 0 {
				continue
			}
			if best < 0 || minutes < best {
				best = minutes
			}
		}
	}

	return best, nil
}

func (s *service) Preferences(ctx context.Context, userID int64) (*Preferences, error) {
	prefs, err := s.repo.PreferencesByUser(ctx, userID)
	if err == ErrPreferencesNotFound {
		return &Preferences{
			UserID:                    userID,
			MaxTravelMinutes:          s.defaultMaxTravelMinutes,
			ShowExceptionalMatches:    true,
			ExceptionalMatchThreshold: 0.90,
		}, nil
	}
	return prefs, err
}

func (s *service) SavePreferences(ctx context.Context, p *Preferences) error {
	return s.repo.SavePreferences(ctx, p)
}

func (s *service) SetAreas(ctx context.Context, userID int64, areas []*Area) error {
	return s.repo.ReplaceAreas(ctx, userID, areas)
}

func (s *service) Areas(ctx context.Context, userID int64) ([]*Area, error) {
	return s.repo.AreasByUser(ctx, userID)
}

// minutesBetween estimates driving minutes between two centroids,
// rounded to the nearest 5 with a 5-minute floor.
func minutesBetween(a, b *Centroid) int {
	if a.Lat == nil || a.Lng == nil || b.Lat == nil || b.Lng == nil {
		return unknownTravelTime
	}

	miles := haversineMiles(*a.Lat, *a.Lng, *b.Lat, *b.Lng)
	raw := miles / avgDrivingMPH * 60 * urbanOverhead

	rounded := int(math.Round(raw/roundingMinutes)) * roundingMinutes
	if rounded < minTravelMinutes {
		return minTravelMinutes
	}
	return rounded
}

func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)
	rLat1 := toRadians(lat1)
	rLat2 := toRadians(lat2)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Pow(math.Sin(dLng/2), 2)*math.Cos(rLat1)*math.Cos(rLat2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func bucketFor(minutes int) Bucket {
	switch {
	case minutes < 0:
		return BucketUnknown
	case minutes <= 15:
		return BucketUnder15
	case minutes <= 30:
		return BucketUnder30
	case minutes <= 45:
		return BucketUnder45
	case minutes <= 60:
		return BucketUnder60
	default:
		return BucketOver60
	}
}
