// internal/location/models.go

package location

import "time"

// Area is one of a user's declared areas. Travel estimates never touch
// user coordinates; they run between fixed public area centroids, so a
// match cannot be triangulated back to a home address.
type Area struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Neighborhood *string   `json:"neighborhood,omitempty" db:"neighborhood"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Centroid is a fixed public reference point for an area.
type Centroid struct {
	ID           int64    `json:"id" db:"id"`
	AreaKey      string   `json:"area_key" db:"area_key"`
	Neighborhood *string  `json:"neighborhood,omitempty" db:"neighborhood"`
	City         string   `json:"city" db:"city"`
	State        string   `json:"state" db:"state"`
	Lat          *float64 `json:"lat,omitempty" db:"lat"`
	Lng          *float64 `json:"lng,omitempty" db:"lng"`
}

// Bucket groups travel times for filtering and display.
type Bucket string

const (
	BucketUnder15 Bucket = "UNDER_15"
	BucketUnder30 Bucket = "UNDER_30"
	BucketUnder45 Bucket = "UNDER_45"
	BucketUnder60 Bucket = "UNDER_60"
	BucketOver60  Bucket = "OVER_60"
	BucketUnknown Bucket = "UNKNOWN"
)

// TravelTimeInfo is the pipeline's view of the distance between two
// users' areas. Minutes below zero means the estimate is unknown and
// no location filtering applies.
type TravelTimeInfo struct {
	Minutes             int      `json:"minutes"`
	Display             string   `json:"display,omitempty"`
	Bucket              Bucket   `json:"bucket"`
	HasOverlappingAreas bool     `json:"has_overlapping_areas"`
	OverlappingAreas    []string `json:"overlapping_areas,omitempty"`
}

// Preferences are the knobs a user sets on location filtering.
type Preferences struct {
	ID                        int64   `json:"id" db:"id"`
	UserID                    int64   `json:"user_id" db:"user_id"`
	MaxTravelMinutes          int     `json:"max_travel_minutes" db:"max_travel_minutes"`
	RequireAreaOverlap        bool    `json:"require_area_overlap" db:"require_area_overlap"`
	ShowExceptionalMatches    bool    `json:"show_exceptional_matches" db:"show_exceptional_matches"`
	ExceptionalMatchThreshold float64 `json:"exceptional_match_threshold" db:"exceptional_match_threshold"`
}
