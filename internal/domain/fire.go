package domain

// Fire is one normalized prescribed-burn record. Instances are built once
// during ingestion and never mutated; ID is zero until the store assigns one.
type Fire struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Acres     float64  `json:"acres"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	BurnType  string   `json:"burnType"`
	County    string   `json:"county"`
	Source    string   `json:"source"`
	Year      int      `json:"year"`
	Month     *int     `json:"month,omitempty"` // 0-based, unset when the date text failed to parse
	Day       *int     `json:"day,omitempty"`
	Owner     string   `json:"owner"`
	Severity  *float64 `json:"severity,omitempty"`
}

// EscapedFire is one normalized escaped-fire record from the GIS extract.
type EscapedFire struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Acres         float64 `json:"acres"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	TreatmentType string  `json:"treatmentType"`
	CountyUnitID  string  `json:"countyUnitID"`
	Counties      string  `json:"counties"`
	Source        string  `json:"source"`
	Year          int     `json:"year"`
	Month         *int    `json:"month,omitempty"`
	Day           *int    `json:"day,omitempty"`
	Owner         string  `json:"owner"`
}

// Statistics summarizes a filtered fire set. Over an empty set every field
// is zero; callers distinguish "no matches" from real zeros via Count.
type Statistics struct {
	Count      int     `json:"count"`
	TotalAcres float64 `json:"totalAcres"`
	MinYear    int     `json:"minYear"`
	MaxYear    int     `json:"maxYear"`
	MinAcres   float64 `json:"minAcres"`
	MaxAcres   float64 `json:"maxAcres"`
}
