package domain

import (
	"context"
	"time"
)

// Column names for the general burns extract.
const (
	colName      = "name"
	colAcres     = "acres"
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colBurnType  = "burn_type"
	colCounty    = "county"
	colSource    = "source"
	colDate      = "date"
	colYear      = "year"
)

// Column names for the escaped-fires GIS extract.
const (
	colEscName          = "Name"
	colEscAcres         = "GIS_ACRES"
	colEscLatitude      = "lat"
	colEscLongitude     = "lon"
	colEscTreatmentType = "TreatmentType"
	colEscCounties      = "Counties"
	colEscCountyUnitID  = "CountyUNIT_ID"
	colEscSource        = "Source"
	colEscDate          = "Date"
	colEscYear          = "Year"
)

const (
	fireDateLayout   = "01/02/2006"
	escapeDateLayout = "2006-01-02"
)

// NormalizeFire converts one raw burns row into a Fire. Every required column
// must be present and well-typed and the ownership resolver must answer;
// otherwise the record fails and is excluded from its batch. A bad date
// column is the one tolerated failure: month and day stay unset.
func NormalizeFire(ctx context.Context, raw RawRecord, resolver OwnershipResolver) (Fire, error) {
	var fire Fire
	var err error

	if fire.Name, err = raw.String(colName); err != nil {
		return Fire{}, err
	}
	if fire.Acres, err = raw.Float(colAcres); err != nil {
		return Fire{}, err
	}
	if fire.Latitude, err = raw.Float(colLatitude); err != nil {
		return Fire{}, err
	}
	if fire.Longitude, err = raw.Float(colLongitude); err != nil {
		return Fire{}, err
	}
	if fire.BurnType, err = raw.String(colBurnType); err != nil {
		return Fire{}, err
	}
	if fire.County, err = raw.String(colCounty); err != nil {
		return Fire{}, err
	}
	if fire.Source, err = raw.String(colSource); err != nil {
		return Fire{}, err
	}
	if fire.Year, err = raw.Int(colYear); err != nil {
		return Fire{}, err
	}

	fire.Month, fire.Day = parseMonthDay(raw[colDate], fireDateLayout)

	owner, err := resolver.Resolve(ctx, fire.Latitude, fire.Longitude)
	if err != nil {
		return Fire{}, &EnrichmentError{Latitude: fire.Latitude, Longitude: fire.Longitude, Err: err}
	}
	fire.Owner = owner

	return fire, nil
}

// NormalizeEscape converts one raw escaped-fires row into an EscapedFire.
// Same failure policy as NormalizeFire, over the GIS column set.
func NormalizeEscape(ctx context.Context, raw RawRecord, resolver OwnershipResolver) (EscapedFire, error) {
	var esc EscapedFire
	var err error

	if esc.Name, err = raw.String(colEscName); err != nil {
		return EscapedFire{}, err
	}
	if esc.Acres, err = raw.Float(colEscAcres); err != nil {
		return EscapedFire{}, err
	}
	if esc.Latitude, err = raw.Float(colEscLatitude); err != nil {
		return EscapedFire{}, err
	}
	if esc.Longitude, err = raw.Float(colEscLongitude); err != nil {
		return EscapedFire{}, err
	}
	if esc.TreatmentType, err = raw.String(colEscTreatmentType); err != nil {
		return EscapedFire{}, err
	}
	if esc.Counties, err = raw.String(colEscCounties); err != nil {
		return EscapedFire{}, err
	}
	if esc.CountyUnitID, err = raw.String(colEscCountyUnitID); err != nil {
		return EscapedFire{}, err
	}
	if esc.Source, err = raw.String(colEscSource); err != nil {
		return EscapedFire{}, err
	}
	if esc.Year, err = raw.Int(colEscYear); err != nil {
		return EscapedFire{}, err
	}

	esc.Month, esc.Day = parseMonthDay(raw[colEscDate], escapeDateLayout)

	owner, err := resolver.Resolve(ctx, esc.Latitude, esc.Longitude)
	if err != nil {
		return EscapedFire{}, &EnrichmentError{Latitude: esc.Latitude, Longitude: esc.Longitude, Err: err}
	}
	esc.Owner = owner

	return esc, nil
}

// parseMonthDay extracts a 0-based month and 1-based day from date text.
// Returns nil pointers on any parse failure; the year column is authoritative
// for the year, so nothing else is taken from the date.
func parseMonthDay(text, layout string) (*int, *int) {
	t, err := time.Parse(layout, text)
	if err != nil {
		return nil, nil
	}
	month := int(t.Month()) - 1
	day := t.Day()
	return &month, &day
}
