package domain

// FilterCriteria is a set of independently optional constraints combined by
// logical AND. Nil fields impose no constraint. Acreage bounds form a
// half-open interval [MinAcres, MaxAcres).
//
// Two quirks are carried over verbatim from the reference predicate rather
// than silently corrected:
//
//   - StartYear and EndYear are BOTH applied as lower bounds (year >= bound).
//   - StartMonth, EndMonth, MinSeverity, and MaxSeverity are accepted on the
//     fire query surface but never evaluated against fires. Month bounds are
//     evaluated against escaped fires only, again both as lower bounds; an
//     escaped fire without a month is excluded when a month bound is set.
type FilterCriteria struct {
	Source        *string
	County        *string
	Counties      *string
	CountyUnitID  *string
	BurnType      *string
	TreatmentType *string
	Owner         *string

	MinAcres *float64
	MaxAcres *float64

	StartYear *int
	EndYear   *int

	StartMonth *int
	EndMonth   *int

	MinSeverity *float64
	MaxSeverity *float64
}

// MatchesFire reports whether a fire satisfies every present constraint.
// An empty criteria matches every fire.
func (c FilterCriteria) MatchesFire(f Fire) bool {
	if c.Source != nil && f.Source != *c.Source {
		return false
	}
	if c.County != nil && f.County != *c.County {
		return false
	}
	if c.BurnType != nil && f.BurnType != *c.BurnType {
		return false
	}
	if c.Owner != nil && f.Owner != *c.Owner {
		return false
	}
	if !c.matchesAcres(f.Acres) {
		return false
	}
	return c.matchesYear(f.Year)
}

// MatchesEscape reports whether an escaped fire satisfies every present
// constraint, including the month bounds the fire predicate ignores.
func (c FilterCriteria) MatchesEscape(e EscapedFire) bool {
	if c.Source != nil && e.Source != *c.Source {
		return false
	}
	if c.Counties != nil && e.Counties != *c.Counties {
		return false
	}
	if c.CountyUnitID != nil && e.CountyUnitID != *c.CountyUnitID {
		return false
	}
	if c.TreatmentType != nil && e.TreatmentType != *c.TreatmentType {
		return false
	}
	if c.Owner != nil && e.Owner != *c.Owner {
		return false
	}
	if !c.matchesAcres(e.Acres) {
		return false
	}
	if !c.matchesYear(e.Year) {
		return false
	}
	if c.StartMonth != nil && (e.Month == nil || *e.Month < *c.StartMonth) {
		return false
	}
	if c.EndMonth != nil && (e.Month == nil || *e.Month < *c.EndMonth) {
		return false
	}
	return true
}

func (c FilterCriteria) matchesAcres(acres float64) bool {
	if c.MinAcres != nil && acres < *c.MinAcres {
		return false
	}
	if c.MaxAcres != nil && acres >= *c.MaxAcres {
		return false
	}
	return true
}

// matchesYear applies both bounds as year >= bound, matching the reference
// predicate.
func (c FilterCriteria) matchesYear(year int) bool {
	if c.StartYear != nil && year < *c.StartYear {
		return false
	}
	if c.EndYear != nil && year < *c.EndYear {
		return false
	}
	return true
}
