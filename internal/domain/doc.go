// Package domain models wildfire occurrence data for the burn data service.
//
// # Data Sources
//
// Two related CSV extracts are ingested. The general burns extract uses
// lower-case column names:
//
//	name, acres, latitude, longitude, burn_type, county, source, date, year
//
// with dates in MM/DD/YYYY. The escaped-fires extract uses the GIS export
// column names:
//
//	Name, GIS_ACRES, lat, lon, TreatmentType, Counties, CountyUNIT_ID, Source, Date, Year
//
// with dates in YYYY-MM-DD. Column names are case-sensitive; the two formats
// never share a header row.
//
// # Date Conventions
//
// The year always comes from the extract's explicit year column, never from
// the date text. The date text only contributes month and day; when it fails
// to parse, both stay unset and the record is still ingested. Months are
// stored 0-based (January = 0, December = 11) to match the upstream data
// model, and days are 1-based.
//
// # Ownership
//
// The owner field is never present in the source data. It is derived exactly
// once per record at normalization time by resolving the record's coordinates
// against the land-ownership service, and is never recomputed afterwards.
//
// # Filtering
//
// FilterCriteria fields are independently optional and combine by logical
// AND; there is no OR composition and no negation. Acreage ranges are
// half-open: [minAcres, maxAcres). The year bounds intentionally reproduce
// the reference predicate, which applies both startYear and endYear as lower
// bounds; see FilterCriteria.
package domain
