package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/firewatch/burn-data-service/internal/domain"
)

func TestBuildFireWhere(t *testing.T) {
	source := "CalFire"
	county := "Kern"
	burnType := "Broadcast"
	owner := "Private"
	minAcres, maxAcres := 10.0, 50.0
	startYear, endYear := 2018, 2020
	startMonth := 3
	minSeverity := 2.0

	t.Run("empty criteria", func(t *testing.T) {
		where, args := buildFireWhere(domain.FilterCriteria{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("single clause", func(t *testing.T) {
		where, args := buildFireWhere(domain.FilterCriteria{Source: &source})
		assert.Equal(t, " WHERE source = $1", where)
		assert.Equal(t, []any{"CalFire"}, args)
	})

	t.Run("all wired clauses with sequential placeholders", func(t *testing.T) {
		where, args := buildFireWhere(domain.FilterCriteria{
			Source:    &source,
			County:    &county,
			BurnType:  &burnType,
			Owner:     &owner,
			MinAcres:  &minAcres,
			MaxAcres:  &maxAcres,
			StartYear: &startYear,
			EndYear:   &endYear,
		})

		assert.Equal(t,
			" WHERE source = $1 AND county = $2 AND burn_type = $3 AND owner = $4"+
				" AND acres >= $5 AND acres < $6 AND year >= $7 AND year >= $8",
			where)
		assert.Equal(t, []any{"CalFire", "Kern", "Broadcast", "Private", 10.0, 50.0, 2018, 2020}, args)
	})

	t.Run("month and severity are not evaluated for fires", func(t *testing.T) {
		where, args := buildFireWhere(domain.FilterCriteria{
			StartMonth:  &startMonth,
			MinSeverity: &minSeverity,
		})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("end year is a lower bound", func(t *testing.T) {
		where, _ := buildFireWhere(domain.FilterCriteria{EndYear: &endYear})
		assert.Equal(t, " WHERE year >= $1", where)
	})
}

func TestBuildEscapeWhere(t *testing.T) {
	counties := "Fresno"
	unitID := "FKU-031"
	treatment := "Pile"
	startMonth, endMonth := 3, 8

	t.Run("escape-only fields", func(t *testing.T) {
		where, args := buildEscapeWhere(domain.FilterCriteria{
			Counties:      &counties,
			CountyUnitID:  &unitID,
			TreatmentType: &treatment,
		})

		assert.Equal(t, " WHERE counties = $1 AND county_unit_id = $2 AND treatment_type = $3", where)
		assert.Equal(t, []any{"Fresno", "FKU-031", "Pile"}, args)
	})

	t.Run("month bounds both compare as lower bounds", func(t *testing.T) {
		where, args := buildEscapeWhere(domain.FilterCriteria{StartMonth: &startMonth, EndMonth: &endMonth})

		assert.Equal(t, " WHERE month >= $1 AND month >= $2", where)
		assert.Equal(t, []any{3, 8}, args)
	})
}
