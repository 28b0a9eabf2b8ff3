package domain

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	label string
	err   error
	calls atomic.Int64
}

func (s *stubResolver) Resolve(_ context.Context, _, _ float64) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return s.label, nil
}

func validFireRecord() RawRecord {
	return RawRecord{
		"name":      "Pozo Grade",
		"acres":     "120.5",
		"latitude":  "35.30",
		"longitude": "-120.37",
		"burn_type": "Broadcast",
		"county":    "San Luis Obispo",
		"source":    "CalFire",
		"date":      "06/14/2019",
		"year":      "2019",
	}
}

func validEscapeRecord() RawRecord {
	return RawRecord{
		"Name":          "Creek Unit 7",
		"GIS_ACRES":     "48.2",
		"lat":           "37.19",
		"lon":           "-119.26",
		"TreatmentType": "Pile",
		"Counties":      "Fresno",
		"CountyUNIT_ID": "FKU-031",
		"Source":        "USFS",
		"Date":          "2020-09-04",
		"Year":          "2020",
	}
}

func TestNormalizeFire(t *testing.T) {
	ctx := context.Background()

	t.Run("valid record", func(t *testing.T) {
		resolver := &stubResolver{label: "Federal"}
		fire, err := NormalizeFire(ctx, validFireRecord(), resolver)

		require.NoError(t, err)
		assert.Equal(t, "Pozo Grade", fire.Name)
		assert.Equal(t, 120.5, fire.Acres)
		assert.Equal(t, 35.30, fire.Latitude)
		assert.Equal(t, -120.37, fire.Longitude)
		assert.Equal(t, "Broadcast", fire.BurnType)
		assert.Equal(t, "San Luis Obispo", fire.County)
		assert.Equal(t, "CalFire", fire.Source)
		assert.Equal(t, 2019, fire.Year)
		assert.Equal(t, "Federal", fire.Owner)
		require.NotNil(t, fire.Month)
		require.NotNil(t, fire.Day)
		assert.Equal(t, 5, *fire.Month) // June, 0-based
		assert.Equal(t, 14, *fire.Day)
		assert.Zero(t, fire.ID)
	})

	t.Run("resolver called exactly once", func(t *testing.T) {
		resolver := &stubResolver{label: "Private"}
		_, err := NormalizeFire(ctx, validFireRecord(), resolver)

		require.NoError(t, err)
		assert.Equal(t, int64(1), resolver.calls.Load())
	})

	t.Run("unparseable date keeps record, drops month and day", func(t *testing.T) {
		raw := validFireRecord()
		raw["date"] = "13/45/2020"
		fire, err := NormalizeFire(ctx, raw, &stubResolver{label: "State"})

		require.NoError(t, err)
		assert.Nil(t, fire.Month)
		assert.Nil(t, fire.Day)
		assert.Equal(t, 2019, fire.Year, "year comes from the year column, not the date")
	})

	t.Run("missing date column is tolerated", func(t *testing.T) {
		raw := validFireRecord()
		delete(raw, "date")
		fire, err := NormalizeFire(ctx, raw, &stubResolver{label: "State"})

		require.NoError(t, err)
		assert.Nil(t, fire.Month)
		assert.Nil(t, fire.Day)
	})

	t.Run("missing required column", func(t *testing.T) {
		for _, column := range []string{"name", "acres", "latitude", "longitude", "burn_type", "county", "source", "year"} {
			raw := validFireRecord()
			delete(raw, column)
			_, err := NormalizeFire(ctx, raw, &stubResolver{label: "x"})

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing, column)
			assert.Equal(t, column, missing.Column)
		}
	})

	t.Run("blank column counts as missing", func(t *testing.T) {
		raw := validFireRecord()
		raw["county"] = "   "
		_, err := NormalizeFire(ctx, raw, &stubResolver{label: "x"})

		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "county", missing.Column)
	})

	t.Run("malformed numeric column", func(t *testing.T) {
		raw := validFireRecord()
		raw["acres"] = "lots"
		_, err := NormalizeFire(ctx, raw, &stubResolver{label: "x"})

		var format *FieldFormatError
		require.ErrorAs(t, err, &format)
		assert.Equal(t, "acres", format.Column)
		assert.Equal(t, "lots", format.Value)
	})

	t.Run("malformed year column", func(t *testing.T) {
		raw := validFireRecord()
		raw["year"] = "19.5"
		_, err := NormalizeFire(ctx, raw, &stubResolver{label: "x"})

		var format *FieldFormatError
		require.ErrorAs(t, err, &format)
		assert.Equal(t, "year", format.Column)
	})

	t.Run("resolver failure excludes the record", func(t *testing.T) {
		boom := errors.New("ownership service unavailable")
		_, err := NormalizeFire(ctx, validFireRecord(), &stubResolver{err: boom})

		var enrich *EnrichmentError
		require.ErrorAs(t, err, &enrich)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 35.30, enrich.Latitude)
	})
}

func TestNormalizeEscape(t *testing.T) {
	ctx := context.Background()

	t.Run("valid record", func(t *testing.T) {
		esc, err := NormalizeEscape(ctx, validEscapeRecord(), &stubResolver{label: "Tribal"})

		require.NoError(t, err)
		assert.Equal(t, "Creek Unit 7", esc.Name)
		assert.Equal(t, 48.2, esc.Acres)
		assert.Equal(t, "Pile", esc.TreatmentType)
		assert.Equal(t, "Fresno", esc.Counties)
		assert.Equal(t, "FKU-031", esc.CountyUnitID)
		assert.Equal(t, "USFS", esc.Source)
		assert.Equal(t, 2020, esc.Year)
		assert.Equal(t, "Tribal", esc.Owner)
		require.NotNil(t, esc.Month)
		require.NotNil(t, esc.Day)
		assert.Equal(t, 8, *esc.Month) // September, 0-based
		assert.Equal(t, 4, *esc.Day)
	})

	t.Run("column names are case sensitive", func(t *testing.T) {
		raw := validEscapeRecord()
		delete(raw, "Name")
		raw["name"] = "lowercase header"
		_, err := NormalizeEscape(ctx, raw, &stubResolver{label: "x"})

		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Name", missing.Column)
	})

	t.Run("fire-format date does not parse", func(t *testing.T) {
		raw := validEscapeRecord()
		raw["Date"] = "09/04/2020"
		esc, err := NormalizeEscape(ctx, raw, &stubResolver{label: "x"})

		require.NoError(t, err)
		assert.Nil(t, esc.Month)
		assert.Nil(t, esc.Day)
	})

	t.Run("missing required column", func(t *testing.T) {
		raw := validEscapeRecord()
		delete(raw, "CountyUNIT_ID")
		_, err := NormalizeEscape(ctx, raw, &stubResolver{label: "x"})

		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "CountyUNIT_ID", missing.Column)
	})
}

func TestSkipReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing field", &MissingFieldError{Column: "acres"}, "missing_field"},
		{"bad format", &FieldFormatError{Column: "year", Value: "x"}, "bad_format"},
		{"enrichment", &EnrichmentError{Err: errors.New("down")}, "enrichment"},
		{"other", errors.New("unclassified"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SkipReason(tt.err))
		})
	}
}
