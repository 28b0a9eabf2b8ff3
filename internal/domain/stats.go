package domain

// ComputeStatistics reduces a fire set to its count, acreage totals, and
// year/acreage extremes. Over an empty set every field is zero.
func ComputeStatistics(fires []Fire) Statistics {
	if len(fires) == 0 {
		return Statistics{}
	}

	stats := Statistics{
		Count:    len(fires),
		MinYear:  fires[0].Year,
		MaxYear:  fires[0].Year,
		MinAcres: fires[0].Acres,
		MaxAcres: fires[0].Acres,
	}

	for _, f := range fires {
		stats.TotalAcres += f.Acres
		if f.Year < stats.MinYear {
			stats.MinYear = f.Year
		}
		if f.Year > stats.MaxYear {
			stats.MaxYear = f.Year
		}
		if f.Acres < stats.MinAcres {
			stats.MinAcres = f.Acres
		}
		if f.Acres > stats.MaxAcres {
			stats.MaxAcres = f.Acres
		}
	}

	return stats
}
