// Package lexicon holds the static rule tables the intent extractor matches
// against: named ocean regions, measurement keywords, statistical keywords,
// month names and stop words. A Lexicon is built once at process start and
// injected into the extractor; it is read-only afterwards and safe for
// concurrent use without locking.
package lexicon

import (
	"github.com/oceanlab/argoscout/internal/core/domain"
)

// Region pairs a lookup phrase with its canonical bounds. Regions are kept in
// a slice, not a map, so iteration order is fixed.
type Region struct {
	// Phrase is the lowercase substring matched against queries.
	Phrase string
	Bounds domain.GeographicBounds
}

// CategoryInfo carries the trigger keywords and storage mapping for one
// measurement category.
type CategoryInfo struct {
	Category domain.MeasurementCategory
	// Keywords are matched case-insensitively with word-boundary semantics.
	Keywords []string
	// CanonicalKey is the ocean_data payload key holding this category's
	// samples. Depth reads the pressure key: Argo floats measure depth as
	// hydrostatic pressure.
	CanonicalKey string
	Unit         string
}

// Lexicon is the complete, immutable rule table set.
type Lexicon struct {
	Regions     []Region
	Categories  []CategoryInfo
	Statistical []string
	Months      map[string]int
	StopWords   map[string]struct{}
}

// New returns the default lexicon.
func New() *Lexicon {
	return &Lexicon{
		Regions:     defaultRegions(),
		Categories:  defaultCategories(),
		Statistical: defaultStatistical(),
		Months:      defaultMonths(),
		StopWords:   defaultStopWords(),
	}
}

// CategoryFor returns the table entry for a category, or nil if unknown.
func (l *Lexicon) CategoryFor(c domain.MeasurementCategory) *CategoryInfo {
	for i := range l.Categories {
		if l.Categories[i].Category == c {
			return &l.Categories[i]
		}
	}
	return nil
}

func defaultRegions() []Region {
	mk := func(phrase, name string, minLat, maxLat, minLon, maxLon float64) Region {
		return Region{
			Phrase: phrase,
			Bounds: domain.GeographicBounds{
				Name: name,
				Bounds: domain.Bounds{
					MinLat: minLat, MaxLat: maxLat,
					MinLon: minLon, MaxLon: maxLon,
				},
			},
		}
	}
	return []Region{
		mk("indian ocean", "Indian Ocean", -60, 30, 20, 140),
		// Pacific crosses the antimeridian: min_lon > max_lon on purpose.
		mk("pacific ocean", "Pacific Ocean", -60, 60, 120, -70),
		mk("atlantic ocean", "Atlantic Ocean", -60, 80, -80, 20),
		mk("southern ocean", "Southern Ocean", -90, -60, -180, 180),
		mk("arctic ocean", "Arctic Ocean", 60, 90, -180, 180),
		mk("mediterranean sea", "Mediterranean Sea", 30, 46, -6, 36),
		mk("red sea", "Red Sea", 12, 30, 32, 43),
		mk("persian gulf", "Persian Gulf", 24, 30, 48, 57),
		mk("north sea", "North Sea", 51, 62, -4, 9),
		mk("baltic sea", "Baltic Sea", 54, 66, 10, 30),
	}
}

func defaultCategories() []CategoryInfo {
	return []CategoryInfo{
		{
			Category:     domain.MeasurementTemperature,
			Keywords:     []string{"temperature", "temp", "thermal", "heat", "warm", "cold", "celsius", "°c", "degrees"},
			CanonicalKey: "temp",
			Unit:         "°C",
		},
		{
			Category:     domain.MeasurementSalinity,
			Keywords:     []string{"salinity", "salt", "saline", "psu", "practical salinity", "salt content"},
			CanonicalKey: "psal",
			Unit:         "PSU",
		},
		{
			Category:     domain.MeasurementPressure,
			Keywords:     []string{"pressure", "depth pressure", "hydrostatic", "dbar", "decibar", "bar"},
			CanonicalKey: "pres",
			Unit:         "dbar",
		},
		{
			Category:     domain.MeasurementDepth,
			Keywords:     []string{"depth", "deep", "shallow", "meters", "metres", "depth level", "bathymetry"},
			CanonicalKey: "pres",
			Unit:         "dbar (~10m depth per dbar)",
		},
		{
			Category:     domain.MeasurementDensity,
			Keywords:     []string{"density", "water density", "sigma", "potential density"},
			CanonicalKey: "sigma",
			Unit:         "kg/m³",
		},
	}
}

func defaultStatistical() []string {
	return []string{
		"average", "mean", "median", "maximum", "minimum", "max", "min",
		"highest", "lowest", "range", "variance", "standard deviation",
		"distribution", "trend", "change", "increase", "decrease",
		"compare", "comparison", "difference", "correlation",
	}
}

func defaultMonths() map[string]int {
	return map[string]int{
		"january": 1, "february": 2, "march": 3, "april": 4,
		"may": 5, "june": 6, "july": 7, "august": 8,
		"september": 9, "october": 10, "november": 11, "december": 12,
	}
}

func defaultStopWords() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "what", "was", "were", "is", "are", "how",
		"show", "me", "find", "get", "give", "please", "about",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
