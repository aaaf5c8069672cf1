package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box. MinLon may exceed MaxLon for
// regions crossing the antimeridian (e.g. the Pacific Ocean); such boxes are
// tested with CrossesAntimeridian, never normalised away.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// CrossesAntimeridian reports whether the box wraps across the ±180° line.
func (b Bounds) CrossesAntimeridian() bool {
	return b.MinLon > b.MaxLon
}

// Contains reports whether the point falls inside the box.
func (b Bounds) Contains(p GeoPoint) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.CrossesAntimeridian() {
		return p.Lon >= b.MinLon || p.Lon <= b.MaxLon
	}
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}
