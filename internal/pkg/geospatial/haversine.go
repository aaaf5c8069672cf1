package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// ApproxAreaKm2 returns the approximate area of a lat/lon box in km².
// minLon > maxLon means the box crosses the antimeridian and the longitudinal
// width wraps through 360°. Good enough for comparing region sizes; not a
// geodesic area.
func ApproxAreaKm2(minLat, maxLat, minLon, maxLon float64) float64 {
	lonWidth := maxLon - minLon
	if lonWidth < 0 {
		lonWidth += 360
	}
	latHeight := maxLat - minLat
	midLat := (minLat + maxLat) / 2

	kmPerDegLat := 111.32
	kmPerDegLon := 111.32 * math.Cos(toRad(midLat))
	return math.Abs(latHeight*kmPerDegLat) * math.Abs(lonWidth*kmPerDegLon)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
