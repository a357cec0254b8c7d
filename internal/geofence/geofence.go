package geofence

import "workforce-attendance/internal/models"

// Contains reports whether point lies inside polygon using ray casting.
// Points on an edge may fall either way. Polygons with fewer than three
// vertices contain nothing.
func Contains(polygon []models.GeoPoint, point models.GeoPoint) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1
	for i := range polygon {
		a, b := polygon[i], polygon[j]
		if (a.Lat > point.Lat) != (b.Lat > point.Lat) {
			crossLng := (b.Lng-a.Lng)*(point.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lng
			if point.Lng < crossLng {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Allow decides whether a check-in position passes the site fence. With
// enforcement off, or no fence drawn, every position passes. With
// enforcement on, a missing position fails.
func Allow(polygon []models.GeoPoint, point *models.GeoPoint, enforced bool) bool {
	if !enforced || len(polygon) < 3 {
		return true
	}
	if point == nil {
		return false
	}
	return Contains(polygon, *point)
}
