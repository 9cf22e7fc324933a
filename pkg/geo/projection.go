package geo

import (
	"encoding/json"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// WGS84 ellipsoid.
const (
	wgs84A  = 6378137.0
	wgs84F  = 1 / 298.257223563
	wgs84E2 = wgs84F * (2 - wgs84F)

	// meanEarthRadius is used for short-distance degree conversions.
	meanEarthRadius = 6371008.8
)

// Origin is the reference point that linearizes geographic coordinates
// into a local east-north-up frame for one site.
type Origin struct {
	LatLng s2.LatLng
}

// NewOrigin returns an origin at the given latitude and longitude in degrees.
func NewOrigin(lat, lon float64) Origin {
	return Origin{LatLng: s2.LatLngFromDegrees(lat, lon)}
}

// Lat returns the origin latitude in degrees.
func (o Origin) Lat() float64 { return o.LatLng.Lat.Degrees() }

// Lon returns the origin longitude in degrees.
func (o Origin) Lon() float64 { return o.LatLng.Lng.Degrees() }

func ecef(lat, lon s1.Angle, h float64) (x, y, z float64) {
	sinLat, cosLat := math.Sincos(lat.Radians())
	sinLon, cosLon := math.Sincos(lon.Radians())
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
	x = (n + h) * cosLat * cosLon
	y = (n + h) * cosLat * sinLon
	z = (n*(1-wgs84E2) + h) * sinLat
	return x, y, z
}

// ToLocal projects a geographic position (degrees, meters) into the local
// east-north-up frame of the origin. The result is in meters.
func (o Origin) ToLocal(lat, lon, elevation float64) Point3D {
	target := s2.LatLngFromDegrees(lat, lon)
	x0, y0, z0 := ecef(o.LatLng.Lat, o.LatLng.Lng, 0)
	x, y, z := ecef(target.Lat, target.Lng, elevation)
	dx, dy, dz := x-x0, y-y0, z-z0

	sinLat, cosLat := math.Sincos(o.LatLng.Lat.Radians())
	sinLon, cosLon := math.Sincos(o.LatLng.Lng.Radians())
	return Point3D{
		X: -sinLon*dx + cosLon*dy,
		Y: -sinLat*cosLon*dx - sinLat*sinLon*dy + cosLat*dz,
		Z: cosLat*cosLon*dx + cosLat*sinLon*dy + sinLat*dz,
	}
}

// DegreeSpan converts a ground distance in meters to the latitude and
// longitude spans it covers at the origin.
func (o Origin) DegreeSpan(meters float64) (dLat, dLon float64) {
	lat := s1.Angle(meters / meanEarthRadius)
	dLat = lat.Degrees()
	cosLat := math.Cos(o.LatLng.Lat.Radians())
	if cosLat < 1e-9 {
		return dLat, 180
	}
	return dLat, dLat / cosLat
}

// MarshalJSON encodes the origin as {"lat": ..., "lon": ...} in degrees.
func (o Origin) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}{o.Lat(), o.Lon()})
}
