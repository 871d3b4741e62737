package methods

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ParseSitePolygon accepts a GeoJSON geometry, feature or feature collection
// and returns the site footprint as a MultiPolygon. Polygons are promoted,
// anything else is refused.
func ParseSitePolygon(raw string) (orb.MultiPolygon, error) {
	data := []byte(raw)

	if geom, err := geojson.UnmarshalGeometry(data); err == nil {
		return toMultiPolygon(geom.Geometry())
	}
	if feat, err := geojson.UnmarshalFeature(data); err == nil {
		return toMultiPolygon(feat.Geometry)
	}
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		if len(fc.Features) == 0 {
			return nil, errors.New("GeoJSON contains no features")
		}
		return toMultiPolygon(fc.Features[0].Geometry)
	}

	// 最后尝试裸geometry对象
	var g geojson.Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %v", err)
	}
	return toMultiPolygon(g.Geometry())
}

func toMultiPolygon(geom orb.Geometry) (orb.MultiPolygon, error) {
	switch g := geom.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{g}, nil
	case orb.MultiPolygon:
		return g, nil
	default:
		return nil, fmt.Errorf("geometry must be Polygon or MultiPolygon, got %v", geom.GeoJSONType())
	}
}

// ValidateSitePolygon runs the client-side checks before the database sees
// the geometry: closed rings with enough points and a non-degenerate area.
// ST_IsValid on the patrimoine table stays the final authority.
func ValidateSitePolygon(mp orb.MultiPolygon) error {
	if len(mp) == 0 {
		return errors.New("empty geometry")
	}
	for _, poly := range mp {
		if len(poly) == 0 {
			return errors.New("polygon without rings")
		}
		for _, ring := range poly {
			if len(ring) < 4 {
				return errors.New("ring must have at least 4 points")
			}
			if !ring.Closed() {
				return errors.New("ring is not closed")
			}
		}
	}
	if planar.Area(mp) == 0 {
		return errors.New("polygon has zero area")
	}
	return nil
}

// PolygonWKT renders the MultiPolygon for ST_GeomFromText(?, 4326).
func PolygonWKT(mp orb.MultiPolygon) string {
	return wkt.MarshalString(mp)
}

// PointInSite reports whether the point falls inside the site footprint.
func PointInSite(mp orb.MultiPolygon, pt orb.Point) bool {
	return planar.MultiPolygonContains(mp, pt)
}
