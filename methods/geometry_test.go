package methods

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareGeoJSON = `{"type":"Polygon","coordinates":[[[-5.0,34.0],[-4.9,34.0],[-4.9,34.1],[-5.0,34.1],[-5.0,34.0]]]}`

func TestParseSitePolygonGeometry(t *testing.T) {
	mp, err := ParseSitePolygon(squareGeoJSON)
	require.NoError(t, err)
	require.Len(t, mp, 1)
	assert.Len(t, mp[0], 1)
	assert.Len(t, mp[0][0], 5)
}

func TestParseSitePolygonFeature(t *testing.T) {
	feature := `{"type":"Feature","properties":{"nom":"site"},"geometry":` + squareGeoJSON + `}`
	mp, err := ParseSitePolygon(feature)
	require.NoError(t, err)
	assert.Len(t, mp, 1)
}

func TestParseSitePolygonFeatureCollection(t *testing.T) {
	fc := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":` + squareGeoJSON + `}]}`
	mp, err := ParseSitePolygon(fc)
	require.NoError(t, err)
	assert.Len(t, mp, 1)

	_, err = ParseSitePolygon(`{"type":"FeatureCollection","features":[]}`)
	assert.Error(t, err)
}

func TestParseSitePolygonMultiPolygon(t *testing.T) {
	raw := `{"type":"MultiPolygon","coordinates":[[[[-5.0,34.0],[-4.9,34.0],[-4.9,34.1],[-5.0,34.0]]],[[[-6.0,31.0],[-5.9,31.0],[-5.9,31.1],[-6.0,31.0]]]]}`
	mp, err := ParseSitePolygon(raw)
	require.NoError(t, err)
	assert.Len(t, mp, 2)
}

func TestParseSitePolygonRejectsPoint(t *testing.T) {
	_, err := ParseSitePolygon(`{"type":"Point","coordinates":[-5.0,34.0]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Polygon")
}

func TestParseSitePolygonRejectsGarbage(t *testing.T) {
	_, err := ParseSitePolygon(`pas du JSON`)
	assert.Error(t, err)
}

func TestValidateSitePolygon(t *testing.T) {
	mp, err := ParseSitePolygon(squareGeoJSON)
	require.NoError(t, err)
	assert.NoError(t, ValidateSitePolygon(mp))
}

func TestValidateSitePolygonEmpty(t *testing.T) {
	assert.Error(t, ValidateSitePolygon(orb.MultiPolygon{}))
	assert.Error(t, ValidateSitePolygon(orb.MultiPolygon{orb.Polygon{}}))
}

func TestValidateSitePolygonOpenRing(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	err := ValidateSitePolygon(orb.MultiPolygon{orb.Polygon{ring}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestValidateSitePolygonTooFewPoints(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {0, 0}}
	err := ValidateSitePolygon(orb.MultiPolygon{orb.Polygon{ring}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 points")
}

func TestValidateSitePolygonZeroArea(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 1}, {2, 2}, {0, 0}}
	err := ValidateSitePolygon(orb.MultiPolygon{orb.Polygon{ring}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "area")
}

func TestPolygonWKT(t *testing.T) {
	mp, err := ParseSitePolygon(squareGeoJSON)
	require.NoError(t, err)
	wkt := PolygonWKT(mp)
	assert.Contains(t, wkt, "MULTIPOLYGON")
	assert.Contains(t, wkt, "-5 34")
}

func TestPointInSite(t *testing.T) {
	mp, err := ParseSitePolygon(squareGeoJSON)
	require.NoError(t, err)
	assert.True(t, PointInSite(mp, orb.Point{-4.95, 34.05}))
	assert.False(t, PointInSite(mp, orb.Point{-7.0, 31.0}))
}
