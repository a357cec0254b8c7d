package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"workforce-attendance/internal/models"
)

var yard = []models.GeoPoint{
	{Lat: 0, Lng: 0},
	{Lat: 0, Lng: 10},
	{Lat: 10, Lng: 10},
	{Lat: 10, Lng: 0},
}

// L-shaped site with the north-east corner cut out.
var lShape = []models.GeoPoint{
	{Lat: 0, Lng: 0},
	{Lat: 0, Lng: 10},
	{Lat: 5, Lng: 10},
	{Lat: 5, Lng: 5},
	{Lat: 10, Lng: 5},
	{Lat: 10, Lng: 0},
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(yard, models.GeoPoint{Lat: 5, Lng: 5}))
	assert.False(t, Contains(yard, models.GeoPoint{Lat: 11, Lng: 5}))
	assert.False(t, Contains(yard, models.GeoPoint{Lat: 5, Lng: -0.5}))

	assert.True(t, Contains(lShape, models.GeoPoint{Lat: 2, Lng: 8}))
	assert.True(t, Contains(lShape, models.GeoPoint{Lat: 8, Lng: 2}))
	assert.False(t, Contains(lShape, models.GeoPoint{Lat: 8, Lng: 8}))
}

func TestContainsDegeneratePolygon(t *testing.T) {
	assert.False(t, Contains(yard[:2], models.GeoPoint{Lat: 0, Lng: 5}))
}

func TestAllow(t *testing.T) {
	outside := &models.GeoPoint{Lat: 20, Lng: 20}
	inside := &models.GeoPoint{Lat: 1, Lng: 1}

	assert.True(t, Allow(yard, outside, false))
	assert.True(t, Allow(nil, outside, true))
	assert.True(t, Allow(yard, inside, true))
	assert.False(t, Allow(yard, outside, true))
	assert.False(t, Allow(yard, nil, true))
}
