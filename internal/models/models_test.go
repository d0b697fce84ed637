package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertTypeIsAlert(t *testing.T) {
	assert.True(t, AlertActive.IsAlert())
	assert.True(t, AlertPartial.IsAlert())
	assert.False(t, AlertInactive.IsAlert())
	assert.False(t, AlertUnknown.IsAlert())
}

func TestFromRegionMapCountsActiveAlerts(t *testing.T) {
	snap := FromRegionMap(map[string]AlertType{
		"Київська область": AlertActive,
		"м. Київ":          AlertPartial,
		"Львівська область": AlertInactive,
	})

	assert.Equal(t, 3, snap.TotalRegions)
	assert.Equal(t, 2, snap.ActiveAlerts)
	assert.Equal(t, "ok", snap.APIStatus)
	assert.True(t, snap.Regions["м. Київ"].IsAlert)
	assert.Equal(t, AlertPartial, snap.Regions["м. Київ"].AlertType)
	assert.False(t, snap.Regions["Львівська область"].IsAlert)
}

func TestFromRegionMapInvariantHolds(t *testing.T) {
	snap := FromRegionMap(map[string]AlertType{
		"a": AlertActive, "b": AlertInactive, "c": AlertActive, "d": AlertPartial,
	})

	active := 0
	for _, st := range snap.Regions {
		if st.IsAlert {
			active++
		}
	}
	assert.Equal(t, active, snap.ActiveAlerts)
	assert.Equal(t, len(snap.Regions), snap.TotalRegions)
}

func TestFromRegionMapTimestampsNow(t *testing.T) {
	before := time.Now().UTC()
	snap := FromRegionMap(map[string]AlertType{"a": AlertInactive})
	after := time.Now().UTC()

	require.False(t, snap.LastUpdate.Before(before))
	require.False(t, snap.LastUpdate.After(after))
	assert.Equal(t, snap.LastUpdate, snap.Regions["a"].LastUpdated)
}

func TestActiveRegions(t *testing.T) {
	snap := FromRegionMap(map[string]AlertType{
		"a": AlertActive, "b": AlertInactive, "c": AlertPartial,
	})
	assert.ElementsMatch(t, []string{"a", "c"}, snap.ActiveRegions())
}

func TestFromRegionMapEmpty(t *testing.T) {
	snap := FromRegionMap(map[string]AlertType{})
	assert.Equal(t, 0, snap.TotalRegions)
	assert.Equal(t, 0, snap.ActiveAlerts)
	assert.Empty(t, snap.Regions)
}
