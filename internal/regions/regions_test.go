package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCovers27Regions(t *testing.T) {
	assert.Equal(t, 27, Count())
	assert.Len(t, SortedUIDs(), 27)
}

func TestSortedUIDsAreAscendingAndStable(t *testing.T) {
	uids := SortedUIDs()
	require.NotEmpty(t, uids)
	for i := 1; i < len(uids); i++ {
		assert.Less(t, uids[i-1], uids[i])
	}
	// Fixed endpoints of the provider's UID space.
	assert.Equal(t, 3, uids[0])
	assert.Equal(t, 31, uids[len(uids)-1])
}

func TestEveryUIDHasAName(t *testing.T) {
	for _, uid := range SortedUIDs() {
		assert.NotEmpty(t, UIDMap[uid], "uid %d has no display name", uid)
	}
}

func TestCapitalIsPriority(t *testing.T) {
	assert.True(t, IsPriority(Capital))
	assert.False(t, IsPriority("Львівська область"))
	assert.False(t, IsPriority("м. Севастополь"))
}
