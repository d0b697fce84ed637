package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilPublisherIsDisabled(t *testing.T) {
	n := NewAlertNotifier(nil)

	assert.False(t, n.Enabled())
	assert.False(t, n.SendMessage("hi"))
	assert.False(t, n.SendRegionAlert("м. Київ", true, nil))
	assert.False(t, n.SendSystemAlert("down", "high"))
}

func TestRegionAlertSuppressesUnchangedStatus(t *testing.T) {
	n := NewAlertNotifier(nil)
	prev := true
	assert.False(t, n.SendRegionAlert("м. Київ", true, &prev))
}
