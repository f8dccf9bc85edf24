package service

import (
	"Shopcore/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusProcessing, models.OrderStatusCancelled, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusOutForDelivery, models.OrderStatusFailed, true},
		{models.OrderStatusFailed, models.OrderStatusPending, true},
		{models.OrderStatusFailed, models.OrderStatusCancelled, true},
		{models.OrderStatusDelivered, models.OrderStatusReturnRequested, true},
		{models.OrderStatusReturnRequested, models.OrderStatusReturned, true},
		{models.OrderStatusCompleted, models.OrderStatusReturnRequested, false},
		{"UNKNOWN", models.OrderStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalAndCancellable(t *testing.T) {
	for _, s := range []string{models.OrderStatusReturned, models.OrderStatusCancelled, models.OrderStatusCompleted} {
		assert.True(t, IsTerminal(s), s)
		assert.Empty(t, AllowedTransitions(s), s)
	}
	assert.False(t, IsTerminal(models.OrderStatusPending))
	assert.False(t, IsTerminal("UNKNOWN"))

	assert.True(t, IsCancellable(models.OrderStatusPending))
	assert.True(t, IsCancellable(models.OrderStatusConfirmed))
	assert.False(t, IsCancellable(models.OrderStatusProcessing))
	assert.False(t, IsCancellable(models.OrderStatusFailed))
}

func TestAllowedTransitionsIsCopy(t *testing.T) {
	next := AllowedTransitions(models.OrderStatusPending)
	next[0] = "HACKED"
	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusConfirmed))
}

func TestTrackingProjection(t *testing.T) {
	assert.Equal(t, models.TrackingPreparing, TrackingStatusFor(models.OrderStatusConfirmed))
	assert.Equal(t, models.TrackingPreparing, TrackingStatusFor(models.OrderStatusProcessing))
	assert.Equal(t, models.TrackingInTransit, TrackingStatusFor(models.OrderStatusShipped))
	assert.Equal(t, models.TrackingFailed, TrackingStatusFor(models.OrderStatusCancelled))
	assert.Equal(t, models.TrackingReturned, TrackingStatusFor(models.OrderStatusReturned))
	assert.Equal(t, models.TrackingPending, TrackingStatusFor("UNKNOWN"))

	for status := range transitions {
		assert.NotEqual(t, status, DescribeStatus(status), "missing description for %s", status)
		assert.True(t, isTrackingStatus(TrackingStatusFor(status)))
	}
}
