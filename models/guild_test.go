package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildDocumentFeatureRequiresEnablementAndConfiguration(t *testing.T) {
	document := NewGuildDocument("guild")

	_, err := document.Feature(FeatureReports)
	require.Error(t, err)

	document.EnabledFeatures[FeatureReports] = true
	_, err = document.Feature(FeatureReports)
	require.Error(t, err)

	document.Features[FeatureReports] = FeatureConfig{ChannelID: "channel"}
	configuration, err := document.Feature(FeatureReports)
	require.NoError(t, err)
	assert.Equal(t, "channel", configuration.ChannelID)
}

func TestCrossesRateLimit(t *testing.T) {
	now := time.Now()
	limit := RateLimit{Uses: 2, Within: time.Hour.Milliseconds()}

	recent := now.Add(-10 * time.Minute).UnixMilli()
	old := now.Add(-2 * time.Hour).UnixMilli()

	assert.False(t, CrossesRateLimit(nil, limit, now))
	assert.False(t, CrossesRateLimit([]int64{recent}, limit, now))
	assert.True(t, CrossesRateLimit([]int64{recent, recent}, limit, now))
	assert.False(t, CrossesRateLimit([]int64{old, old, old}, limit, now))
}

func TestCrossesRateLimitZeroUsesNeverCrosses(t *testing.T) {
	now := time.Now()

	assert.False(t, CrossesRateLimit([]int64{now.UnixMilli()}, RateLimit{}, now))
}

func TestUserDocumentSetAuthorisationStatus(t *testing.T) {
	document := NewUserDocument("user")

	document.SetAuthorisationStatus("guild", StatusAuthorised)
	assert.Equal(t, StatusAuthorised, document.Statuses["guild"])

	document.SetAuthorisationStatus("guild", StatusRejected)
	assert.Equal(t, StatusRejected, document.Statuses["guild"])
}

func TestBuildIDAndParts(t *testing.T) {
	id := BuildID(CollectionTickets, "guild", "author", "channel")
	assert.Equal(t, "Tickets/guild/author/channel", id)

	assert.Equal(t, []string{"guild", "author", "channel"}, PartialIDParts("guild/author/channel"))
}
