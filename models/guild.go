package models

import (
	"fmt"
	"time"
)

// Feature keys. These double as configuration blob names and as the base
// custom IDs of the prompt services built on top of them.
const (
	FeatureVerification = "verification"
	FeatureReports      = "reports"
	FeatureSuggestions  = "suggestions"
	FeatureResources    = "resourceSubmissions"
	FeatureTickets      = "tickets"
)

// FeatureManagement is the roster of roles and users authorised to manage a
// feature, e.g. to close tickets or remove report prompts.
type FeatureManagement struct {
	Roles []string `json:"roles,omitempty"`
	Users []string `json:"users,omitempty"`
}

// RateLimit bounds how many submissions a user may make within a window.
type RateLimit struct {
	Uses   int   `json:"uses"`
	Within int64 `json:"within"` // milliseconds
}

// VerdictRule decides how many votes are required for a verdict. A "fraction"
// rule is relative to the number of eligible voters, a "number" rule is
// absolute. Either way at least one vote is always required.
type VerdictRule struct {
	Type  string  `json:"type"` // "fraction" or "number"
	Value float64 `json:"value"`
}

// VotingConfig configures entry-request voting for the verification feature.
type VotingConfig struct {
	Roles   []string `json:"roles,omitempty"`
	Users   []string `json:"users,omitempty"`
	Verdict struct {
		Acceptance VerdictRule `json:"acceptance"`
		Rejection  VerdictRule `json:"rejection"`
	} `json:"verdict"`
}

// FeatureConfig is the per-feature configuration blob.
type FeatureConfig struct {
	ChannelID  string        `json:"channelId"`
	CategoryID string        `json:"categoryId,omitempty"` // tickets: parent category
	Voting     *VotingConfig `json:"voting,omitempty"`     // verification only
}

// GuildDocument is the per-guild configuration document.
type GuildDocument struct {
	GuildID         string                       `json:"guildId"`
	CreatedAt       int64                        `json:"createdAt"`
	EnabledFeatures map[string]bool              `json:"enabledFeatures"`
	Journalling     map[string]bool              `json:"journalling"`
	Features        map[string]FeatureConfig     `json:"features"`
	Management      map[string]FeatureManagement `json:"management"`
	RateLimits      map[string]RateLimit         `json:"rateLimits"`
}

func NewGuildDocument(guildID string) *GuildDocument {
	return &GuildDocument{
		GuildID:         guildID,
		CreatedAt:       time.Now().UnixMilli(),
		EnabledFeatures: map[string]bool{},
		Journalling:     map[string]bool{},
		Features:        map[string]FeatureConfig{},
		Management:      map[string]FeatureManagement{},
		RateLimits:      map[string]RateLimit{},
	}
}

func (g *GuildDocument) PartialID() string {
	return BuildPartialID(g.GuildID)
}

func (g *GuildDocument) ID() string {
	return BuildID(CollectionGuilds, g.GuildID)
}

func (g *GuildDocument) HasEnabled(feature string) bool {
	return g.EnabledFeatures[feature]
}

// Feature returns the configuration for an enabled feature. It returns an
// error when the feature is disabled or has no configuration, which points at
// a misconfigured guild document rather than a recoverable condition.
func (g *GuildDocument) Feature(feature string) (FeatureConfig, error) {
	if !g.HasEnabled(feature) {
		return FeatureConfig{}, fmt.Errorf("feature %q is not enabled on guild %s", feature, g.GuildID)
	}

	configuration, ok := g.Features[feature]
	if !ok {
		return FeatureConfig{}, fmt.Errorf("feature %q is enabled on guild %s but has no configuration", feature, g.GuildID)
	}

	return configuration, nil
}

func (g *GuildDocument) IsJournalled(feature string) bool {
	return g.Journalling[feature]
}

func (g *GuildDocument) Managers(feature string) (FeatureManagement, bool) {
	management, ok := g.Management[feature]
	return management, ok
}

func (g *GuildDocument) RateLimit(feature string) (RateLimit, bool) {
	limit, ok := g.RateLimits[feature]
	return limit, ok
}

// CrossesRateLimit reports whether the given submission timestamps, in
// milliseconds, exceed the rate limit's allowance within its window.
func CrossesRateLimit(createdAts []int64, limit RateLimit, now time.Time) bool {
	if limit.Uses <= 0 {
		return false
	}

	threshold := now.UnixMilli() - limit.Within
	recent := 0
	for _, createdAt := range createdAts {
		if createdAt >= threshold {
			recent++
		}
	}

	return recent >= limit.Uses
}
