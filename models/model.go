package models

import "strings"

// IDSeparator joins the parts of a document ID.
//
// The order of the parts inside a partial ID is fixed and append-only:
// guildId, userId, authorId, targetId, channelId, createdAt. Changing the
// order or the separator invalidates every stored document ID.
const IDSeparator = "/"

// Document collections.
const (
	CollectionEntryRequests = "EntryRequests"
	CollectionGuilds        = "Guilds"
	CollectionReports       = "Reports"
	CollectionResources     = "Resources"
	CollectionSuggestions   = "Suggestions"
	CollectionTickets       = "Tickets"
	CollectionUsers         = "Users"
)

// BuildPartialID joins identifying fields into a partial document ID.
func BuildPartialID(parts ...string) string {
	return strings.Join(parts, IDSeparator)
}

// BuildID builds a full document ID of the form `<collection>/<partialId>`.
func BuildID(collection string, parts ...string) string {
	return collection + IDSeparator + BuildPartialID(parts...)
}

// PartialIDParts splits a partial ID back into its identifying fields.
func PartialIDParts(partialID string) []string {
	return strings.Split(partialID, IDSeparator)
}
