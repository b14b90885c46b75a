package components

import (
	"fmt"
	"strings"
	"testing"

	"rost/collectors"
	"rost/events"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListView(t *testing.T, responder *fakeResponder, elements []string, perPage int) *PaginatedView[string] {
	t.Helper()

	return NewPaginatedView(PaginatedViewOptions[string]{
		Responder:      responder,
		Events:         events.NewStore(nopLogger{}),
		Log:            nopLogger{},
		Anchor:         anchorInteraction("user-1"),
		Elements:       elements,
		EntriesPerPage: perPage,
		Build: func(page []string, index int) View {
			return View{Embed: &discordgo.MessageEmbed{
				Title:       "Resources",
				Description: strings.Join(page, "\n"),
			}}
		},
	})
}

func pageFlip(direction string) *collectors.Interaction {
	press := anchorInteraction("user-1")
	press.Metadata = []string{"", direction}
	return press
}

func TestViewOpensOnFirstPage(t *testing.T) {
	responder := &fakeResponder{}
	view := newListView(t, responder, []string{"a", "b", "c"}, 2)
	defer view.Close()

	require.NoError(t, view.Open())

	require.Len(t, responder.responses, 1)
	rendered := responder.responses[0]
	assert.True(t, rendered.ephemeral)

	embed := rendered.embeds[0]
	assert.Equal(t, "Resources ~ Page 1/2", embed.Title)
	assert.Equal(t, "a\nb", embed.Description)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Continued on the next page", embed.Footer.Text)

	row, ok := rendered.components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	assert.True(t, row.Components[0].(discordgo.Button).Disabled)
	assert.False(t, row.Components[1].(discordgo.Button).Disabled)
}

func TestViewFlipsToNextPage(t *testing.T) {
	responder := &fakeResponder{}
	view := newListView(t, responder, []string{"a", "b", "c"}, 2)
	defer view.Close()

	require.NoError(t, view.Open())
	view.handlePageButton(pageFlip("next"))

	require.Len(t, responder.edits, 1)
	embed := responder.edits[0].embeds[0]
	assert.Equal(t, "Resources ~ Page 2/2", embed.Title)
	assert.Equal(t, "c", embed.Description)
	assert.Nil(t, embed.Footer)

	row := responder.edits[0].components[0].(discordgo.ActionsRow)
	assert.False(t, row.Components[0].(discordgo.Button).Disabled)
	assert.True(t, row.Components[1].(discordgo.Button).Disabled)
	assert.Equal(t, 1, responder.acknowledged)
}

func TestViewClampsAtEdges(t *testing.T) {
	responder := &fakeResponder{}
	view := newListView(t, responder, []string{"a", "b", "c"}, 2)
	defer view.Close()

	require.NoError(t, view.Open())

	view.handlePageButton(pageFlip("previous"))
	assert.Equal(t, "Resources ~ Page 1/2", responder.edits[0].embeds[0].Title)

	view.handlePageButton(pageFlip("next"))
	view.handlePageButton(pageFlip("next"))
	assert.Equal(t, "Resources ~ Page 2/2", responder.edits[2].embeds[0].Title)
}

func TestSinglePageViewHasNoPageDecorations(t *testing.T) {
	responder := &fakeResponder{}
	view := newListView(t, responder, []string{"a", "b"}, 10)
	defer view.Close()

	require.NoError(t, view.Open())

	embed := responder.responses[0].embeds[0]
	assert.Equal(t, "Resources", embed.Title)
	assert.Nil(t, embed.Footer)

	// Both buttons are disabled on a single page.
	row := responder.responses[0].components[0].(discordgo.ActionsRow)
	assert.True(t, row.Components[0].(discordgo.Button).Disabled)
	assert.True(t, row.Components[1].(discordgo.Button).Disabled)
}

func TestViewRespectsShowParameter(t *testing.T) {
	responder := &fakeResponder{}
	anchor := anchorInteraction("user-1")
	anchor.Parameters.Show = true

	view := NewPaginatedView(PaginatedViewOptions[string]{
		Responder: responder,
		Events:    events.NewStore(nopLogger{}),
		Log:       nopLogger{},
		Anchor:    anchor,
		Elements:  []string{"a"},
		Build: func(page []string, index int) View {
			return View{Embed: &discordgo.MessageEmbed{Title: "Resources"}}
		},
	})
	defer view.Close()

	require.NoError(t, view.Open())
	assert.False(t, responder.responses[0].ephemeral)
}

func TestChunk(t *testing.T) {
	elements := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		elements = append(elements, fmt.Sprintf("element-%d", i))
	}

	pages := chunk(elements, 10)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 10)
	assert.Len(t, pages[1], 10)
	assert.Len(t, pages[2], 5)
}

func TestChunkOfNothingYieldsOneEmptyPage(t *testing.T) {
	pages := chunk([]string(nil), 10)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0])
}
