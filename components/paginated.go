package components

import (
	"fmt"
	"sync"

	"rost/collectors"
	"rost/events"
	"rost/interfaces"

	"github.com/bwmarrin/discordgo"
)

// DefaultEntriesPerPage is how many elements a page holds unless overridden.
const DefaultEntriesPerPage = 10

// View is one rendered page.
type View struct {
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// PaginatedViewOptions configures a PaginatedView.
type PaginatedViewOptions[T any] struct {
	Responder Responder
	Events    *events.Store
	Locales   collectors.LocaleResolver
	Log       interfaces.Logger

	// Anchor is the interaction the view is displayed in response to.
	Anchor         *collectors.Interaction
	Elements       []T
	EntriesPerPage int
	// Build renders one page of elements.
	Build func(page []T, index int) View
}

// PaginatedView displays a list of elements as a browsable sequence of
// pages, flipped through previous/next buttons. The buttons only answer to
// the user the view belongs to.
type PaginatedView[T any] struct {
	options PaginatedViewOptions[T]

	pageButtons *collectors.InteractionCollector
	pages       [][]T

	mu    sync.Mutex
	index int
}

func NewPaginatedView[T any](options PaginatedViewOptions[T]) *PaginatedView[T] {
	entriesPerPage := options.EntriesPerPage
	if entriesPerPage <= 0 {
		entriesPerPage = DefaultEntriesPerPage
	}

	return &PaginatedView[T]{
		options: options,
		pages:   chunk(options.Elements, entriesPerPage),
		pageButtons: collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
			Only:    []string{options.Anchor.UserID()},
			Locales: options.Locales,
			Log:     options.Log,
		}),
	}
}

// Open displays the first page and begins listening for page flips. The view
// closes itself when its buttons expire.
func (v *PaginatedView[T]) Open() error {
	v.pageButtons.OnInteraction(v.handlePageButton)
	v.options.Events.RegisterInteractionCollector(v.pageButtons)

	view, controls := v.render()
	return v.options.Responder.Respond(v.options.Anchor.Interaction, !v.options.Anchor.Parameters.Show,
		[]*discordgo.MessageEmbed{view.Embed}, append(view.Components, controls...))
}

func (v *PaginatedView[T]) Close() {
	v.pageButtons.Close()
}

func (v *PaginatedView[T]) handlePageButton(press *collectors.Interaction) {
	if err := v.options.Responder.Acknowledge(press.Interaction); err != nil {
		v.options.Log.Warn("Failed to acknowledge a page flip.", "error", err)
	}

	if len(press.Metadata) < 2 {
		return
	}

	v.mu.Lock()
	switch press.Metadata[1] {
	case "previous":
		if v.index > 0 {
			v.index--
		}
	case "next":
		if v.index < len(v.pages)-1 {
			v.index++
		}
	}
	v.mu.Unlock()

	view, controls := v.render()
	err := v.options.Responder.EditResponse(v.options.Anchor.Interaction,
		[]*discordgo.MessageEmbed{view.Embed}, append(view.Components, controls...))
	if err != nil {
		v.options.Log.Warn("Failed to refresh a paginated view.", "error", err)
	}
}

func (v *PaginatedView[T]) render() (View, []discordgo.MessageComponent) {
	v.mu.Lock()
	index := v.index
	v.mu.Unlock()

	view := v.options.Build(v.pages[index], index)

	if len(v.pages) > 1 {
		view.Embed.Title = fmt.Sprintf("%s ~ Page %d/%d", view.Embed.Title, index+1, len(v.pages))
		if index < len(v.pages)-1 {
			view.Embed.Footer = &discordgo.MessageEmbedFooter{Text: "Continued on the next page"}
		}
	}

	controls := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Label:    "«",
					CustomID: v.pageButtons.EncodeID("previous"),
					Disabled: index == 0,
				},
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Label:    "»",
					CustomID: v.pageButtons.EncodeID("next"),
					Disabled: index == len(v.pages)-1,
				},
			},
		},
	}

	return view, controls
}

// chunk splits elements into fixed-size pages, always yielding at least one
// page so that an empty list still renders.
func chunk[T any](elements []T, size int) [][]T {
	if len(elements) == 0 {
		return [][]T{{}}
	}

	pages := make([][]T, 0, (len(elements)+size-1)/size)
	for start := 0; start < len(elements); start += size {
		end := start + size
		if end > len(elements) {
			end = len(elements)
		}

		pages = append(pages, elements[start:end])
	}

	return pages
}
