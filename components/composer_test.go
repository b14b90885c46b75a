package components

import (
	"sync"
	"testing"

	"rost/collectors"
	"rost/events"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Fatal(string, ...any) {}

type displayedModal struct {
	customID   string
	title      string
	components []discordgo.MessageComponent
}

type response struct {
	ephemeral  bool
	embeds     []*discordgo.MessageEmbed
	components []discordgo.MessageComponent
}

// fakeResponder records every call made against it.
type fakeResponder struct {
	mu           sync.Mutex
	modals       []displayedModal
	responses    []response
	edits        []response
	acknowledged int
	deleted      int
}

func (r *fakeResponder) DisplayModal(_ *discordgo.Interaction, customID, title string, components []discordgo.MessageComponent) error {
	r.mu.Lock()
	r.modals = append(r.modals, displayedModal{customID, title, components})
	r.mu.Unlock()
	return nil
}

func (r *fakeResponder) Respond(_ *discordgo.Interaction, ephemeral bool, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	r.mu.Lock()
	r.responses = append(r.responses, response{ephemeral, embeds, components})
	r.mu.Unlock()
	return nil
}

func (r *fakeResponder) EditResponse(_ *discordgo.Interaction, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	r.mu.Lock()
	r.edits = append(r.edits, response{true, embeds, components})
	r.mu.Unlock()
	return nil
}

func (r *fakeResponder) DeleteResponse(*discordgo.Interaction) error {
	r.mu.Lock()
	r.deleted++
	r.mu.Unlock()
	return nil
}

func (r *fakeResponder) Acknowledge(*discordgo.Interaction) error {
	r.mu.Lock()
	r.acknowledged++
	r.mu.Unlock()
	return nil
}

func anchorInteraction(userID string) *collectors.Interaction {
	return &collectors.Interaction{
		InteractionCreate: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				Type:   discordgo.InteractionApplicationCommand,
				Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
			},
		},
	}
}

func modalSubmission(userID string, fields map[string]string) *collectors.Interaction {
	rows := make([]discordgo.MessageComponent, 0, len(fields))
	for key, value := range fields {
		rows = append(rows, &discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: key, Value: value},
			},
		})
	}

	return &collectors.Interaction{
		InteractionCreate: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				Type:   discordgo.InteractionModalSubmit,
				Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
				Data:   discordgo.ModalSubmitInteractionData{Components: rows},
			},
		},
	}
}

func newComposer(t *testing.T, responder *fakeResponder, validate func(FormData) string) *ModalComposer {
	t.Helper()

	if validate == nil {
		validate = func(FormData) string { return "" }
	}

	return NewModalComposer(ComposerOptions{
		Responder: responder,
		Events:    events.NewStore(nopLogger{}),
		Log:       nopLogger{},
		Anchor:    anchorInteraction("user-1"),
		Build: func(formData FormData) Modal {
			return Modal{
				Title: "Report",
				Fields: []ModalField{
					{Key: "reason", Label: "Reason", Style: discordgo.TextInputParagraph, Required: true},
				},
			}
		},
		Validate: validate,
	})
}

func TestComposerDisplaysModal(t *testing.T) {
	responder := &fakeResponder{}
	composer := newComposer(t, responder, nil)
	defer composer.Close()

	require.NoError(t, composer.Open())

	require.Len(t, responder.modals, 1)
	assert.Equal(t, "Report", responder.modals[0].title)
	require.Len(t, responder.modals[0].components, 1)
}

func TestComposerPrefillsInitialFormData(t *testing.T) {
	responder := &fakeResponder{}

	composer := NewModalComposer(ComposerOptions{
		Responder:       responder,
		Events:          events.NewStore(nopLogger{}),
		Log:             nopLogger{},
		Anchor:          anchorInteraction("user-1"),
		InitialFormData: FormData{"reason": "previous input"},
		Build: func(formData FormData) Modal {
			return Modal{Fields: []ModalField{{Key: "reason", Label: "Reason"}}}
		},
		Validate: func(FormData) string { return "" },
	})
	defer composer.Close()

	require.NoError(t, composer.Open())

	require.Len(t, responder.modals, 1)
	row, ok := responder.modals[0].components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	input, ok := row.Components[0].(discordgo.TextInput)
	require.True(t, ok)
	assert.Equal(t, "previous input", input.Value)
}

func TestComposerDeliversValidSubmission(t *testing.T) {
	responder := &fakeResponder{}
	composer := newComposer(t, responder, nil)

	var received FormData
	composer.OnSubmit(func(_ *collectors.Interaction, formData FormData) {
		received = formData
	})

	require.NoError(t, composer.Open())
	composer.handleSubmission(modalSubmission("user-1", map[string]string{"reason": "spam"}))

	assert.Equal(t, FormData{"reason": "spam"}, received)
}

func TestComposerIgnoresUnparsableSubmission(t *testing.T) {
	responder := &fakeResponder{}
	composer := newComposer(t, responder, nil)
	defer composer.Close()

	called := false
	composer.OnSubmit(func(*collectors.Interaction, FormData) { called = true })

	require.NoError(t, composer.Open())
	composer.handleSubmission(anchorInteraction("user-1"))

	assert.False(t, called)
}

func TestParseFormData(t *testing.T) {
	formData, ok := ParseFormData(modalSubmission("user-1", map[string]string{
		"reason": "spam",
		"users":  "a, b",
	}))

	require.True(t, ok)
	assert.Equal(t, FormData{"reason": "spam", "users": "a, b"}, formData)
}

func TestParseFormDataRejectsNonSubmissions(t *testing.T) {
	_, ok := ParseFormData(anchorInteraction("user-1"))
	assert.False(t, ok)
}

func TestParseFormDataRejectsInputsWithoutKeys(t *testing.T) {
	submission := &collectors.Interaction{
		InteractionCreate: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				Type: discordgo.InteractionModalSubmit,
				Data: discordgo.ModalSubmitInteractionData{
					Components: []discordgo.MessageComponent{
						&discordgo.ActionsRow{
							Components: []discordgo.MessageComponent{&discordgo.TextInput{Value: "orphaned"}},
						},
					},
				},
			},
		},
	}

	_, ok := ParseFormData(submission)
	assert.False(t, ok)
}
