package components

import (
	"sync"

	"rost/collectors"
	"rost/events"
	"rost/interfaces"

	"github.com/bwmarrin/discordgo"
)

// FormData is what a user typed into a modal, keyed by field.
type FormData map[string]string

// ModalField describes one text input of a modal. The key doubles as the
// input's custom ID, which is how submitted values find their way back into
// the form data.
type ModalField struct {
	Key         string
	Label       string
	Style       discordgo.TextInputStyle
	Required    bool
	MaxLength   int
	Placeholder string
}

// Modal is a form to display. Builders must bind every form-data key to a
// field; unbound values are lost when a rejected submission is redisplayed.
type Modal struct {
	Title  string
	Fields []ModalField
}

// ComposerOptions configures a ModalComposer.
type ComposerOptions struct {
	Responder Responder
	Events    *events.Store
	Locales   collectors.LocaleResolver
	Log       interfaces.Logger

	// Anchor is the interaction the modal is displayed in response to.
	Anchor *collectors.Interaction
	// InitialFormData pre-fills the form.
	InitialFormData FormData
	// Build renders the current form data into a modal.
	Build func(formData FormData) Modal
	// Validate inspects submitted form data and returns a rejection message,
	// or empty when the data is acceptable.
	Validate func(formData FormData) string
}

// ModalComposer drives a multi-step form collection flow: it displays a
// modal, collects the submission, validates it, and on rejection offers the
// user the choice between submitting anyway, returning to the form with
// their input intact, or abandoning the flow.
type ModalComposer struct {
	options ComposerOptions

	submissions *collectors.InteractionCollector

	mu       sync.Mutex
	anchor   *collectors.Interaction
	formData FormData
	onSubmit func(submission *collectors.Interaction, formData FormData)
}

func NewModalComposer(options ComposerOptions) *ModalComposer {
	formData := options.InitialFormData
	if formData == nil {
		formData = FormData{}
	}

	return &ModalComposer{
		options:  options,
		anchor:   options.Anchor,
		formData: formData,
		submissions: collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
			Type:    discordgo.InteractionModalSubmit,
			Only:    []string{options.Anchor.UserID()},
			Locales: options.Locales,
			Log:     options.Log,
		}),
	}
}

// OnSubmit registers the callback invoked with validated form data.
func (c *ModalComposer) OnSubmit(callback func(submission *collectors.Interaction, formData FormData)) {
	c.mu.Lock()
	c.onSubmit = callback
	c.mu.Unlock()
}

// Open displays the modal and begins collecting submissions.
func (c *ModalComposer) Open() error {
	c.submissions.OnInteraction(c.handleSubmission)
	c.options.Events.RegisterInteractionCollector(c.submissions)

	return c.display()
}

func (c *ModalComposer) Close() {
	c.submissions.Close()
}

func (c *ModalComposer) display() error {
	c.mu.Lock()
	anchor := c.anchor
	modal := c.options.Build(c.formData)
	c.mu.Unlock()

	rows := make([]discordgo.MessageComponent, 0, len(modal.Fields))
	for _, field := range modal.Fields {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    field.Key,
					Label:       field.Label,
					Style:       field.Style,
					Required:    field.Required,
					MaxLength:   field.MaxLength,
					Placeholder: field.Placeholder,
					Value:       c.value(field.Key),
				},
			},
		})
	}

	return c.options.Responder.DisplayModal(anchor.Interaction, c.submissions.CustomID, modal.Title, rows)
}

func (c *ModalComposer) value(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.formData[key]
}

func (c *ModalComposer) handleSubmission(submission *collectors.Interaction) {
	formData, ok := ParseFormData(submission)
	if !ok {
		c.options.Log.Warn("Could not get form data from a modal submission.")
		return
	}

	c.mu.Lock()
	c.formData = formData
	onSubmit := c.onSubmit
	c.mu.Unlock()

	if rejection := c.options.Validate(formData); rejection != "" {
		newAnchor := c.handleInvalid(submission, rejection)
		if newAnchor == nil {
			c.Close()
			return
		}

		c.mu.Lock()
		c.anchor = newAnchor
		c.mu.Unlock()

		if err := c.display(); err != nil {
			c.options.Log.Warn("Failed to redisplay a modal.", "error", err)
		}
		return
	}

	if onSubmit != nil {
		onSubmit(submission, formData)
	}

	c.Close()
}

// handleInvalid shows the user their submission was rejected and why, and
// blocks until they choose to submit anyway, return to the form, or leave.
// It returns the interaction to redisplay the modal against, or nil when the
// flow is over. Submitting anyway returns the pressed button too: the
// submission callback then fires from the caller.
func (c *ModalComposer) handleInvalid(submission *collectors.Interaction, rejection string) *collectors.Interaction {
	userID := submission.UserID()

	continueButton := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		Only: []string{userID}, IsSingle: true, Locales: c.options.Locales, Log: c.options.Log,
	})
	cancelButton := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		Only: []string{userID}, Locales: c.options.Locales, Log: c.options.Log,
	})
	returnButton := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		Only: []string{userID}, IsSingle: true, DependsOn: cancelButton.Collector,
		Locales: c.options.Locales, Log: c.options.Log,
	})
	leaveButton := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		Only: []string{userID}, IsSingle: true, DependsOn: cancelButton.Collector,
		Locales: c.options.Locales, Log: c.options.Log,
	})

	var once sync.Once
	result := make(chan *collectors.Interaction, 1)
	resolve := func(anchor *collectors.Interaction) {
		once.Do(func() { result <- anchor })
	}

	continueButton.OnInteraction(func(press *collectors.Interaction) {
		if err := c.options.Responder.DeleteResponse(submission.Interaction); err != nil {
			c.options.Log.Warn("Failed to delete a rejection message.", "error", err)
		}

		c.mu.Lock()
		onSubmit := c.onSubmit
		formData := c.formData
		c.mu.Unlock()

		if onSubmit != nil {
			onSubmit(press, formData)
		}

		resolve(nil)
	})

	cancelButton.OnInteraction(func(cancelPress *collectors.Interaction) {
		returnButton.OnInteraction(func(returnPress *collectors.Interaction) {
			if err := c.options.Responder.DeleteResponse(submission.Interaction); err != nil {
				c.options.Log.Warn("Failed to delete a rejection message.", "error", err)
			}
			if err := c.options.Responder.DeleteResponse(cancelPress.Interaction); err != nil {
				c.options.Log.Warn("Failed to delete a cancellation message.", "error", err)
			}

			resolve(returnPress)
		})

		leaveButton.OnInteraction(func(_ *collectors.Interaction) {
			if err := c.options.Responder.DeleteResponse(submission.Interaction); err != nil {
				c.options.Log.Warn("Failed to delete a rejection message.", "error", err)
			}
			if err := c.options.Responder.DeleteResponse(cancelPress.Interaction); err != nil {
				c.options.Log.Warn("Failed to delete a cancellation message.", "error", err)
			}

			resolve(nil)
		})

		err := c.options.Responder.Respond(cancelPress.Interaction, true,
			[]*discordgo.MessageEmbed{
				{
					Title:       "Sure you want to leave?",
					Description: "Your answers will be lost.",
					Color:       colourWarning,
				},
			},
			[]discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{Style: discordgo.SuccessButton, Label: "Stay", CustomID: returnButton.EncodeID()},
						discordgo.Button{Style: discordgo.DangerButton, Label: "Leave", CustomID: leaveButton.EncodeID()},
					},
				},
			})
		if err != nil {
			c.options.Log.Warn("Failed to ask about leaving a form.", "error", err)
		}
	})

	continueButton.OnDone(func() { resolve(nil) })
	cancelButton.OnDone(func() { resolve(nil) })

	c.options.Events.RegisterInteractionCollector(continueButton)
	c.options.Events.RegisterInteractionCollector(cancelButton)
	c.options.Events.RegisterInteractionCollector(returnButton)
	c.options.Events.RegisterInteractionCollector(leaveButton)

	err := c.options.Responder.Respond(submission.Interaction, true,
		[]*discordgo.MessageEmbed{
			{
				Title:       "Failed to submit form",
				Description: rejection,
				Color:       colourWarning,
			},
		},
		[]discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Style: discordgo.SuccessButton, Label: "Submit anyway", CustomID: continueButton.EncodeID()},
					discordgo.Button{Style: discordgo.DangerButton, Label: "Cancel", CustomID: cancelButton.EncodeID()},
				},
			},
		})
	if err != nil {
		c.options.Log.Warn("Failed to show a rejection message.", "error", err)
		resolve(nil)
	}

	anchor := <-result

	continueButton.Close()
	cancelButton.Close()

	return anchor
}

// ParseFormData extracts the typed values from a modal submission. Each
// action row is expected to hold a single text input whose custom ID names
// the form-data key.
func ParseFormData(submission *collectors.Interaction) (FormData, bool) {
	if submission.Type != discordgo.InteractionModalSubmit {
		return nil, false
	}

	formData := FormData{}
	for _, row := range submission.ModalSubmitData().Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}

		for _, component := range actionsRow.Components {
			input, ok := component.(*discordgo.TextInput)
			if !ok {
				continue
			}

			if input.CustomID == "" {
				return nil, false
			}

			formData[input.CustomID] = input.Value
		}
	}

	return formData, true
}

const colourWarning = 0xd8a24a
