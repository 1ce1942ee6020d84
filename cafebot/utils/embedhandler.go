// File: utils/embedhandler.go

package utils

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// ResponseHandler provides standardized response methods for commands and components
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// CreateErrorEmbed creates a standard error embed for command events
func (h *ResponseHandler) CreateErrorEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       ErrorColor,
		}},
	})
}

// CreateSuccessEmbed creates a standard success embed for command events
func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       SuccessColor,
		}},
	})
}

// CreateInfoEmbed creates a standard info embed for command events
func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       InfoColor,
		}},
	})
}

// CreateError creates a detailed error embed with title and description
func (h *ResponseHandler) CreateError(event *handler.CommandEvent, title, description string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "❌ " + title,
			Description: fmt.Sprintf("```diff\n- %s\n```", description),
			Color:       ErrorColor,
		}},
	})
}

// UpdateInteractionResponse updates a deferred interaction response with an error
func (h *ResponseHandler) UpdateInteractionResponse(event *handler.CommandEvent, title, description string) error {
	_, err := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{
			{
				Title:       "❌ " + title,
				Description: fmt.Sprintf("```diff\n- %s\n```", description),
				Color:       ErrorColor,
			},
		},
	})
	return err
}

// CreateEphemeralError creates an ephemeral error message for component events
func (h *ResponseHandler) CreateEphemeralError(event *handler.ComponentEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: "⚠️ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

// CreateEphemeralSuccess creates an ephemeral success message for component events
func (h *ResponseHandler) CreateEphemeralSuccess(event *handler.ComponentEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: "✅ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

// HandleError provides centralized error handling for different event types
func (h *ResponseHandler) HandleError(event interface{}, message string) error {
	switch e := event.(type) {
	case *handler.CommandEvent:
		return h.CreateErrorEmbed(e, message)
	case *handler.ComponentEvent:
		return h.CreateEphemeralError(e, message)
	default:
		return fmt.Errorf("unsupported event type for error handling")
	}
}

// HandleSuccess provides centralized success handling for different event types
func (h *ResponseHandler) HandleSuccess(event interface{}, message string) error {
	switch e := event.(type) {
	case *handler.CommandEvent:
		return h.CreateSuccessEmbed(e, message)
	case *handler.ComponentEvent:
		return h.CreateEphemeralSuccess(e, message)
	default:
		return fmt.Errorf("unsupported event type for success handling")
	}
}
