package controllers

import (
	"net/http"

	"github.com/angelmondragon/trainingdesk-backend/api/responses"
	"github.com/angelmondragon/trainingdesk-backend/internal/assistant"
)

// AssistantSamples lists the starter prompts shown in the training chat.
func AssistantSamples() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string][]string{"samples": assistant.SampleQueries()})
	}
}
