package call

import (
	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

// Pagination describes the window a list response covers. Total counts all
// rows matching the filter, not just the returned page.
type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ListCallsResponse is the paginated call listing
type ListCallsResponse struct {
	Data       []*entities.Call `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// DetailResponse is one call joined with its transcript and insight
type DetailResponse struct {
	*entities.Call
	Transcription []*entities.TranscriptTurn `json:"transcription"`
	Insight       *entities.Insight          `json:"insight"`
}

// ToolResponse is the success-shaped body every tool webhook returns, even on
// internal failure, so the AI session can narrate the outcome to the caller
type ToolResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
