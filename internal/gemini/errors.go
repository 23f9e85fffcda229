package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/oukeidos/wordlens/internal/apperrors"
)

// classifyError maps a genai failure onto the provider error kinds. HTTP
// statuses follow the same table as the REST providers, except that 404 means
// an unknown model rather than a missing entry.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("gemini generate content: %w", err)

	var gerr *googleapi.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.New(apperrors.KindTransient, "Gemini request cancelled or timed out.", wrapped)
	case errors.As(err, &gerr) && gerr.Code == http.StatusNotFound:
		return apperrors.New(apperrors.KindBadRequest, "Gemini model not found or no access (404).", wrapped)
	case errors.As(err, &gerr):
		return apperrors.FromStatus("Gemini", gerr.Code, wrapped)
	}
	return apperrors.New(apperrors.KindTransient, "Gemini is unreachable.", wrapped)
}
