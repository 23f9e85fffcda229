package translator

import (
	"errors"
	"fmt"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/lookup"
)

// ErrUnclassified is returned for text that is neither English nor Chinese.
var ErrUnclassified = errors.New("text is not an English or Chinese word")

// ExhaustedError reports that the preferred provider and the fallback both
// failed. Fallback is nil when the preferred provider was machine
// translation, which has no fallback.
type ExhaustedError struct {
	Text      string
	Source    lookup.Source
	Preferred error
	Fallback  error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("lookup of %q failed: %s", e.Text, e.Reason())
}

func (e *ExhaustedError) Unwrap() []error {
	var errs []error
	if e.Preferred != nil {
		errs = append(errs, e.Preferred)
	}
	if e.Fallback != nil {
		errs = append(errs, e.Fallback)
	}
	return errs
}

// Reason is the user-facing message of the last failure.
func (e *ExhaustedError) Reason() string {
	if e.Fallback != nil {
		return apperrors.PublicMessage(e.Fallback)
	}
	return apperrors.PublicMessage(e.Preferred)
}
