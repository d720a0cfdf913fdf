package promotion

import (
	"fmt"

	"imprint/internal/services"
	"imprint/internal/store"
)

// TransitionError reports a promotion request the tier state machine does
// not allow.
type TransitionError struct {
	Name string
	From store.Tier
	To   store.Tier
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("imprint %q cannot move from %s to %s", e.Name, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return services.ErrValidation
}
