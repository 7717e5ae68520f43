// Package notifier delivers reminder notifications to the user's chat.
package notifier

import (
	"context"
	"errors"

	"github.com/oskaros/reminder-engine/internal/domain"
)

// ErrDeliveryFailed marks a send the channel did not confirm.
var ErrDeliveryFailed = errors.New("delivery failed")

// Notifier sends one message to one user. A non-nil error means delivery was
// not confirmed; the dispatcher will retry on a later tick.
type Notifier interface {
	Send(ctx context.Context, userID domain.UserID, message string) error
}
