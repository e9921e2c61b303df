package app

import (
	"errors"

	"github.com/waymark-app/waymark/internal/location"
)

var ErrNoLocation = errors.New("app: no location available")

// CreateReportRequest carries the submitted form fields. When Coordinates
// is nil the service resolves the position from its location provider.
type CreateReportRequest struct {
	Title       string
	Description string
	Coordinates *location.Coordinates
}
