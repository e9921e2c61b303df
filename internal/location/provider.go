package location

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied        = errors.New("location: permission denied")
	ErrPermissionDeniedForever = errors.New("location: permission permanently denied")
	ErrUnavailable             = errors.New("location: position unavailable")
)

// Coordinates is a geographic position as supplied by a provider.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrUnavailable, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrUnavailable, c.Longitude)
	}
	return nil
}

// Provider supplies the device's current position on demand.
type Provider interface {
	Current(ctx context.Context) (Coordinates, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Coordinates, error)

func (f ProviderFunc) Current(ctx context.Context) (Coordinates, error) {
	return f(ctx)
}

// Static always reports the same fixed position. It backs the config-file
// and flag-supplied location sources.
type Static struct {
	coords Coordinates
}

func NewStatic(latitude, longitude float64) (*Static, error) {
	coords := Coordinates{Latitude: latitude, Longitude: longitude}
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	return &Static{coords: coords}, nil
}

func (s *Static) Current(context.Context) (Coordinates, error) {
	return s.coords, nil
}

// Chain asks each provider in order and returns the first position
// obtained. Permission errors end the chain immediately; an unavailable
// position falls through to the next provider.
type Chain []Provider

func (c Chain) Current(ctx context.Context) (Coordinates, error) {
	var lastErr error
	for _, provider := range c {
		coords, err := provider.Current(ctx)
		if err == nil {
			return coords, nil
		}
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrPermissionDeniedForever) {
			return Coordinates{}, err
		}
		lastErr = err
	}
	if lastErr != nil {
		return Coordinates{}, lastErr
	}
	return Coordinates{}, ErrUnavailable
}
