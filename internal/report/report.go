package report

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidReport   = errors.New("report: invalid report")
	ErrIndexOutOfRange = errors.New("report: index out of range")
	ErrMalformedRecord = errors.New("report: malformed record")
	ErrBackendIO       = errors.New("report: backend i/o failure")
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Report is a single incident record. Reports carry no identity of their
// own; a report is addressed by its position in the owning list, and two
// reports with identical fields are both valid entries.
type Report struct {
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
}

// New validates the field constraints and returns the constructed Report.
// Validation failures are reported as ErrInvalidReport.
func New(title, description string, latitude, longitude float64) (Report, error) {
	if title == "" {
		return Report{}, fmt.Errorf("%w: title is required", ErrInvalidReport)
	}
	if description == "" {
		return Report{}, fmt.Errorf("%w: description is required", ErrInvalidReport)
	}
	if latitude < MinLatitude || latitude > MaxLatitude {
		return Report{}, fmt.Errorf("%w: latitude %v outside [%v, %v]", ErrInvalidReport, latitude, MinLatitude, MaxLatitude)
	}
	if longitude < MinLongitude || longitude > MaxLongitude {
		return Report{}, fmt.Errorf("%w: longitude %v outside [%v, %v]", ErrInvalidReport, longitude, MinLongitude, MaxLongitude)
	}
	return Report{
		Title:       title,
		Description: description,
		Latitude:    latitude,
		Longitude:   longitude,
	}, nil
}
