package report

import (
	"encoding/json"
	"fmt"
)

const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldLatitude    = "latitude"
	fieldLongitude   = "longitude"
)

// EncodeFields flattens a Report into its field map: exactly the four keys
// title, description, latitude and longitude, with the coordinates kept
// numeric rather than pre-stringified.
func EncodeFields(r Report) map[string]any {
	return map[string]any{
		fieldTitle:       r.Title,
		fieldDescription: r.Description,
		fieldLatitude:    r.Latitude,
		fieldLongitude:   r.Longitude,
	}
}

// DecodeFields rebuilds a Report from a field map. A missing or mistyped
// key fails with ErrMalformedRecord; no partial Report is ever returned.
func DecodeFields(fields map[string]any) (Report, error) {
	title, err := stringField(fields, fieldTitle)
	if err != nil {
		return Report{}, err
	}
	description, err := stringField(fields, fieldDescription)
	if err != nil {
		return Report{}, err
	}
	latitude, err := floatField(fields, fieldLatitude)
	if err != nil {
		return Report{}, err
	}
	longitude, err := floatField(fields, fieldLongitude)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Title:       title,
		Description: description,
		Latitude:    latitude,
		Longitude:   longitude,
	}, nil
}

// EncodeToken serializes a Report into one self-delimiting string suitable
// for storage in a flat list. The token is the JSON object form of
// EncodeFields, so embedded quotes and commas in the text fields need no
// extra escaping here.
func EncodeToken(r Report) (string, error) {
	raw, err := json.Marshal(EncodeFields(r))
	if err != nil {
		return "", fmt.Errorf("encode report token: %w", err)
	}
	return string(raw), nil
}

// DecodeToken parses a token produced by EncodeToken. Invalid JSON, a
// non-object payload, or missing/mistyped keys all fail with
// ErrMalformedRecord.
func DecodeToken(token string) (Report, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(token), &fields); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return DecodeFields(fields)
}

func stringField(fields map[string]any, key string) (string, error) {
	value, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedRecord, key)
	}
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not text", ErrMalformedRecord, key)
	}
	return text, nil
}

func floatField(fields map[string]any, key string) (float64, error) {
	value, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing field %q", ErrMalformedRecord, key)
	}
	switch typed := value.(type) {
	case float64:
		return typed, nil
	case int:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: field %q is not numeric", ErrMalformedRecord, key)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: field %q is not numeric", ErrMalformedRecord, key)
	}
}
