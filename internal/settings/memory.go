package settings

import "context"

// Memory is an in-process settings store. It backs tests and ephemeral
// runs where nothing should touch the filesystem.
type Memory struct {
	lists map[string][]string

	// GetErr and SetErr, when set, fail the corresponding call. Used by
	// tests to exercise backend failure paths.
	GetErr error
	SetErr error
}

func NewMemory() *Memory {
	return &Memory{lists: map[string][]string{}}
}

func (m *Memory) GetList(_ context.Context, key string) ([]string, bool, error) {
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	values, ok := m.lists[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, true, nil
}

func (m *Memory) SetList(_ context.Context, key string, values []string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	stored := make([]string, len(values))
	copy(stored, values)
	m.lists[key] = stored
	return nil
}
