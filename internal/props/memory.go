package props

// Memory is an in-memory Store for tests.
type Memory struct {
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	delete(m.values, key)
	return nil
}
