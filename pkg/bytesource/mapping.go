package bytesource

import (
	"fmt"
	"os"
)

// Mapping is a read-only view of a whole file. Bytes are valid until Close.
type Mapping struct {
	path   string
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// MapFile makes the whole content of the file at path available as a
// byte slice, memory-mapping it where the platform allows.
func MapFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("unable to stat '%s': %w", path, err)
	}
	if !stat.Mode().IsRegular() {
		return nil, fmt.Errorf("'%s' is not a regular file", path)
	}

	m := &Mapping{path: path}
	if stat.Size() == 0 {
		return m, nil
	}

	m.data, m.unmap, err = mapFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("unable to map '%s': %w", path, err)
	}
	return m, nil
}

func (m *Mapping) Bytes() []byte {
	return m.data
}

func (m *Mapping) Path() string {
	return m.path
}

func (m *Mapping) Cursor() *Cursor {
	return NewCursor(m.data)
}

func (m *Mapping) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil
	if m.unmap == nil || data == nil {
		return nil
	}
	if err := m.unmap(data); err != nil {
		return fmt.Errorf("unable to unmap '%s': %w", m.path, err)
	}
	return nil
}
