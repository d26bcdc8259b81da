package polymesh

import "fmt"

// uvSet stores UV coordinates and the UV id assigned to every face-corner
// (-1 when the corner is unassigned).
type uvSet struct {
	name string
	u, v []float64
	ids  []int
}

func newUVSet(name string, numCorners int) *uvSet {
	s := &uvSet{name: name, ids: make([]int, numCorners)}
	s.clearAssignments()
	return s
}

func (s *uvSet) clearAssignments() {
	for i := range s.ids {
		s.ids[i] = -1
	}
}

func (s *uvSet) clone() *uvSet {
	return &uvSet{
		name: s.name,
		u:    append([]float64(nil), s.u...),
		v:    append([]float64(nil), s.v...),
		ids:  append([]int(nil), s.ids...),
	}
}

func (m *Mesh) uvSet(name string) (*uvSet, error) {
	for _, s := range m.uvSets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownUVSet, name)
}

// UVSetNames returns the UV set names in creation order.
func (m *Mesh) UVSetNames() []string {
	names := make([]string, len(m.uvSets))
	for i, s := range m.uvSets {
		names[i] = s.name
	}
	return names
}

// HasUVSet reports whether a UV set with the given name exists.
func (m *Mesh) HasUVSet(name string) bool {
	_, err := m.uvSet(name)
	return err == nil
}

// CreateUVSet adds an empty UV set.
func (m *Mesh) CreateUVSet(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty set name", ErrInvalidUVs)
	}
	if m.HasUVSet(name) {
		return fmt.Errorf("%w: %q", ErrUVSetExists, name)
	}
	m.uvSets = append(m.uvSets, newUVSet(name, len(m.connects)))
	return nil
}

// ClearUVs removes every coordinate and corner assignment of a set.
func (m *Mesh) ClearUVs(set string) error {
	s, err := m.uvSet(set)
	if err != nil {
		return err
	}
	s.u, s.v = nil, nil
	s.clearAssignments()
	return nil
}

// UVs returns copies of the coordinates of a set.
func (m *Mesh) UVs(set string) (u, v []float64, err error) {
	s, err := m.uvSet(set)
	if err != nil {
		return nil, nil, err
	}
	return append([]float64(nil), s.u...), append([]float64(nil), s.v...), nil
}

// SetUVs replaces the coordinates of a set. Existing assignments must stay
// within the new coordinate count.
func (m *Mesh) SetUVs(u, v []float64, set string) error {
	s, err := m.uvSet(set)
	if err != nil {
		return err
	}
	if len(u) != len(v) {
		return fmt.Errorf("%w: %d u values, %d v values", ErrInvalidUVs, len(u), len(v))
	}
	for c, id := range s.ids {
		if id >= len(u) {
			return fmt.Errorf("%w: corner %d references uv %d of %d", ErrInvalidUVs, c, id, len(u))
		}
	}
	s.u = append([]float64(nil), u...)
	s.v = append([]float64(nil), v...)
	return nil
}

// NumUVs returns the number of coordinates in a set, or 0 for unknown sets.
func (m *Mesh) NumUVs(set string) int {
	s, err := m.uvSet(set)
	if err != nil {
		return 0
	}
	return len(s.u)
}

// AssignedUVs returns, per face, the number of assigned corners (0 when any
// corner of the face is unassigned) and the flattened UV ids of mapped faces.
func (m *Mesh) AssignedUVs(set string) (counts, ids []int, err error) {
	s, err := m.uvSet(set)
	if err != nil {
		return nil, nil, err
	}
	counts = make([]int, len(m.counts))
	ids = make([]int, 0, len(s.ids))
	for f, n := range m.counts {
		off := m.offsets[f]
		face := s.ids[off : off+n]
		if !allAssigned(face) {
			continue
		}
		counts[f] = n
		ids = append(ids, face...)
	}
	return counts, ids, nil
}

func allAssigned(ids []int) bool {
	for _, id := range ids {
		if id < 0 {
			return false
		}
	}
	return true
}

// AssignUVs assigns UV ids to face-corners. counts holds, per face, 0 for an
// unmapped face or the face's corner count; ids holds the mapped corners in order.
func (m *Mesh) AssignUVs(counts, ids []int, set string) error {
	s, err := m.uvSet(set)
	if err != nil {
		return err
	}
	if len(counts) != len(m.counts) {
		return fmt.Errorf("%w: %d uv counts for %d faces", ErrInvalidUVs, len(counts), len(m.counts))
	}
	total := 0
	for f, n := range counts {
		if n != 0 && n != m.counts[f] {
			return fmt.Errorf("%w: face %d has %d corners, got %d uvs", ErrInvalidUVs, f, m.counts[f], n)
		}
		total += n
	}
	if total != len(ids) {
		return fmt.Errorf("%w: uv counts sum to %d, got %d ids", ErrInvalidUVs, total, len(ids))
	}
	for i, id := range ids {
		if id < 0 || id >= len(s.u) {
			return fmt.Errorf("%w: uv id %d at %d out of %d", ErrInvalidUVs, id, i, len(s.u))
		}
	}

	next := 0
	for f, n := range counts {
		off := m.offsets[f]
		for k := 0; k < m.counts[f]; k++ {
			if n == 0 {
				s.ids[off+k] = -1
				continue
			}
			s.ids[off+k] = ids[next]
			next++
		}
	}
	return nil
}

// SetCornerUV assigns a single UV id to a face-corner; -1 unassigns it.
func (m *Mesh) SetCornerUV(set string, corner, id int) error {
	s, err := m.uvSet(set)
	if err != nil {
		return err
	}
	if corner < 0 || corner >= len(s.ids) {
		return fmt.Errorf("%w: corner %d", ErrIndexOutOfRange, corner)
	}
	if id < -1 || id >= len(s.u) {
		return fmt.Errorf("%w: uv id %d out of %d", ErrInvalidUVs, id, len(s.u))
	}
	s.ids[corner] = id
	return nil
}

// CornerUV returns the UV id assigned to a face-corner, or -1.
func (m *Mesh) CornerUV(set string, corner int) (int, error) {
	s, err := m.uvSet(set)
	if err != nil {
		return -1, err
	}
	if corner < 0 || corner >= len(s.ids) {
		return -1, fmt.Errorf("%w: corner %d", ErrIndexOutOfRange, corner)
	}
	return s.ids[corner], nil
}
