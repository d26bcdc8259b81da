package polymesh

import "fmt"

// NumEdges returns the number of undirected edges.
func (m *Mesh) NumEdges() int {
	return len(m.edges)
}

// EdgeVertices returns the endpoints of an edge.
func (m *Mesh) EdgeVertices(edge int) (v0, v1 int, err error) {
	if edge < 0 || edge >= len(m.edges) {
		return 0, 0, fmt.Errorf("%w: edge %d", ErrIndexOutOfRange, edge)
	}
	e := m.edges[edge]
	return e.V0, e.V1, nil
}

// IsEdgeSmooth reports whether an edge is smooth (true) or hard (false).
func (m *Mesh) IsEdgeSmooth(edge int) (bool, error) {
	if edge < 0 || edge >= len(m.edges) {
		return false, fmt.Errorf("%w: edge %d", ErrIndexOutOfRange, edge)
	}
	return m.edges[edge].Smooth, nil
}

// SetEdgeSmooth sets the smoothing flag of an edge.
func (m *Mesh) SetEdgeSmooth(edge int, smooth bool) error {
	if edge < 0 || edge >= len(m.edges) {
		return fmt.Errorf("%w: edge %d", ErrIndexOutOfRange, edge)
	}
	m.edges[edge].Smooth = smooth
	return nil
}

// FindEdge returns the index of the edge between a and b, in either order.
func (m *Mesh) FindEdge(a, b int) (int, bool) {
	idx, ok := m.edgeIndex[edgeKey(a, b)]
	return idx, ok
}

// HardEdgeCount returns the number of edges that are not smooth.
func (m *Mesh) HardEdgeCount() int {
	n := 0
	for _, e := range m.edges {
		if !e.Smooth {
			n++
		}
	}
	return n
}
