// Package reorder re-indexes the vertices of a polygon mesh while carrying
// over the attributes that depended on the old numbering: point positions,
// split normals and their lock flags, edge smoothing and every UV set.
//
// Given a source mesh that supplies the topology, a target mesh that supplies
// the attributes and a point order (order[old] = new), Reorder builds an
// output mesh with the source topology and the target attributes remapped
// through the point order.
//
// The package talks to meshes only through the narrow capability interfaces
// declared in store.go, so each transfer step can be exercised against a
// minimal fake. Nothing is cached between calls and no call is safe to run
// concurrently against the same meshes.
package reorder
