package reorder

// EdgeKey packs two vertex ids into one unordered edge key. The pair is
// sorted first, so EdgeKey(a, b) == EdgeKey(b, a).
func EdgeKey(a, b uint32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}
