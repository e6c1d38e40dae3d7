package treemovie

// Keyed diffing. Given the element keys of two frames, classify every key as
// entering (new in the target), updating (present in both), or exiting (gone
// from the target). Linear time, no ordering requirements on the inputs.

// Diff is the classification of keys between two populations.
type Diff struct {
	Enter  []string
	Update []string
	Exit   []string
}

// DiffKeys classifies the keys of a source and target population.
func DiffKeys(from, to []string) Diff {
	fromSet := make(map[string]struct{}, len(from))
	for _, k := range from {
		fromSet[k] = struct{}{}
	}
	toSet := make(map[string]struct{}, len(to))
	for _, k := range to {
		toSet[k] = struct{}{}
	}

	var d Diff
	for _, k := range to {
		if _, ok := fromSet[k]; ok {
			d.Update = append(d.Update, k)
		} else {
			d.Enter = append(d.Enter, k)
		}
	}
	for _, k := range from {
		if _, ok := toSet[k]; !ok {
			d.Exit = append(d.Exit, k)
		}
	}
	return d
}

// UnionKeys returns the union of both key populations, target keys first,
// then keys only present in the source. Used by the scrub path, which renders
// every element of either frame.
func UnionKeys(from, to []string) []string {
	seen := make(map[string]struct{}, len(from)+len(to))
	union := make([]string, 0, len(from)+len(to))
	for _, k := range to {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			union = append(union, k)
		}
	}
	for _, k := range from {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			union = append(union, k)
		}
	}
	return union
}
