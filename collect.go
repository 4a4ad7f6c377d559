package plmcheck

import "sort"

// Collect concatenates violation batches, drops exact (path, message)
// duplicates keeping the first occurrence, and sorts the result by path.
// The sort is stable, so violations at the same path keep their evaluation
// order.
func Collect(batches ...[]Violation) Violations {
	n := 0
	for _, b := range batches {
		n += len(b)
	}
	out := make(Violations, 0, n)
	type key struct{ path, msg string }
	seen := make(map[key]struct{}, n)
	for _, b := range batches {
		for _, v := range b {
			k := key{v.Path.identity(), v.Message}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return ComparePaths(out[i].Path, out[j].Path) < 0 })
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
