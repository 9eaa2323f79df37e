package playback

import "slices"

// Move removes the element at from and reinserts it at to. Either index out
// of range leaves the list untouched. The input slice is never modified.
func Move[T any](list []T, from, to int) []T {
	out := slices.Clone(list)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) {
		return out
	}

	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

func RemoveByID[T any](list []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

// Toggle drops id from ids when present and appends it otherwise.
func Toggle(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return RemoveByID(ids, id, func(s string) string { return s })
	}
	return append(slices.Clone(ids), id)
}
