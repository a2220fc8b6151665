// SPDX-License-Identifier: GPL-3.0-or-later

package util

// SliceIncludes reports whether val is in s
func SliceIncludes[T comparable](s []T, val T) bool {
	return SliceAny(s, func(v T) bool { return v == val })
}

// SliceAny reports whether f is true for at least one element of s
func SliceAny[T any](s []T, f func(v T) bool) bool {
	for _, v := range s {
		if f(v) {
			return true
		}
	}

	return false
}

// SliceEvery reports whether f is true for every element of s. An empty
// slice satisfies any f.
func SliceEvery[T any](s []T, f func(v T) bool) bool {
	return !SliceAny(s, func(v T) bool { return !f(v) })
}

// FilterSlice returns a new slice holding the elements of s for which f
// is true, in their original order
func FilterSlice[T any](s []T, f func(v T) bool) []T {
	filtered := make([]T, 0, len(s))

	for _, v := range s {
		if f(v) {
			filtered = append(filtered, v)
		}
	}

	return filtered
}
