// SPDX-License-Identifier: GPL-3.0-or-later

package util_test

import (
	"testing"

	"github.com/robgonnella/go-netsweep/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestSliceIncludes(t *testing.T) {
	ports := []uint16{22, 80, 443}

	t.Run("finds included value", func(st *testing.T) {
		assert.True(st, util.SliceIncludes(ports, 80))
	})

	t.Run("misses absent value", func(st *testing.T) {
		assert.False(st, util.SliceIncludes(ports, 8080))
	})

	t.Run("empty slice includes nothing", func(st *testing.T) {
		assert.False(st, util.SliceIncludes([]string{}, "eth0"))
	})
}

func TestSliceAnyEvery(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }

	t.Run("any", func(st *testing.T) {
		assert.True(st, util.SliceAny([]int{1, 3, 4}, even))
		assert.False(st, util.SliceAny([]int{1, 3, 5}, even))
		assert.False(st, util.SliceAny(nil, even))
	})

	t.Run("every", func(st *testing.T) {
		assert.True(st, util.SliceEvery([]int{2, 4, 6}, even))
		assert.False(st, util.SliceEvery([]int{2, 3, 6}, even))
		assert.True(st, util.SliceEvery(nil, even))
	})

	t.Run("works with non comparable elements", func(st *testing.T) {
		checks := []func(n int) bool{
			func(n int) bool { return n > 0 },
			func(n int) bool { return n < 10 },
		}

		assert.True(st, util.SliceEvery(checks, func(f func(n int) bool) bool { return f(5) }))
		assert.False(st, util.SliceEvery(checks, func(f func(n int) bool) bool { return f(11) }))
	})
}

func TestFilterSlice(t *testing.T) {
	t.Run("keeps matching elements in order", func(st *testing.T) {
		names := []string{"lo", "eth0", "wlan0"}

		filtered := util.FilterSlice(names, func(v string) bool {
			return v != "lo"
		})

		assert.Equal(st, []string{"eth0", "wlan0"}, filtered)
	})

	t.Run("returns empty slice when nothing matches", func(st *testing.T) {
		filtered := util.FilterSlice([]string{"lo"}, func(v string) bool {
			return false
		})

		assert.NotNil(st, filtered)
		assert.Empty(st, filtered)
	})
}
