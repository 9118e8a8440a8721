package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	catalog := []string{"Hospitals", "Fire Stations", "Levees"}

	t.Run("misspelled query", func(t *testing.T) {
		assert.Equal(t, []string{"Hospitals"}, Suggest("hsptl", catalog, 3))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, []string{"Levees"}, Suggest("LVS", catalog, 3))
	})

	t.Run("limit applies", func(t *testing.T) {
		got := Suggest("s", catalog, 1)
		assert.Len(t, got, 1)
	})

	t.Run("empty query", func(t *testing.T) {
		got := Suggest("  ", catalog, 3)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("no names", func(t *testing.T) {
		assert.Empty(t, Suggest("hospital", nil, 3))
	})

	t.Run("nothing close", func(t *testing.T) {
		assert.Empty(t, Suggest("zzz", catalog, 3))
	})
}
