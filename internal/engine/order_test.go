package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestpack/internal/model"
)

func ids(items []*model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestOrderByArea_LargestFirst(t *testing.T) {
	items := []*model.Item{
		squareItem("small", 2, 0),
		squareItem("large", 8, 1),
		squareItem("medium", 5, 2),
	}
	ordered := orderByArea(items)
	assert.Equal(t, []string{"large", "medium", "small"}, ids(ordered))
	// The input slice is left untouched.
	assert.Equal(t, []string{"small", "large", "medium"}, ids(items))
}

func TestOrderByArea_StableOnTies(t *testing.T) {
	items := []*model.Item{
		squareItem("first", 4, 0),
		squareItem("second", 4, 1),
		squareItem("third", 4, 2),
	}
	ordered := orderByArea(items)
	assert.Equal(t, []string{"first", "second", "third"}, ids(ordered))
}

func TestOrderByPerimeter(t *testing.T) {
	// The thin rectangle has the longer outline despite the smaller area.
	items := []*model.Item{
		squareItem("sq", 4, 0),
		rectItem("thin", 10, 1, 1),
	}
	ordered := orderByPerimeter(items)
	assert.Equal(t, []string{"thin", "sq"}, ids(ordered))
}

func TestOrderByDiagonal(t *testing.T) {
	// The wide rectangle's bbox diagonal beats the square's.
	items := []*model.Item{
		squareItem("sq", 5, 0),
		rectItem("wide", 9, 1, 1),
	}
	ordered := orderByDiagonal(items)
	assert.Equal(t, []string{"wide", "sq"}, ids(ordered))
}

func TestOrderByID_NaturalOrder(t *testing.T) {
	items := []*model.Item{
		squareItem("sticker10", 1, 0),
		squareItem("sticker2", 1, 1),
		squareItem("sticker1", 1, 2),
	}
	ordered := orderByID(items)
	assert.Equal(t, []string{"sticker1", "sticker2", "sticker10"}, ids(ordered))
}

func TestOrderFor_DefaultsToArea(t *testing.T) {
	items := []*model.Item{
		squareItem("small", 1, 0),
		squareItem("big", 9, 1),
	}
	ordered := orderFor(model.OrderArea)(items)
	assert.Equal(t, "big", ordered[0].ID)
}

func TestGeneticOrder_Deterministic(t *testing.T) {
	cfg := testConfig(12, 12)
	build := func() []*model.Item {
		return []*model.Item{
			squareItem("a", 6, 0),
			squareItem("b", 4, 1),
			rectItem("c", 3, 7, 2),
			squareItem("d", 2, 3),
			rectItem("e", 5, 2, 4),
		}
	}

	first := geneticOrder(build(), cfg)
	second := geneticOrder(build(), cfg)
	assert.Equal(t, ids(first), ids(second), "fixed seed must pin the order")
}

func TestGeneticOrder_IsPermutation(t *testing.T) {
	cfg := testConfig(12, 12)
	items := []*model.Item{
		squareItem("a", 6, 0),
		squareItem("b", 4, 1),
		squareItem("c", 3, 2),
	}
	ordered := geneticOrder(items, cfg)
	require.Len(t, ordered, len(items))

	seen := map[string]bool{}
	for _, it := range ordered {
		assert.False(t, seen[it.ID], "duplicate item %s", it.ID)
		seen[it.ID] = true
	}
}

func TestGeneticOrder_SingleItemPassthrough(t *testing.T) {
	cfg := testConfig(12, 12)
	items := []*model.Item{squareItem("only", 3, 0)}
	ordered := geneticOrder(items, cfg)
	require.Len(t, ordered, 1)
	assert.Equal(t, "only", ordered[0].ID)
}

func TestRun_GeneticOrderPlacesEverything(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.Order = model.OrderGenetic
	n, err := New(cfg, nil)
	require.NoError(t, err)

	items := []*model.Item{
		squareItem("a", 6, 0),
		squareItem("b", 6, 1),
		squareItem("c", 4, 2),
	}
	res, err := n.Run(items)
	require.NoError(t, err)
	assert.Equal(t, 3, res.PlacedCount)
}
