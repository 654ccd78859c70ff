package menu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTreeEmpty(t *testing.T) {
	forest, err := BuildTree(nil)
	require.NoError(t, err)
	require.NotNil(t, forest)
	require.Empty(t, forest)
}

func TestBuildTreeOrdersSiblingsBySortKey(t *testing.T) {
	forest, err := BuildTree([]Menu{
		{ID: "a", Name: "A", Code: "a", Sort: 2},
		{ID: "b", Name: "B", Code: "b", Sort: 1},
		{ID: "c", Name: "C", Code: "c", Sort: 1, ParentID: "b"},
	})
	require.NoError(t, err)
	require.Len(t, forest, 2)
	require.Equal(t, "b", forest[0].ID)
	require.Equal(t, "a", forest[1].ID)
	require.Len(t, forest[0].Children, 1)
	require.Equal(t, "c", forest[0].Children[0].ID)
	require.Equal(t, "B", forest[0].Children[0].ParentName)
	require.Empty(t, forest[1].Children)
}

func TestBuildTreeEqualSortKeepsInputOrder(t *testing.T) {
	forest, err := BuildTree([]Menu{
		{ID: "x", Code: "x", Sort: 5},
		{ID: "y", Code: "y", Sort: 5},
		{ID: "z", Code: "z", Sort: 5},
	})
	require.NoError(t, err)
	require.Len(t, forest, 3)
	require.Equal(t, "x", forest[0].ID)
	require.Equal(t, "y", forest[1].ID)
	require.Equal(t, "z", forest[2].ID)
}

func TestBuildTreePromotesOrphans(t *testing.T) {
	forest, err := BuildTree([]Menu{
		{ID: "root", Code: "root", Sort: 1},
		{ID: "lost", Code: "lost", Sort: 2, ParentID: "gone"},
	})
	require.NoError(t, err)
	require.Len(t, forest, 2)
	require.Equal(t, "root", forest[0].ID)
	require.Equal(t, "lost", forest[1].ID)
	require.Empty(t, forest[1].ParentName)
}

func TestBuildTreeAllRecordsCycleErrors(t *testing.T) {
	_, err := BuildTree([]Menu{
		{ID: "a", Code: "a", ParentID: "b"},
		{ID: "b", Code: "b", ParentID: "a"},
	})
	require.ErrorIs(t, err, ErrNoRoot)
}

func TestBuildTreeCycleBelowRootDoesNotLoop(t *testing.T) {
	forest, err := BuildTree([]Menu{
		{ID: "top", Code: "top", Sort: 1},
		{ID: "a", Code: "a", Sort: 2, ParentID: "b"},
		{ID: "b", Code: "b", Sort: 3, ParentID: "a"},
	})
	require.NoError(t, err)
	// a and b reference each other; both are unreachable from any root and
	// neither may appear twice.
	seen := map[string]int{}
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			seen[n.ID]++
			walk(n.Children)
		}
	}
	walk(forest)
	for id, count := range seen {
		require.LessOrEqual(t, count, 1, "menu %s appears more than once", id)
	}
}

func TestBuildTreeDoesNotShareNodesBetweenCalls(t *testing.T) {
	input := []Menu{
		{ID: "p", Code: "p", Sort: 1},
		{ID: "c", Code: "c", Sort: 2, ParentID: "p"},
	}
	first, err := BuildTree(input)
	require.NoError(t, err)
	second, err := BuildTree(input)
	require.NoError(t, err)

	first[0].Children[0].Name = "mutated"
	require.NotEqual(t, "mutated", second[0].Children[0].Name)
}

func TestDedupeByCodeKeepsFirst(t *testing.T) {
	out := dedupeByCode([]Menu{
		{ID: "1", Code: "dash", Name: "first"},
		{ID: "2", Code: "users", Name: "users"},
		{ID: "3", Code: "dash", Name: "second"},
	})
	require.Len(t, out, 2)
	require.Equal(t, "first", out[0].Name)
	require.Equal(t, "users", out[1].Name)
}
