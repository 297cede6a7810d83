package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/testutil"
)

func leaf(id, path string) card.Item {
	return card.Item{ID: id, Kind: card.KindBasic, Path: path}
}

func ids(items []card.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestResolveScope_WholeCollection(t *testing.T) {
	items := []card.Item{
		leaf("a", "math/algebra.md"),
		leaf("b", "history/rome.md"),
		{ID: "c", Kind: card.KindCloze, Path: "math/algebra.md"},
		{ID: "c1", Kind: card.KindClozeBlank, ParentID: "c", Path: "math/algebra.md"},
	}

	got := ResolveScope(items, card.WholeCollection(), nil)

	// Containers never resolve, even in the widest scope.
	assert.Equal(t, []string{"a", "b", "c1"}, ids(got))
}

func TestResolveScope_Folder(t *testing.T) {
	items := []card.Item{
		leaf("a", "math/algebra.md"),
		leaf("b", "math/geometry/angles.md"),
		leaf("c", "mathematics/sets.md"),
		leaf("d", "history/rome.md"),
	}

	got := ResolveScope(items, card.FolderScope("math"), nil)

	// "mathematics/" must not match the "math" folder prefix.
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestResolveScope_FolderTrailingSlash(t *testing.T) {
	items := []card.Item{leaf("a", "math/algebra.md")}

	assert.Equal(t, []string{"a"}, ids(ResolveScope(items, card.FolderScope("math/"), nil)))
}

func TestResolveScope_Document(t *testing.T) {
	items := []card.Item{
		leaf("a", "math/algebra.md"),
		leaf("b", "math/algebra.md"),
		leaf("c", "math/geometry.md"),
	}

	got := ResolveScope(items, card.DocumentScope("math/algebra.md"), nil)

	assert.Equal(t, []string{"a", "b"}, ids(got))
}

// TestResolveScope_UnicodeNormalization checks that NFD paths (as macOS
// filesystems report them) match NFC scopes and vice versa.
func TestResolveScope_UnicodeNormalization(t *testing.T) {
	const (
		nfc = "café/notes.md"  // café, precomposed.
		nfd = "café/notes.md" // café, combining accent.
	)
	items := []card.Item{leaf("a", nfd)}

	assert.Equal(t, []string{"a"}, ids(ResolveScope(items, card.FolderScope("café"), nil)))
	assert.Equal(t, []string{"a"}, ids(ResolveScope(items, card.DocumentScope(nfc), nil)))
}

func TestResolveScope_Group(t *testing.T) {
	ms := testutil.NewMemStore()
	ms.GroupMembers["leeches"] = []string{"a", "b", "q"}
	ms.Quarantine["q"] = true

	items := []card.Item{
		leaf("a", "x.md"),
		leaf("b", "y.md"),
		leaf("q", "z.md"),
		leaf("other", "w.md"),
	}

	got := ResolveScope(items, card.GroupScope("leeches"), ms)

	// Quarantined members and non-members both drop out.
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestResolveScope_GroupUnknown(t *testing.T) {
	ms := testutil.NewMemStore()
	items := []card.Item{leaf("a", "x.md")}

	assert.Empty(t, ResolveScope(items, card.GroupScope("nope"), ms))
}

func TestResolveScope_GroupNilIndex(t *testing.T) {
	items := []card.Item{leaf("a", "x.md")}

	assert.Empty(t, ResolveScope(items, card.GroupScope("g"), nil))
}
