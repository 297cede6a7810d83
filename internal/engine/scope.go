package engine

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mnemo-app/mnemo/internal/card"
)

// ResolveScope returns the directly-studyable items inside the scope.
//
// Container items are always excluded: only their children are
// scheduled. Named groups resolve through the group index and are
// additionally filtered against the quarantine set. Path comparisons
// are NFC-normalized so documents synced from filesystems that store
// NFD (macOS) match scopes typed in NFC.
func ResolveScope(items []card.Item, scope card.Scope, groups GroupIndex) []card.Item {
	var members map[string]bool
	if scope.Kind == card.ScopeGroup {
		members = make(map[string]bool)
		if groups != nil {
			for _, id := range groups.Members(scope.Name) {
				if !groups.Quarantined(id) {
					members[id] = true
				}
			}
		}
	}

	var (
		folder = normPath(scope.Path)
		doc    = normPath(scope.Path)
		out    []card.Item
	)
	for _, it := range items {
		if it.Kind.IsContainer() {
			continue
		}
		switch scope.Kind {
		case card.ScopeAll:
			out = append(out, it)
		case card.ScopeDocument:
			if normPath(it.Path) == doc {
				out = append(out, it)
			}
		case card.ScopeFolder:
			if underFolder(normPath(it.Path), folder) {
				out = append(out, it)
			}
		case card.ScopeGroup:
			if members[it.ID] {
				out = append(out, it)
			}
		}
	}
	return out
}

// underFolder reports whether path lies under folder. Prefix matching
// requires the separator so "math" does not capture "mathematics/x.md".
func underFolder(path, folder string) bool {
	folder = strings.TrimSuffix(folder, "/")
	return strings.HasPrefix(path, folder+"/")
}

func normPath(p string) string {
	return norm.NFC.String(p)
}
