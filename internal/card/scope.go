package card

import "fmt"

// ScopeKind discriminates the four review scope shapes.
type ScopeKind int

const (
	ScopeAll      ScopeKind = iota + 1 // Whole collection.
	ScopeFolder                        // Everything under a folder prefix.
	ScopeDocument                      // A single document, exact path match.
	ScopeGroup                         // A named group resolved via the group index.
)

// Scope is an immutable filter describing which items are in play.
// Construct with one of the constructors below; the zero Scope is invalid.
type Scope struct {
	Kind ScopeKind
	Path string // Folder or document path (ScopeFolder, ScopeDocument).
	Name string // Group name (ScopeGroup).
}

// WholeCollection returns the scope matching every item.
func WholeCollection() Scope {
	return Scope{Kind: ScopeAll}
}

// FolderScope returns the scope matching items under the given folder.
func FolderScope(path string) Scope {
	return Scope{Kind: ScopeFolder, Path: path}
}

// DocumentScope returns the scope matching items in exactly one document.
func DocumentScope(path string) Scope {
	return Scope{Kind: ScopeDocument, Path: path}
}

// GroupScope returns the scope matching members of a named group.
func GroupScope(name string) Scope {
	return Scope{Kind: ScopeGroup, Name: name}
}

// Validate checks that the scope is one of the four known kinds and
// carries the field its kind requires.
func (sc Scope) Validate() error {
	switch sc.Kind {
	case ScopeAll:
		return nil
	case ScopeFolder, ScopeDocument:
		if sc.Path == "" {
			return fmt.Errorf("%w: %s scope requires a path", ErrInvalidScope, sc.Kind)
		}
		return nil
	case ScopeGroup:
		if sc.Name == "" {
			return fmt.Errorf("%w: group scope requires a name", ErrInvalidScope)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidScope, int(sc.Kind))
	}
}

// String returns a short human-readable description of the scope.
func (sc Scope) String() string {
	switch sc.Kind {
	case ScopeAll:
		return "collection"
	case ScopeFolder:
		return "folder:" + sc.Path
	case ScopeDocument:
		return "document:" + sc.Path
	case ScopeGroup:
		return "group:" + sc.Name
	default:
		return fmt.Sprintf("scope(%d)", int(sc.Kind))
	}
}

// String returns the kind name for diagnostics.
func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "collection"
	case ScopeFolder:
		return "folder"
	case ScopeDocument:
		return "document"
	case ScopeGroup:
		return "group"
	default:
		return fmt.Sprintf("scopekind(%d)", int(k))
	}
}
