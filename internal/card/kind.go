package card

import "fmt"

// ItemKind classifies items into directly studyable leaf kinds and
// container kinds whose children alone are scheduled.
//
// A container (multi-blank cloze item, reversible pair, image occlusion
// item) must never appear in a built queue; the scope resolver drops
// containers and the sibling policy engine groups their children.
type ItemKind int

const (
	KindBasic          ItemKind = iota + 1 // Leaf: plain question/answer.
	KindReversible                         // Container: forward + reverse pair.
	KindReversibleSide                     // Leaf: one direction of a reversible item.
	KindCloze                              // Container: multi-blank fill-in item.
	KindClozeBlank                         // Leaf: a single blank of a cloze item.
	KindOcclusion                          // Container: image with several masks.
	KindOcclusionMask                      // Leaf: a single mask of an occlusion item.
	KindChoice                             // Leaf: multiple choice, options shuffled per session.
)

var kindNames = [...]string{
	KindBasic:          "basic",
	KindReversible:     "reversible",
	KindReversibleSide: "reversible-side",
	KindCloze:          "cloze",
	KindClozeBlank:     "cloze-blank",
	KindOcclusion:      "occlusion",
	KindOcclusionMask:  "occlusion-mask",
	KindChoice:         "choice",
}

// IsContainer reports whether k is a container kind (never studyable itself).
func (k ItemKind) IsContainer() bool {
	return k == KindReversible || k == KindCloze || k == KindOcclusion
}

// Revealable reports whether items of kind k present a hidden answer
// that the user reveals before grading. Only revealable items may be
// skipped within a session.
func (k ItemKind) Revealable() bool {
	switch k {
	case KindBasic, KindReversibleSide, KindClozeBlank, KindOcclusionMask:
		return true
	}
	return false
}

// String returns the kind name, or "kind(n)" for unknown values.
func (k ItemKind) String() string {
	if k >= KindBasic && k <= KindChoice {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
