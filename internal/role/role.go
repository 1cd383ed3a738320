// Package role names the four physical window roles shared by the
// window set, asset manager, renderer, overlay, and config schema. It
// exists on its own so those packages can agree on the type without
// creating import cycles.
package role

// Role is one of the four physical window roles (§ GLOSSARY).
type Role string

const (
	Playfield Role = "playfield"
	Backglass Role = "backglass"
	DMD       Role = "dmd"
	Topper    Role = "topper"
)

// All is the fixed loader/render order (§4.3 step 4, §4.11).
var All = []Role{Playfield, Backglass, DMD, Topper}

// Valid reports whether s names one of the four roles.
func Valid(s string) bool {
	switch Role(s) {
	case Playfield, Backglass, DMD, Topper:
		return true
	default:
		return false
	}
}
