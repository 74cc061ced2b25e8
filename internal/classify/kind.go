// Package classify decides how each input file is wrapped before it is
// embedded, and performs the wrapping.
//
// The set of policies is closed: Verbatim, ModuleWrap, JSONData and
// MarkupToData. Select picks one per file, once, before the file is read.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Phase is one of the three ordered input groups of a run.
type Phase int

const (
	PhaseBefore Phase = iota
	PhaseConvert
	PhaseAfter
)

// String returns the flag-style name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseBefore:
		return "before"
	case PhaseConvert:
		return "convert"
	case PhaseAfter:
		return "after"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Kind is the wrapping policy applied to one file.
type Kind int

const (
	// Verbatim stores the file text unmodified.
	Verbatim Kind = iota
	// ModuleWrap stores the text inside a self-registering module factory.
	ModuleWrap
	// JSONData stores the raw JSON text as a registry assignment.
	JSONData
	// MarkupToData converts the children of an XML root to a JSON array.
	MarkupToData
)

// Kinds lists every policy, in declaration order.
var Kinds = []Kind{Verbatim, ModuleWrap, JSONData, MarkupToData}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Verbatim:
		return "verbatim"
	case ModuleWrap:
		return "module"
	case JSONData:
		return "json"
	case MarkupToData:
		return "xml"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Select returns the policy for path in the given phase. Files of the
// before and after groups are always verbatim; files of the convert group
// are dispatched on their exact, case-sensitive suffix.
func Select(phase Phase, path string) Kind {
	if phase != PhaseConvert {
		return Verbatim
	}

	switch name := filepath.Base(path); {
	case strings.HasSuffix(name, ".xml"):
		return MarkupToData
	case strings.HasSuffix(name, ".json"):
		return JSONData
	default:
		return ModuleWrap
	}
}
