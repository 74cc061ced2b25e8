package classify

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Item is one named string produced by a classifier.
type Item struct {
	Name    string
	Content string
}

// Source provides the contents of input files.
type Source interface {
	// ReadText returns the decoded text of path.
	ReadText(path string) (string, error)
	// ReadBytes returns the raw bytes of path.
	ReadBytes(path string) ([]byte, error)
}

// DataPrefix is prepended to JSON file names in their registry key. The
// host loader resolves data files relative to its module directory.
const DataPrefix = "../data/"

var moduleSuffix = regexp.MustCompile(`\.jsm?$`)

// ModuleID returns the registry key for a script file: its base name
// without a trailing .js or .jsm.
func ModuleID(path string) string {
	return moduleSuffix.ReplaceAllString(filepath.Base(path), "")
}

// WrapModule wraps script content so that, when evaluated, it registers its
// exports under id instead of running with global side effects.
func WrapModule(id, content string) string {
	return fmt.Sprintf("require.scopes[\"%s\"] = (function() {\n  let exports = {};\n%s\n  return exports;\n})();", id, content)
}

// Assign returns a registry assignment of value under key.
func Assign(key, value string) string {
	return fmt.Sprintf("require.scopes[\"%s\"] = %s;", key, value)
}

// Apply reads path through src and wraps its content according to kind.
func Apply(kind Kind, path string, src Source) ([]Item, error) {
	name := filepath.Base(path)

	switch kind {
	case Verbatim:
		text, err := src.ReadText(path)
		if err != nil {
			return nil, err
		}
		return []Item{{Name: name, Content: text}}, nil

	case ModuleWrap:
		text, err := src.ReadText(path)
		if err != nil {
			return nil, err
		}
		return []Item{{Name: name, Content: WrapModule(ModuleID(path), text)}}, nil

	case JSONData:
		text, err := src.ReadText(path)
		if err != nil {
			return nil, err
		}
		return []Item{{Name: name, Content: Assign(DataPrefix+name, text)}}, nil

	case MarkupToData:
		data, err := src.ReadBytes(path)
		if err != nil {
			return nil, err
		}
		records, err := ParseMarkup(path, data)
		if err != nil {
			return nil, err
		}
		return []Item{{Name: name, Content: Assign(name, records.JSON())}}, nil

	default:
		return nil, fmt.Errorf("classify: unknown kind %d for %s", int(kind), path)
	}
}
