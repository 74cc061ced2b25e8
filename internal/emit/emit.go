// Package emit renders a finalized string table as generated source code
// and writes it to disk.
package emit

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/conneroisu/jsconvert/internal/errors"
	"github.com/conneroisu/jsconvert/internal/strtable"
	"github.com/google/renameio/v2"
)

// Target is the language of the generated artifact.
type Target string

const (
	TargetCPP Target = "cpp"
	TargetGo  Target = "go"
)

// Targets lists the supported targets.
var Targets = []Target{TargetCPP, TargetGo}

const (
	DefaultArrayName = "jsSources"
	DefaultPackage   = "jssources"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options controls how a table is rendered.
type Options struct {
	ArrayName string
	Target    Target
	Package   string
}

// DefaultOptions returns the options producing the C++ jsSources table.
func DefaultOptions() Options {
	return Options{
		ArrayName: DefaultArrayName,
		Target:    TargetCPP,
		Package:   DefaultPackage,
	}
}

// Validate checks that the options can produce a compilable artifact.
func (o Options) Validate() error {
	if !identifier.MatchString(o.ArrayName) {
		return fmt.Errorf("array name %q is not a valid identifier", o.ArrayName)
	}
	switch o.Target {
	case TargetCPP:
	case TargetGo:
		if !identifier.MatchString(o.Package) {
			return fmt.Errorf("package name %q is not a valid identifier", o.Package)
		}
	default:
		return fmt.Errorf("unknown target %q (supported: cpp, go)", o.Target)
	}
	return nil
}

// Render returns the artifact for table.
func Render(table *strtable.Table, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch opts.Target {
	case TargetGo:
		if err := writeGo(&buf, table, opts); err != nil {
			return nil, err
		}
	default:
		writeCPP(&buf, table, opts.ArrayName)
	}
	return buf.Bytes(), nil
}

// Write renders table to w.
func Write(w io.Writer, table *strtable.Table, opts Options) error {
	data, err := Render(table, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile renders table and replaces path with the result. The file is
// written to a temporary name and renamed into place, so a failed run never
// leaves a partial artifact behind.
func WriteFile(path string, table *strtable.Table, opts Options) error {
	data, err := Render(table, opts)
	if err != nil {
		return errors.NewOutputError(path, err)
	}
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return errors.NewOutputError(path, err)
	}
	return nil
}

// writeCPP renders the C++ translation unit. The layout is consumed by
// existing host builds and must not change.
func writeCPP(w *bytes.Buffer, table *strtable.Table, arrayName string) {
	w.WriteString("#include <string>\n")
	w.WriteString("namespace\n")
	w.WriteString("{\n")
	w.WriteString("  const char buffer[] = {")
	num := make([]byte, 0, 4)
	for i, b := range table.Buffer {
		if i > 0 {
			w.WriteString(", ")
		}
		num = strconv.AppendInt(num[:0], int64(b), 10)
		w.Write(num)
	}
	w.WriteString("};\n")
	w.WriteString("}\n")

	fmt.Fprintf(w, "std::string %s[] = {", arrayName)
	for _, v := range table.Views() {
		fmt.Fprintf(w, "std::string(buffer + %d, %d), ", v.Offset, v.Length)
	}
	w.WriteString("std::string()};\n")
}
