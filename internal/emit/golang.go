package emit

import (
	"io"

	"github.com/conneroisu/jsconvert/internal/strtable"
	"github.com/dave/jennifer/jen"
)

// writeGo renders the table as a Go source file with the same layout as
// the C++ artifact: a byte buffer and a slice of name/content strings
// terminated by an empty sentinel.
func writeGo(w io.Writer, table *strtable.Table, opts Options) error {
	f := jen.NewFile(opts.Package)
	f.HeaderComment("Code generated by jsconvert. DO NOT EDIT.")

	f.Var().Id("buffer").Op("=").Index(jen.Op("...")).Byte().ValuesFunc(func(g *jen.Group) {
		for _, b := range table.Buffer {
			g.Lit(int(b))
		}
	})

	f.Comment(opts.ArrayName + " holds name/content pairs followed by an empty sentinel.")
	f.Var().Id(opts.ArrayName).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, v := range table.Views() {
			g.String().Call(jen.Id("buffer").Index(jen.Lit(v.Offset), jen.Lit(v.Offset+v.Length)))
		}
		g.Lit("")
	})

	return f.Render(w)
}
