package inspect

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"hpackcodec/internal/header"
)

var (
	indexColor = color.New(color.FgCyan)
	tagColor   = color.New(color.FgGreen)
	keyColor   = color.New(color.FgBlue)
	valueColor = color.New()
)

// Dump pretty-prints decoded header fields with how each one arrived
// on the wire.
func Dump(w io.Writer, headers []header.Decoded) {
	if len(headers) == 0 {
		keyColor.Fprintf(w, "    {empty}\n")
		return
	}
	for _, h := range headers {
		switch {
		case h.Complete:
			tagColor.Fprintf(w, "  [indexed] ")
			indexColor.Fprintf(w, "(%v) ", h.StaticIndex)
		case h.StaticIndex != 0:
			tagColor.Fprintf(w, "  [indexed name] ")
			indexColor.Fprintf(w, "(%v) ", h.StaticIndex)
		case h.DynamicIndex != 0:
			tagColor.Fprintf(w, "  [dynamic] ")
			indexColor.Fprintf(w, "(%v) ", h.DynamicIndex)
		default:
			tagColor.Fprintf(w, "  [literal] ")
		}
		keyColor.Fprintf(w, "%v:", h.Name)
		valueColor.Fprintf(w, " %v\n", h.Value)
	}
	fmt.Fprintln(w)
}
