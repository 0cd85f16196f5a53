package ui

import (
	"fmt"
	"io"
)

// Status line symbols.
const (
	symCheck = "✔"
	symWarn  = "!"
	symCross = "✖"
)

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, Current().Success.Render(symCheck+" "+msg)) }
func Warn(w io.Writer, msg string) { fmt.Fprintln(w, Current().Warning.Render(symWarn+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, Current().Error.Render(symCross+" "+msg)) }
