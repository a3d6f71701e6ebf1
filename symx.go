package symx

import (
	"fmt"
	"log"
)

// Standard widths.
const (
	WidthBool = 1
	Width8    = 8
	Width16   = 16
	Width32   = 32
	Width64   = 64
)

// Verbose enables rule tracing through the standard logger. Tracing is
// purely observational and never affects translation results.
var Verbose bool

// logf writes a trace message if Verbose is set.
func logf(format string, args ...interface{}) {
	if Verbose {
		log.Printf(format, args...)
	}
}

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
