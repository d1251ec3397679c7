package compiler

import (
	"io"
	"os"
)

// debugWriter is where db_opreg writes its register dump. It defaults to
// stdout so program output matches SPEC_FULL.md §8's scenarios exactly;
// tests redirect it via SetOutput to capture that output.
var debugWriter io.Writer = os.Stdout

// SetOutput redirects db_opreg's output, for embedding CVM or for tests
// that need to capture its stdout without touching the process's real
// stdout.
func SetOutput(w io.Writer) {
	debugWriter = w
}
