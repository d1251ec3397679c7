package parse

import (
	"strings"

	"github.com/mmyjona/cvm/errs"
)

// parseIdentifier decodes %-escaping in an identifier token: any
// character is legal in an identifier except a bare % or #, which must be
// escaped as %% or %# respectively (§6).
func parseIdentifier(tok string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch c {
		case '%':
			if i+1 >= len(tok) {
				return "", errs.ErrUnrecognizedEscape
			}
			switch tok[i+1] {
			case '%':
				b.WriteByte('%')
			case '#':
				b.WriteByte('#')
			default:
				return "", errs.ErrUnrecognizedEscape
			}
			i++
		case '#':
			return "", errs.ErrUnrecognizedEscape
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
