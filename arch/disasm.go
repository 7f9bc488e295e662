package arch

import (
	"fmt"
	"strings"
)

// Disassemble returns the textual form of the instruction at the start of p
// along with its size in bytes. Missing operand bytes are shown as zero.
func Disassemble(p []byte) (string, int) {
	if len(p) == 0 {
		return "", 0
	}

	info := Lookup(p[0])
	size := info.Size()

	var operand [2]byte
	copy(operand[:], p[1:])

	var sb strings.Builder
	sb.Grow(20)
	fmt.Fprintf(&sb, "%-5s", info.Name)

	if len(info.Args) > 0 {
		sb.WriteString(" " + info.Args)
	}

	if info.Operand != None {
		if len(info.Args) > 0 {
			sb.WriteByte(',')
		} else {
			sb.WriteByte(' ')
		}

		switch info.Operand {
		case Data8, Port:
			fmt.Fprintf(&sb, "#$%02x", operand[0])
		case Data16:
			fmt.Fprintf(&sb, "#$%02x%02x", operand[1], operand[0])
		case Address:
			fmt.Fprintf(&sb, "$%02x%02x", operand[1], operand[0])
		}
	}

	return strings.TrimRight(sb.String(), " "), size
}

// Listing disassembles len(p) bytes starting at the given address and
// returns one line per instruction.
func Listing(p []byte, addr int) []string {
	var out []string
	for len(p) > 0 {
		text, size := Disassemble(p)
		if size > len(p) {
			size = len(p)
		}
		out = append(out, fmt.Sprintf("%04x  % -8x  %s", addr, p[:size], text))
		p = p[size:]
		addr += size
	}
	return out
}
