package ir

import (
	"fmt"
	"strings"
)

// Serialize renders p as the plain-text three-address listing: one
// subroutine header per function, one instruction per line, grounded on
// the teacher's internal/bytecode disassembler — except text, not a
// binary chunk dump, since this core's IR is the textual format itself
// rather than a serialized byte chunk.
func Serialize(p ProgramIR) string {
	var b strings.Builder
	for i, sub := range p.Subroutines {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeSubroutine(&b, sub)
	}
	return b.String()
}

func writeSubroutine(b *strings.Builder, sub SubroutineIR) {
	fmt.Fprintf(b, "SUBROUTINE %s(%s)\n", sub.Name, formatParams(sub.Params))
	for _, l := range sub.Locals {
		if l.Count > 1 {
			fmt.Fprintf(b, "  LOCAL %s: array[%d] of %s\n", l.Name, l.Count, l.Type)
		} else {
			fmt.Fprintf(b, "  LOCAL %s: %s\n", l.Name, l.Type)
		}
	}
	for _, instr := range sub.Code {
		b.WriteString("  ")
		b.WriteString(formatInstruction(instr))
		b.WriteByte('\n')
	}
}

func formatParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.ByRef {
			parts[i] = fmt.Sprintf("%s: %s&", p.Name, p.Type)
		} else {
			parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
		}
	}
	return strings.Join(parts, ", ")
}

func formatInstruction(instr Instruction) string {
	if len(instr.Args) == 0 {
		return string(instr.Op)
	}
	return string(instr.Op) + " " + strings.Join(instr.Args, ",")
}
