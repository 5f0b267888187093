package ir

import "fmt"

// isRegister reports whether operand names a virtual register (the "%N"
// temporaries the code generator allocates), as opposed to a literal or a
// symbol name.
func isRegister(operand string) bool {
	return len(operand) > 1 && operand[0] == '%'
}

var labelOps = map[OpCode]bool{OpLabel: true}
var jumpOps = map[OpCode]int{OpUJump: 0, OpFJump: 1}

// Validate checks the well-formedness invariants spec.md calls for: every
// referenced label has exactly one LABEL definition in the same
// subroutine, and jump targets always name a label, never a register or
// literal. Grounded on the retrieved hhramberg-go-vslc compiler's
// internal/ir validation pass, which walks generated code checking
// operator/operand compatibility the same way before trusting it.
func Validate(p ProgramIR) error {
	for _, sub := range p.Subroutines {
		defined := make(map[string]int)
		for _, instr := range sub.Code {
			if instr.Op == OpLabel && len(instr.Args) == 1 {
				defined[instr.Args[0]]++
			}
		}
		for name, count := range defined {
			if count > 1 {
				return fmt.Errorf("ir: label %q defined %d times in %s", name, count, sub.Name)
			}
		}
		for _, instr := range sub.Code {
			idx, isJump := jumpOps[instr.Op]
			if !isJump {
				continue
			}
			if idx >= len(instr.Args) {
				return fmt.Errorf("ir: %s missing label operand in %s", instr.Op, sub.Name)
			}
			target := instr.Args[idx]
			if _, ok := defined[target]; !ok {
				return fmt.Errorf("ir: %s references undefined label %q in %s", instr.Op, target, sub.Name)
			}
		}
		if err := checkRegisterOrder(sub); err != nil {
			return err
		}
	}
	return nil
}

// checkRegisterOrder enforces spec.md §8's register invariant: every
// virtual register an instruction reads has a defining instruction
// earlier in the same subroutine's linear order. Local/parameter names
// and literals are exempt — they are always "defined" by the
// subroutine's own prologue.
func checkRegisterOrder(sub SubroutineIR) error {
	liveRegs := make(map[string]bool)
	for _, instr := range sub.Code {
		def, uses := registerRoles(instr)
		for _, u := range uses {
			if isRegister(u) && !liveRegs[u] {
				return fmt.Errorf("ir: %s uses register %q before it is defined in %s", instr.Op, u, sub.Name)
			}
		}
		if def != "" && isRegister(def) {
			liveRegs[def] = true
		}
	}
	return nil
}

// registerRoles reports which operand of instr (if any) is a destination
// and which operands are value sources, by opcode shape.
func registerRoles(instr Instruction) (def string, uses []string) {
	args := instr.Args
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	switch instr.Op {
	case OpILoad, OpFLoad, OpCHLoad, OpALoad:
		return arg(0), nil
	case OpLoad, OpFloat:
		return arg(0), []string{arg(1)}
	case OpLoadX:
		return arg(0), []string{arg(1), arg(2)}
	case OpXLoad:
		return "", []string{arg(0), arg(1), arg(2)}
	case OpNeg, OpFNeg, OpNot:
		return arg(0), []string{arg(1)}
	case OpAdd, OpSub, OpMul, OpDiv, OpMod,
		OpFAdd, OpFSub, OpFMul, OpFDiv,
		OpAnd, OpOr, OpEq, OpLt, OpLe, OpFEq, OpFLt, OpFLe:
		return arg(0), []string{arg(1), arg(2)}
	case OpReadI, OpReadF, OpReadC:
		return arg(0), nil
	case OpWriteI, OpWriteF, OpWriteC:
		return "", []string{arg(0)}
	case OpPush:
		if len(args) > 0 {
			return "", []string{arg(0)}
		}
		return "", nil
	case OpPop:
		if len(args) > 0 {
			return arg(0), nil
		}
		return "", nil
	case OpFJump:
		return "", []string{arg(0)}
	default:
		return "", nil
	}
}
