package codegen

// registerFamily gives the 64/32/16/8-bit names of one general-purpose
// register, selected by operand width when loading or storing a value.
type registerFamily struct {
	Q, D, W, B string
}

var families = map[string]registerFamily{
	"rax": {"rax", "eax", "ax", "al"},
	"rbx": {"rbx", "ebx", "bx", "bl"},
	"rcx": {"rcx", "ecx", "cx", "cl"},
	"rdx": {"rdx", "edx", "dx", "dl"},
	"rsi": {"rsi", "esi", "si", "sil"},
	"rdi": {"rdi", "edi", "di", "dil"},
	"r8":  {"r8", "r8d", "r8w", "r8b"},
	"r9":  {"r9", "r9d", "r9w", "r9b"},
}

// sized returns the name of reg at the given width in bytes: 8, 4, 2, or 1.
// Widths other than those four collapse to the 64-bit form.
func sized(reg string, width int) string {
	fam, ok := families[reg]
	if !ok {
		return reg
	}
	switch width {
	case 4:
		return fam.D
	case 2:
		return fam.W
	case 1:
		return fam.B
	default:
		return fam.Q
	}
}

// sizeDirective is the NASM size keyword for a memory operand of the given
// width, used on `mov [mem], reg` forms where the operand size cannot be
// inferred from a register operand alone.
func sizeDirective(width int) string {
	switch width {
	case 1:
		return "BYTE"
	case 2:
		return "WORD"
	case 4:
		return "DWORD"
	default:
		return "QWORD"
	}
}

// abiArgRegs are the System V AMD64 integer/pointer argument registers, in
// order. This core does not spill a seventh argument onto the stack; call
// sites and function declarations with more than six parameters are a
// codegen error (see Generator.compileCall and Generator.compileFunction).
var abiArgRegs = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
