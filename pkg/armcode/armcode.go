// Package armcode models the closed set of ARM32 (A32/ARMv7) pseudo
// instructions this compiler ever emits, and encodes them to exact 32-bit
// instruction words.
package armcode

// ----------------------------------------------------------------------------
// General information

// This section mirrors the teacher's "marker interface implemented by one
// struct per instruction kind" idiom: a shared 'Instruction' interface is
// implemented by one struct per pseudo-op the lowering pass can emit. A type
// switch in CodeGenerator.Generate disambiguates instead of a tag field.

// Instruction is implemented by every ARM pseudo-op this package can encode.
type Instruction interface{ isInstruction() }

// Reg names the eight general-purpose registers this compiler touches.
// R0-R3 are AAPCS argument/return registers; R4-R7 and LR are callee-saved
// scratch, preserved across every node by a push/pop pair.
type Reg uint8

const (
	R0 Reg = 0
	R1 Reg = 1
	R2 Reg = 2
	R3 Reg = 3
	R4 Reg = 4
	R5 Reg = 5
	R6 Reg = 6
	R7 Reg = 7
	SP Reg = 13
	LR Reg = 14
)

// CondAL is the "always" predicate; every instruction this package emits is
// unconditional and carries this nibble in its top 4 bits.
const CondAL uint32 = 0xE << 28

// ----------------------------------------------------------------------------
// Instruction kinds

// PushPop is the shared per-node prologue/epilogue: 'push {r4,r5,r6,r7,lr}'
// when Pop is false, 'pop {r4,r5,r6,r7,lr}' when Pop is true. Mask is the
// block-data-transfer register list bitmask.
type PushPop struct {
	Mask uint32
	Pop  bool
}

func (PushPop) isInstruction() {}

// DefaultMask is the register list every node's prologue/epilogue saves:
// R4, R5, R6, R7 and LR.
const DefaultMask = 1<<R4 | 1<<R5 | 1<<R6 | 1<<R7 | 1<<LR

// MovReg is a register-to-register move ('mov rd, rs').
type MovReg struct{ Dst, Src Reg }

func (MovReg) isInstruction() {}

// MovImmZero is the first word of 32-bit immediate materialisation
// ('mov rd, #0'), always followed by four OrrImm words.
type MovImmZero struct{ Dst Reg }

func (MovImmZero) isInstruction() {}

// OrrImm ORs an 8-bit immediate, rotated right by Rot*2 bits, into Dst
// ('orr rd, rd, #imm8 ROR rot'). Four of these, at rotations 16, 12, 8, 4,
// complete the materialisation a MovImmZero begins.
type OrrImm struct {
	Dst  Reg
	Rot  uint32
	Imm8 uint32
}

func (OrrImm) isInstruction() {}

// Ldr loads the word at the address held in Dst into Dst ('ldr rd, [rd]').
// The base and target register are always the same register — this
// instruction has no independent source operand, matching the emitter's
// sole call site (loading an ExternValue through the register that already
// holds its address); see SPEC_FULL.md §4.3 for why this is not a
// generalisable load helper.
type Ldr struct{ Dst Reg }

func (Ldr) isInstruction() {}

// AddReg, SubReg and MulReg perform 'dst = dst <op> src' for the three
// binary operators the expression language supports.
type (
	AddReg struct{ Dst, Src Reg }
	SubReg struct{ Dst, Src Reg }
	MulReg struct{ Dst, Src Reg }
)

func (AddReg) isInstruction() {}
func (SubReg) isInstruction() {}
func (MulReg) isInstruction() {}

// Blx branches with link and exchange to the address held in Rm, calling a
// host function.
type Blx struct{ Rm Reg }

func (Blx) isInstruction() {}

// Bx branches to the address held in Rm without linking; used only for the
// final 'bx lr' return.
type Bx struct{ Rm Reg }

func (Bx) isInstruction() {}
