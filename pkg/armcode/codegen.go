package armcode

import "github.com/pkg/errors"

// ----------------------------------------------------------------------------
// Output cursor

// Buffer is the output cursor: a mutable append-only view over the caller's
// writable, 32-bit-aligned instruction buffer. No raw pointer is exposed at
// this boundary — callers of this package only ever see Append/Words.
type Buffer struct {
	out []uint32
	n   int
}

// NewBuffer wraps out, the caller-owned destination for emitted words.
func NewBuffer(out []uint32) *Buffer { return &Buffer{out: out} }

// Append writes word at the cursor and advances it, reporting
// ErrBufferOverrun if out is already full.
func (b *Buffer) Append(word uint32) error {
	if b.n >= len(b.out) {
		return &ErrBufferOverrun{NeedWords: b.n + 1, HaveWords: len(b.out)}
	}
	b.out[b.n] = word
	b.n++
	return nil
}

// Len reports how many words have been written so far.
func (b *Buffer) Len() int { return b.n }

// Words returns the words written so far, as a read-only view over the
// caller's buffer.
func (b *Buffer) Words() []uint32 { return b.out[:b.n] }

// ----------------------------------------------------------------------------
// Code generator

// CodeGenerator translates a linear stream of Instruction pseudo-ops into
// their exact 32-bit ARM encodings, appending each to a Buffer in order.
//
// Each instruction's bit formula is ground-truthed against the reference
// implementation; nothing here is re-derived from the ARM reference manual
// in this pass, only ported and named.
type CodeGenerator struct{}

// NewCodeGenerator returns a ready-to-use CodeGenerator. It carries no
// state of its own — encoding a pseudo-op never depends on what came before
// it, unlike the teacher's hack.CodeGenerator, which carries a
// variable-allocation offset across A Instructions.
func NewCodeGenerator() CodeGenerator { return CodeGenerator{} }

// Generate encodes every instruction in program, in order, into buf.
func (cg CodeGenerator) Generate(program []Instruction, buf *Buffer) error {
	for _, inst := range program {
		word, err := cg.encode(inst)
		if err != nil {
			return err
		}
		if err := buf.Append(word); err != nil {
			return err
		}
	}
	return nil
}

func (cg CodeGenerator) encode(inst Instruction) (uint32, error) {
	switch i := inst.(type) {
	case PushPop:
		return cg.encodePushPop(i), nil
	case MovReg:
		return cg.encodeMovReg(i), nil
	case MovImmZero:
		return cg.encodeMovImmZero(i), nil
	case OrrImm:
		return cg.encodeOrrImm(i), nil
	case Ldr:
		return cg.encodeLdr(i), nil
	case AddReg:
		return cg.encodeAddReg(i), nil
	case SubReg:
		return cg.encodeSubReg(i), nil
	case MulReg:
		return cg.encodeMulReg(i), nil
	case Blx:
		return cg.encodeBlx(i), nil
	case Bx:
		return cg.encodeBx(i), nil
	default:
		return 0, errors.Errorf("armcode: unrecognized instruction %T", inst)
	}
}

// encodePushPop implements the block-data-transfer push/pop pair: push is
// pre-indexed decrement with write-back, pop is post-indexed increment
// load with write-back, both based on SP.
func (cg CodeGenerator) encodePushPop(i PushPop) uint32 {
	if i.Pop {
		return CondAL | 1<<27 | 1<<23 | 1<<21 | 1<<20 | uint32(SP)<<16 | i.Mask
	}
	return CondAL | 1<<27 | 1<<24 | 1<<21 | uint32(SP)<<16 | i.Mask
}

// encodeMovReg implements 'mov rd, rs': data-processing move, set-flags
// off, shifter operand is a bare register.
func (cg CodeGenerator) encodeMovReg(i MovReg) uint32 {
	return CondAL | 1<<24 | 1<<23 | 1<<21 | uint32(i.Dst)<<12 | uint32(i.Src)
}

// encodeMovImmZero implements 'mov rd, #0', the first word of the
// fixed-size five-word immediate materialisation sequence.
func (cg CodeGenerator) encodeMovImmZero(i MovImmZero) uint32 {
	return CondAL | 1<<25 | 1<<24 | 1<<23 | 1<<21 | uint32(i.Dst)<<12
}

// encodeOrrImm implements 'orr rd, rd, #imm8 ROR rot', one of the four
// byte-at-a-time immediate-materialisation words that follow a
// MovImmZero.
func (cg CodeGenerator) encodeOrrImm(i OrrImm) uint32 {
	return CondAL | 1<<25 | 1<<24 | 1<<23 | uint32(i.Dst)<<16 | uint32(i.Dst)<<12 | i.Rot<<8 | i.Imm8
}

// encodeLdr implements 'ldr rd, [rd]': single-data-transfer load, immediate
// offset 0, pre-indexed, base and target register both Dst.
func (cg CodeGenerator) encodeLdr(i Ldr) uint32 {
	return CondAL | 1<<26 | 1<<24 | 1<<23 | 1<<20 | uint32(i.Dst)<<16 | uint32(i.Dst)<<12
}

// encodeAddReg implements 'add rd, rd, rs'.
func (cg CodeGenerator) encodeAddReg(i AddReg) uint32 {
	return CondAL | 1<<23 | uint32(i.Dst)<<16 | uint32(i.Dst)<<12 | uint32(i.Src)
}

// encodeSubReg implements 'sub rd, rd, rs'.
func (cg CodeGenerator) encodeSubReg(i SubReg) uint32 {
	return CondAL | 1<<22 | uint32(i.Dst)<<16 | uint32(i.Dst)<<12 | uint32(i.Src)
}

// encodeMulReg implements 'mul rd, rs, rd': multiply form with Rd encoded
// in the high slot and Rm in the low slot, Rs (here, Dst itself) in the
// accumulator slot — 'rd = rd * rs' at the design-contract level.
func (cg CodeGenerator) encodeMulReg(i MulReg) uint32 {
	return CondAL | 1<<7 | 1<<4 | uint32(i.Dst)<<16 | uint32(i.Dst)<<8 | uint32(i.Src)
}

// encodeBlx implements 'blx rm': branch and link and exchange with a
// register operand, calling a host function.
func (cg CodeGenerator) encodeBlx(i Blx) uint32 {
	return CondAL | 1<<24 | 1<<21 | 0xFFF<<8 | 1<<5 | 1<<4 | uint32(i.Rm)
}

// encodeBx implements 'bx rm'; this compiler only ever uses it for the
// final 'bx lr' return, which evaluates to the literal word 0xE12FFF1E.
func (cg CodeGenerator) encodeBx(i Bx) uint32 {
	return CondAL | 1<<24 | 1<<21 | 0xFFF<<8 | 1<<4 | uint32(i.Rm)
}
