// Package armsim is a minimal ARMv7 user-mode interpreter understanding
// exactly the closed instruction set pkg/armcode emits, grounded on
// db47h-ngaro's vm.Run fetch-decode-execute loop. It exists only to let
// this module's tests (and cmd/armjit's "-run" demo flag) prove that
// emitted machine code actually evaluates the expression it was compiled
// from — it is never imported by pkg/expr, pkg/lower or pkg/armcode and
// has no bearing on the compiler's contract.
package armsim

import (
	"github.com/pkg/errors"

	"kestrel.dev/armjit/pkg/armcode"
	"kestrel.dev/armjit/pkg/hostdef"
)

// Host is the minimal interface armsim needs out of a resolved host
// environment: readable memory cells and callable native functions.
type Host interface {
	Read(addr uintptr) (int32, bool)
	Call(addr uintptr, args []int32) (int32, bool)
}

// hostAdapter adapts *hostdef.Host to the Host interface above.
type hostAdapter struct{ h *hostdef.Host }

func (a hostAdapter) Read(addr uintptr) (int32, bool) {
	v, ok := a.h.Memory[addr]
	return v, ok
}

func (a hostAdapter) Call(addr uintptr, args []int32) (int32, bool) {
	fn, ok := a.h.Functions[addr]
	if !ok {
		return 0, false
	}
	return fn(args), true
}

// NewHost adapts a *hostdef.Host into the Host interface this package uses.
func NewHost(h *hostdef.Host) Host { return hostAdapter{h: h} }

// frame is a single saved push, restored by its matching pop.
type frame struct {
	regs map[armcode.Reg]uint32
}

// Run executes words from the start, honouring the push/pop, mov, orr,
// ldr, add, sub, mul, blx and bx encodings pkg/armcode produces, until it
// executes the trailing 'bx lr', and returns the final value of R0.
func Run(words []uint32, host Host) (int32, error) {
	regs := [8]uint32{}
	var frames []frame

	pc := 0
	for {
		if pc < 0 || pc >= len(words) {
			return 0, errors.Errorf("armsim: program counter %d ran off the end of a %d-word program", pc, len(words))
		}

		word := words[pc]
		if word&0xF0000000 != armcode.CondAL {
			return 0, errors.Errorf("armsim: word %d (%#08x) is not unconditional", pc, word)
		}

		switch {
		case isPushPop(word):
			mask := word & 0xFFFF
			if word&(1<<20) != 0 { // pop
				if len(frames) == 0 {
					return 0, errors.Errorf("armsim: pop at word %d with no matching push", pc)
				}
				top := frames[len(frames)-1]
				frames = frames[:len(frames)-1]
				for r, v := range top.regs {
					if r < 8 {
						regs[r] = v
					}
				}
			} else { // push
				saved := map[armcode.Reg]uint32{}
				for r := armcode.Reg(0); r < 16; r++ {
					if mask&(1<<r) == 0 {
						continue
					}
					if r < 8 {
						saved[r] = regs[r]
					} else {
						saved[r] = 0 // LR has no general-purpose value we track
					}
				}
				frames = append(frames, frame{regs: saved})
			}

		case isLdr(word):
			dst := armcode.Reg((word >> 16) & 0xF)
			v, ok := host.Read(uintptr(regs[dst]))
			if !ok {
				return 0, errors.Errorf("armsim: ldr at word %d: no value at address %#x", pc, regs[dst])
			}
			regs[dst] = uint32(v)

		case isMovImmZero(word):
			dst := armcode.Reg((word >> 12) & 0xF)
			regs[dst] = 0

		case isOrrImm(word):
			dst := armcode.Reg((word >> 16) & 0xF)
			rot := (word >> 8) & 0xF
			imm8 := word & 0xFF
			regs[dst] |= rotateRight32(imm8, rot*2)

		case isBlxBx(word):
			rm := armcode.Reg(word & 0xF)
			if word&(1<<5) == 0 { // bx, only ever the final return
				return int32(regs[armcode.R0]), nil
			}
			// blx: call the native function whose address is in rm.
			nargs := countArgRegs(words, pc)
			args := make([]int32, nargs)
			for i := 0; i < nargs; i++ {
				args[i] = int32(regs[i])
			}
			result, ok := host.Call(uintptr(regs[rm]), args)
			if !ok {
				return 0, errors.Errorf("armsim: blx at word %d: no native function at address %#x", pc, regs[rm])
			}
			regs[armcode.R0] = uint32(result)

		case isMovReg(word):
			dst := armcode.Reg((word >> 12) & 0xF)
			src := armcode.Reg(word & 0xF)
			regs[dst] = regOrZero(regs, src)

		case isAddReg(word):
			dst := armcode.Reg((word >> 16) & 0xF)
			src := armcode.Reg(word & 0xF)
			regs[dst] = regs[dst] + regOrZero(regs, src)

		case isSubReg(word):
			dst := armcode.Reg((word >> 16) & 0xF)
			src := armcode.Reg(word & 0xF)
			regs[dst] = regs[dst] - regOrZero(regs, src)

		case isMulReg(word):
			dst := armcode.Reg((word >> 16) & 0xF)
			src := armcode.Reg(word & 0xF)
			regs[dst] = regs[dst] * regOrZero(regs, src)

		default:
			return 0, errors.Errorf("armsim: word %d (%#08x) does not decode to any known instruction", pc, word)
		}

		pc++
	}
}

func regOrZero(regs [8]uint32, r armcode.Reg) uint32 {
	if r < 8 {
		return regs[r]
	}
	return 0
}

func rotateRight32(v, amount uint32) uint32 {
	amount %= 32
	if amount == 0 {
		return v
	}
	return (v >> amount) | (v << (32 - amount))
}

// countArgRegs returns how many of R0..R3 a blx call at pc was set up to
// use. The lowerer always emits, immediately before the callee address's
// five-word materialisation and its own push {lr}, one 'mov r(i), r(4+i)'
// per argument copying a staged value down into its argument register; this
// walks backward past that fixed six-word gap and counts the contiguous
// run of such copies, in whatever order they were emitted.
func countArgRegs(words []uint32, blxPC int) int {
	const gap = 1 /* push {lr} */ + 5 /* materialise */
	idx := blxPC - 1 - gap

	n := 0
	for idx >= 0 {
		w := words[idx]
		if !isMovReg(w) {
			break
		}
		dst := (w >> 12) & 0xF
		src := w & 0xF
		if dst >= 4 || src != dst+4 {
			break
		}
		n++
		idx--
	}
	return n
}

// ----------------------------------------------------------------------------
// Decoding

func isPushPop(w uint32) bool {
	return w&(1<<27) != 0 && w&(1<<21) != 0 && (w>>16)&0xF == uint32(armcode.SP)
}

func isLdr(w uint32) bool { return w&(1<<26) != 0 }

func isMovImmZero(w uint32) bool {
	return w&(1<<25) != 0 && w&(1<<24) != 0 && w&(1<<23) != 0 && w&(1<<21) != 0
}

func isOrrImm(w uint32) bool {
	return w&(1<<25) != 0 && w&(1<<24) != 0 && w&(1<<23) != 0 && w&(1<<21) == 0
}

func isBlxBx(w uint32) bool {
	return w&(1<<24) != 0 && w&(1<<21) != 0 && w&0x000FFF00 == 0x000FFF00
}

func isMovReg(w uint32) bool {
	return w&(1<<24) != 0 && w&(1<<23) != 0 && w&(1<<21) != 0 && w&0x000FFF00 != 0x000FFF00
}

func isAddReg(w uint32) bool {
	return w&(1<<23) != 0 && w&(1<<24) == 0 && w&(1<<21) == 0
}

func isSubReg(w uint32) bool {
	return w&(1<<22) != 0 && w&(1<<23) == 0 && w&(1<<24) == 0
}

func isMulReg(w uint32) bool {
	return w&(1<<7) != 0 && w&(1<<4) != 0 && w&0x0FC00000 == 0
}
