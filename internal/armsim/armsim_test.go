package armsim_test

import (
	"testing"

	"kestrel.dev/armjit/internal/armsim"
	"kestrel.dev/armjit/pkg/armcode"
)

type fakeHost struct {
	mem   map[uintptr]int32
	funcs map[uintptr]func([]int32) int32
}

func (h fakeHost) Read(addr uintptr) (int32, bool) {
	v, ok := h.mem[addr]
	return v, ok
}

func (h fakeHost) Call(addr uintptr, args []int32) (int32, bool) {
	fn, ok := h.funcs[addr]
	if !ok {
		return 0, false
	}
	return fn(args), true
}

func assemble(t *testing.T, program []armcode.Instruction) []uint32 {
	t.Helper()
	buf := armcode.NewBuffer(make([]uint32, 256))
	if err := armcode.NewCodeGenerator().Generate(program, buf); err != nil {
		t.Fatalf("Generate returned unexpected error: %v", err)
	}
	return buf.Words()
}

func TestRunArithmetic(t *testing.T) {
	// r0 = 6, r1 = 7, add/sub/mul against it, then bx lr.
	program := []armcode.Instruction{
		armcode.MovImmZero{Dst: armcode.R0},
		armcode.OrrImm{Dst: armcode.R0, Rot: 0, Imm8: 6},
		armcode.MovImmZero{Dst: armcode.R1},
		armcode.OrrImm{Dst: armcode.R1, Rot: 0, Imm8: 7},
		armcode.AddReg{Dst: armcode.R0, Src: armcode.R1},
		armcode.Bx{Rm: armcode.LR},
	}
	got, err := armsim.Run(assemble(t, program), fakeHost{})
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if got != 13 {
		t.Fatalf("Run = %d, expected 13", got)
	}
}

func TestRunLdrMissingAddress(t *testing.T) {
	program := []armcode.Instruction{
		armcode.MovImmZero{Dst: armcode.R0},
		armcode.OrrImm{Dst: armcode.R0, Rot: 0, Imm8: 1},
		armcode.Ldr{Dst: armcode.R0},
		armcode.Bx{Rm: armcode.LR},
	}
	if _, err := armsim.Run(assemble(t, program), fakeHost{mem: map[uintptr]int32{}}); err == nil {
		t.Fatal("expected an error reading an unbound address, got none")
	}
}

func TestRunUnmatchedPop(t *testing.T) {
	program := []armcode.Instruction{
		armcode.PushPop{Mask: armcode.DefaultMask, Pop: true},
		armcode.Bx{Rm: armcode.LR},
	}
	if _, err := armsim.Run(assemble(t, program), fakeHost{}); err == nil {
		t.Fatal("expected an error for an unmatched pop, got none")
	}
}

func TestRunNestedPushPopRestoresRegisters(t *testing.T) {
	program := []armcode.Instruction{
		armcode.MovImmZero{Dst: armcode.R4},
		armcode.OrrImm{Dst: armcode.R4, Rot: 0, Imm8: 9},
		armcode.PushPop{Mask: armcode.DefaultMask},
		armcode.MovImmZero{Dst: armcode.R4},
		armcode.OrrImm{Dst: armcode.R4, Rot: 0, Imm8: 99}, // clobber r4 inside the nested frame
		armcode.PushPop{Mask: armcode.DefaultMask, Pop: true},
		armcode.MovReg{Dst: armcode.R0, Src: armcode.R4}, // should read back the original 9
		armcode.Bx{Rm: armcode.LR},
	}
	got, err := armsim.Run(assemble(t, program), fakeHost{})
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if got != 9 {
		t.Fatalf("Run = %d, expected 9 (r4 restored by pop)", got)
	}
}
