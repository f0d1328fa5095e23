// Package verify checks the structural invariants spec.md §8 promises of
// any emitted instruction stream: every word carries the unconditional
// predicate, and every per-node push is matched by a same-mask pop in a
// properly nested sequence.
package verify

import (
	"github.com/pkg/errors"

	"kestrel.dev/armjit/internal/collections"
	"kestrel.dev/armjit/pkg/armcode"
)

// AllUnconditional reports whether every word in words carries the
// unconditional (AL) condition code in its top nibble.
func AllUnconditional(words []uint32) error {
	for i, w := range words {
		if w&0xF0000000 != armcode.CondAL {
			return errors.Errorf("verify: word %d (%#08x) is not unconditional", i, w)
		}
	}
	return nil
}

// PushPopBalance walks words and confirms that every 'push {mask}' is
// matched, in proper LIFO nesting, by a 'pop' of the identical mask —
// spec.md §8's "post-order traversal of the emitted code consists of
// matched push/pop pairs in perfect balance" invariant.
func PushPopBalance(words []uint32) error {
	stack := collections.NewStack[uint32]()

	for i, w := range words {
		mask, isPop, ok := decodePushPop(w)
		if !ok {
			continue
		}

		if !isPop {
			stack.Push(mask)
			continue
		}

		top, err := stack.Pop()
		if err != nil {
			return errors.Errorf("verify: unmatched pop at word %d", i)
		}
		if top != mask {
			return errors.Errorf("verify: pop at word %d has mask %#x, expected %#x", i, mask, top)
		}
	}

	if stack.Count() != 0 {
		return errors.Errorf("verify: %d unmatched push(es) remain at end of stream", stack.Count())
	}
	return nil
}

// decodePushPop reports whether w is a push or pop of SP with the given
// register-list mask, mirroring armcode.CodeGenerator's push/pop encoding.
func decodePushPop(w uint32) (mask uint32, isPop bool, ok bool) {
	const spBase = uint32(armcode.SP) << 16
	if w&0xF0000000 != armcode.CondAL {
		return 0, false, false
	}
	if w&(1<<27) == 0 || w&(1<<21) == 0 || w&0x000F0000 != spBase {
		return 0, false, false
	}
	isPop = w&(1<<20) != 0
	return w & 0xFFFF, isPop, true
}
