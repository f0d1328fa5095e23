package armcode

import "github.com/pkg/errors"

// ErrBufferOverrun reports that the caller's output buffer is too small to
// hold the emitted instruction stream. The buffer may contain partially
// written words when this is returned — there is no partial-output
// guarantee, matching the "ill-formed input/undersized buffer is the
// caller's problem to avoid" posture of the reference design, made into a
// typed, non-fatal error instead of an out-of-bounds write.
type ErrBufferOverrun struct {
	NeedWords int
	HaveWords int
}

func (e *ErrBufferOverrun) Error() string {
	return errors.Errorf("buffer overrun: need at least %d words, have %d", e.NeedWords, e.HaveWords).Error()
}
