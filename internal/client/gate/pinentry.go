package gate

import "errors"

var ErrPinMismatch = errors.New("pins do not match")

type PinStep int

const (
	StepEnter PinStep = iota
	StepConfirm
)

// PinEntry is the two-step enter/confirm exchange. A mismatch sends the
// user back to StepEnter with nothing retained.
type PinEntry struct {
	step  PinStep
	first string
}

func (p *PinEntry) Step() PinStep {
	return p.step
}

// Enter records the first PIN and moves to confirmation. validate may be nil.
func (p *PinEntry) Enter(pin string, validate func(string) error) error {
	if validate != nil {
		if err := validate(pin); err != nil {
			return err
		}
	}
	p.first = pin
	p.step = StepConfirm
	return nil
}

// Confirm returns the PIN to persist when it matches the first entry.
func (p *PinEntry) Confirm(pin string) (string, error) {
	if p.step != StepConfirm {
		return "", errors.New("no pin entered yet")
	}
	first := p.first
	p.Reset()
	if pin != first {
		return "", ErrPinMismatch
	}
	return first, nil
}

func (p *PinEntry) Reset() {
	p.first = ""
	p.step = StepEnter
}
