package cpu

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOpcode     = errors.New("invalid opcode")
	ErrMemoryOutOfBounds = errors.New("memory access out of bounds")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrROMTooLarge       = errors.New("ROM too large")
	ErrInvalidKey        = errors.New("invalid key index")
)

// Fault is a fatal interpreter condition. Kind is one of the Err* sentinels,
// so callers can match it with errors.Is.
type Fault struct {
	Kind   error
	Opcode uint16 // instruction being executed, if any
	Addr   uint16 // offending address or key index
	PC     uint16 // address of the instruction
	Size   int    // length of a rejected ROM
}

func (f *Fault) Error() string {
	switch f.Kind {
	case ErrInvalidOpcode:
		return fmt.Sprintf("%v: 0x%04X at 0x%03X", f.Kind, f.Opcode, f.PC)
	case ErrMemoryOutOfBounds:
		return fmt.Sprintf("%v: address 0x%04X (opcode 0x%04X at 0x%03X)", f.Kind, f.Addr, f.Opcode, f.PC)
	case ErrStackOverflow, ErrStackUnderflow:
		return fmt.Sprintf("%v: opcode 0x%04X at 0x%03X", f.Kind, f.Opcode, f.PC)
	case ErrROMTooLarge:
		return fmt.Sprintf("%v: %d bytes, can't cross %d", f.Kind, f.Size, maxRomSize)
	case ErrInvalidKey:
		return fmt.Sprintf("%v: %d", f.Kind, f.Addr)
	}
	return fmt.Sprintf("%v", f.Kind)
}

func (f *Fault) Unwrap() error { return f.Kind }

func outOfBounds(addr int) error {
	return &Fault{Kind: ErrMemoryOutOfBounds, Addr: uint16(addr)}
}
