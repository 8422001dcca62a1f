package cpu

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	MemorySize    = 4096
	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16
	ScreenWidth   = 64
	ScreenHeight  = 32

	ProgramStart = 0x200
	maxRomSize   = MemorySize - ProgramStart

	fontSize  = 80
	glyphSize = 5
	flag      = 0xF
)

var FontSet = [fontSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Framebuffer is the 64x32 monochrome display, row-major.
type Framebuffer [ScreenWidth * ScreenHeight]bool

// At reports whether the pixel at column x, row y is lit.
func (fb *Framebuffer) At(x, y int) bool {
	return fb[y*ScreenWidth+x]
}

// Status reports what a single Step did.
type Status int

const (
	Executed Status = iota
	// WaitingForKey means FX0A found no key held; PC still points at it.
	WaitingForKey
)

func (s Status) String() string {
	switch s {
	case Executed:
		return "executed"
	case WaitingForKey:
		return "waiting for key"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type EMU struct {
	opcode       uint16
	memory       [MemorySize]uint8
	V            [RegisterCount]uint8
	I            uint16 //address register
	pc           uint16
	display      Framebuffer
	delayTimer   uint8 //counts down at 60Hz
	soundTimer   uint8 //same as above
	stack        [StackSize]uint16
	sp           uint16
	keyState     [KeyCount]bool //tells whether key is pressed or not
	updateScreen bool           //to draw or not

	wrapYByWidth bool
	rng          *rand.Rand
	logger       *log.Logger
}

// Option configures an EMU at construction.
type Option func(*EMU)

// WithLogger sets the logger used for opcode tracing.
func WithLogger(logger *log.Logger) Option {
	return func(emu *EMU) { emu.logger = logger }
}

// WithRand sets the source used by CXNN.
func WithRand(r *rand.Rand) Option {
	return func(emu *EMU) { emu.rng = r }
}

// WithVerticalWidthWrap makes DXYN wrap the Y coordinate modulo the screen
// width instead of its height, as some early interpreters did.
func WithVerticalWidthWrap() Option {
	return func(emu *EMU) { emu.wrapYByWidth = true }
}

// NewEMU returns a reset machine with the font set installed and PC at 0x200.
func NewEMU(opts ...Option) *EMU {
	emu := &EMU{}
	for _, opt := range opts {
		opt(emu)
	}
	if emu.rng == nil {
		emu.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if emu.logger == nil {
		emu.logger = log.NewNop()
	}
	emu.Reset()
	return emu
}

// Reset zeroes registers, stack, keys, screen and timers, reinstalls the
// font set and points PC at the program start. Program memory is kept.
func (emu *EMU) Reset() {
	emu.opcode = 0
	emu.V = [RegisterCount]uint8{}
	emu.I = 0
	emu.pc = ProgramStart
	emu.display = Framebuffer{}
	emu.delayTimer = 0
	emu.soundTimer = 0
	emu.stack = [StackSize]uint16{}
	emu.sp = 0
	emu.keyState = [KeyCount]bool{}
	emu.updateScreen = true
	emu.loadFont()
}

func (emu *EMU) loadFont() {
	copy(emu.memory[:fontSize], FontSet[:])
}

// LoadROM reads a ROM image from disk and loads it at 0x200.
func (emu *EMU) LoadROM(filename string) error {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}
	return emu.LoadProgram(rom)
}

// LoadProgram copies rom into memory at 0x200. Memory is untouched if the
// program does not fit.
func (emu *EMU) LoadProgram(rom []byte) error {
	if len(rom) > maxRomSize {
		return &Fault{Kind: ErrROMTooLarge, Size: len(rom)}
	}
	copy(emu.memory[ProgramStart:], rom)
	for i := ProgramStart + len(rom); i < MemorySize; i++ {
		emu.memory[i] = 0
	}
	return nil
}

// SetKey records the pressed state of a hex key.
func (emu *EMU) SetKey(index uint8, pressed bool) error {
	if int(index) >= KeyCount {
		return &Fault{Kind: ErrInvalidKey, Addr: uint16(index)}
	}
	emu.keyState[index] = pressed
	return nil
}

// Step runs one fetch/decode/execute cycle. On error the machine state is
// left as it was before the cycle.
func (emu *EMU) Step() (Status, error) {
	opcode, err := emu.fetch()
	if err != nil {
		return Executed, err
	}

	op, ok := decode(opcode)
	if !ok {
		return Executed, &Fault{Kind: ErrInvalidOpcode, Opcode: opcode, PC: emu.pc}
	}

	if emu.logger.Enabled(log.DebugLevel) {
		emu.logger.Debug("exec",
			log.String("pc", fmt.Sprintf("0x%03X", emu.pc)),
			log.String("opcode", fmt.Sprintf("0x%04X", opcode)),
			log.String("instr", op.name),
		)
	}

	start := emu.pc
	emu.opcode = opcode
	emu.pc += 2

	status, err := op.exec(emu, operands(opcode))
	if err != nil {
		emu.pc = start
		if f, ok := err.(*Fault); ok {
			f.Opcode = opcode
			f.PC = start
		}
		return Executed, err
	}
	return status, nil
}

func (emu *EMU) fetch() (uint16, error) {
	if int(emu.pc)+1 >= MemorySize {
		return 0, &Fault{Kind: ErrMemoryOutOfBounds, Addr: emu.pc, PC: emu.pc}
	}
	return uint16(emu.memory[emu.pc])<<8 | uint16(emu.memory[emu.pc+1]), nil
}

// TickTimers decrements the delay and sound timers, stopping at zero.
func (emu *EMU) TickTimers() {
	if emu.delayTimer > 0 {
		emu.delayTimer--
	}
	if emu.soundTimer > 0 {
		emu.soundTimer--
	}
}

// DrawFlag reports whether the screen changed since the last call.
func (emu *EMU) DrawFlag() bool {
	draw := emu.updateScreen
	emu.updateScreen = false
	return draw
}

func (emu *EMU) Screen() Framebuffer { return emu.display }
func (emu *EMU) PC() uint16          { return emu.pc }
func (emu *EMU) Index() uint16       { return emu.I }
func (emu *EMU) SP() uint16          { return emu.sp }
func (emu *EMU) Reg(x int) uint8     { return emu.V[x] }
func (emu *EMU) DelayTimer() uint8   { return emu.delayTimer }
func (emu *EMU) SoundTimer() uint8   { return emu.soundTimer }
func (emu *EMU) Opcode() uint16      { return emu.opcode }

// Memory returns a copy of main memory.
func (emu *EMU) Memory() [MemorySize]uint8 { return emu.memory }
