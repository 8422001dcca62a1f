package cpu

// operand holds the fields of an opcode split into nibbles.
type operand struct {
	x, y, n uint8
	nn      uint8
	nnn     uint16
}

func operands(opcode uint16) operand {
	return operand{
		x:   uint8(opcode>>8) & 0xF,
		y:   uint8(opcode>>4) & 0xF,
		n:   uint8(opcode) & 0xF,
		nn:  uint8(opcode),
		nnn: opcode & 0x0FFF,
	}
}

type instruction struct {
	name string
	exec func(emu *EMU, op operand) (Status, error)
}

var (
	nop  = instruction{"NOP", func(*EMU, operand) (Status, error) { return Executed, nil }}
	cls  = instruction{"CLS", (*EMU).opCLS}
	ret  = instruction{"RET", (*EMU).opRET}
	jp   = instruction{"JP", (*EMU).opJP}
	call = instruction{"CALL", (*EMU).opCALL}
	seB  = instruction{"SE Vx, byte", (*EMU).opSEByte}
	sneB = instruction{"SNE Vx, byte", (*EMU).opSNEByte}
	seR  = instruction{"SE Vx, Vy", (*EMU).opSEReg}
	ldB  = instruction{"LD Vx, byte", (*EMU).opLDByte}
	addB = instruction{"ADD Vx, byte", (*EMU).opADDByte}
	ldR  = instruction{"LD Vx, Vy", (*EMU).opLDReg}
	or   = instruction{"OR", (*EMU).opOR}
	and  = instruction{"AND", (*EMU).opAND}
	xor  = instruction{"XOR", (*EMU).opXOR}
	addR = instruction{"ADD Vx, Vy", (*EMU).opADDReg}
	sub  = instruction{"SUB", (*EMU).opSUB}
	shr  = instruction{"SHR", (*EMU).opSHR}
	subn = instruction{"SUBN", (*EMU).opSUBN}
	shl  = instruction{"SHL", (*EMU).opSHL}
	sneR = instruction{"SNE Vx, Vy", (*EMU).opSNEReg}
	ldI  = instruction{"LD I, addr", (*EMU).opLDI}
	jpV0 = instruction{"JP V0, addr", (*EMU).opJPV0}
	rnd  = instruction{"RND", (*EMU).opRND}
	drw  = instruction{"DRW", (*EMU).opDRW}
	skp  = instruction{"SKP", (*EMU).opSKP}
	sknp = instruction{"SKNP", (*EMU).opSKNP}
	ldDT = instruction{"LD Vx, DT", (*EMU).opLDVxDT}
	ldK  = instruction{"LD Vx, K", (*EMU).opLDK}
	stDT = instruction{"LD DT, Vx", (*EMU).opLDDT}
	stST = instruction{"LD ST, Vx", (*EMU).opLDST}
	addI = instruction{"ADD I, Vx", (*EMU).opADDI}
	ldF  = instruction{"LD F, Vx", (*EMU).opLDF}
	bcd  = instruction{"LD B, Vx", (*EMU).opBCD}
	stor = instruction{"LD [I], Vx", (*EMU).opStore}
	load = instruction{"LD Vx, [I]", (*EMU).opLoad}
)

// aluOps is indexed by the last nibble of an 8XYN opcode.
var aluOps = [16]*instruction{
	0x0: &ldR, 0x1: &or, 0x2: &and, 0x3: &xor,
	0x4: &addR, 0x5: &sub, 0x6: &shr, 0x7: &subn,
	0xE: &shl,
}

// miscOps is indexed by the low byte of an FXNN opcode.
var miscOps = map[uint8]*instruction{
	0x07: &ldDT,
	0x0A: &ldK,
	0x15: &stDT,
	0x18: &stST,
	0x1E: &addI,
	0x29: &ldF,
	0x33: &bcd,
	0x55: &stor,
	0x65: &load,
}

// decode maps an opcode to its instruction. It depends on nothing but the
// opcode's nibbles.
func decode(opcode uint16) (instruction, bool) {
	op := operands(opcode)

	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x0000:
			return nop, true
		case 0x00E0:
			return cls, true
		case 0x00EE:
			return ret, true
		}
	case 0x1:
		return jp, true
	case 0x2:
		return call, true
	case 0x3:
		return seB, true
	case 0x4:
		return sneB, true
	case 0x5:
		if op.n == 0 {
			return seR, true
		}
	case 0x6:
		return ldB, true
	case 0x7:
		return addB, true
	case 0x8:
		if ins := aluOps[op.n]; ins != nil {
			return *ins, true
		}
	case 0x9:
		if op.n == 0 {
			return sneR, true
		}
	case 0xA:
		return ldI, true
	case 0xB:
		return jpV0, true
	case 0xC:
		return rnd, true
	case 0xD:
		return drw, true
	case 0xE:
		switch op.nn {
		case 0x9E:
			return skp, true
		case 0xA1:
			return sknp, true
		}
	case 0xF:
		if ins, ok := miscOps[op.nn]; ok {
			return *ins, true
		}
	}
	return instruction{}, false
}

func (emu *EMU) skipIf(cond bool) (Status, error) {
	if cond {
		emu.pc += 2
	}
	return Executed, nil
}

func (emu *EMU) opCLS(operand) (Status, error) {
	emu.display = Framebuffer{}
	emu.updateScreen = true
	return Executed, nil
}

func (emu *EMU) opRET(operand) (Status, error) {
	if emu.sp == 0 {
		return Executed, &Fault{Kind: ErrStackUnderflow}
	}
	emu.sp--
	emu.pc = emu.stack[emu.sp]
	emu.stack[emu.sp] = 0
	return Executed, nil
}

func (emu *EMU) opJP(op operand) (Status, error) {
	emu.pc = op.nnn
	return Executed, nil
}

func (emu *EMU) opCALL(op operand) (Status, error) {
	if int(emu.sp) >= StackSize {
		return Executed, &Fault{Kind: ErrStackOverflow}
	}
	emu.stack[emu.sp] = emu.pc
	emu.sp++
	emu.pc = op.nnn
	return Executed, nil
}

func (emu *EMU) opSEByte(op operand) (Status, error) {
	return emu.skipIf(emu.V[op.x] == op.nn)
}

func (emu *EMU) opSNEByte(op operand) (Status, error) {
	return emu.skipIf(emu.V[op.x] != op.nn)
}

func (emu *EMU) opSEReg(op operand) (Status, error) {
	return emu.skipIf(emu.V[op.x] == emu.V[op.y])
}

func (emu *EMU) opSNEReg(op operand) (Status, error) {
	return emu.skipIf(emu.V[op.x] != emu.V[op.y])
}

func (emu *EMU) opLDByte(op operand) (Status, error) {
	emu.V[op.x] = op.nn
	return Executed, nil
}

// VF is left alone, only 8XY4 reports a carry.
func (emu *EMU) opADDByte(op operand) (Status, error) {
	emu.V[op.x] += op.nn
	return Executed, nil
}

func (emu *EMU) opLDReg(op operand) (Status, error) {
	emu.V[op.x] = emu.V[op.y]
	return Executed, nil
}

func (emu *EMU) opOR(op operand) (Status, error) {
	emu.V[op.x] |= emu.V[op.y]
	return Executed, nil
}

func (emu *EMU) opAND(op operand) (Status, error) {
	emu.V[op.x] &= emu.V[op.y]
	return Executed, nil
}

func (emu *EMU) opXOR(op operand) (Status, error) {
	emu.V[op.x] ^= emu.V[op.y]
	return Executed, nil
}

// For the arithmetic ops the flag is written before the result, so with X=F
// the result wins. The shifts write the flag last.

func (emu *EMU) opADDReg(op operand) (Status, error) {
	sum := uint16(emu.V[op.x]) + uint16(emu.V[op.y])
	emu.V[flag] = boolToByte(sum > 0xFF)
	emu.V[op.x] = uint8(sum)
	return Executed, nil
}

func (emu *EMU) opSUB(op operand) (Status, error) {
	vx, vy := emu.V[op.x], emu.V[op.y]
	emu.V[flag] = boolToByte(vx >= vy)
	emu.V[op.x] = vx - vy
	return Executed, nil
}

func (emu *EMU) opSUBN(op operand) (Status, error) {
	vx, vy := emu.V[op.x], emu.V[op.y]
	emu.V[flag] = boolToByte(vy >= vx)
	emu.V[op.x] = vy - vx
	return Executed, nil
}

func (emu *EMU) opSHR(op operand) (Status, error) {
	lsb := emu.V[op.x] & 0x01
	emu.V[op.x] >>= 1
	emu.V[flag] = lsb
	return Executed, nil
}

func (emu *EMU) opSHL(op operand) (Status, error) {
	msb := emu.V[op.x] >> 7
	emu.V[op.x] <<= 1
	emu.V[flag] = msb
	return Executed, nil
}

func (emu *EMU) opLDI(op operand) (Status, error) {
	emu.I = op.nnn
	return Executed, nil
}

func (emu *EMU) opJPV0(op operand) (Status, error) {
	emu.pc = op.nnn + uint16(emu.V[0])
	return Executed, nil
}

func (emu *EMU) opRND(op operand) (Status, error) {
	emu.V[op.x] = uint8(emu.rng.Intn(256)) & op.nn
	return Executed, nil
}

// opDRW XORs an N-row sprite from memory[I] onto the screen at (VX, VY).
// Pixels wrap around both edges. With the width-wrap quirk rows can land at
// 32..63, which are off screen and are dropped.
func (emu *EMU) opDRW(op operand) (Status, error) {
	start, rows := int(emu.I), int(op.n)
	if start+rows > MemorySize {
		return Executed, outOfBounds(start + rows - 1)
	}

	x0, y0 := int(emu.V[op.x]), int(emu.V[op.y])
	wrapY := ScreenHeight
	if emu.wrapYByWidth {
		wrapY = ScreenWidth
	}

	erased := false
	for row := 0; row < rows; row++ {
		sprite := emu.memory[start+row]
		y := (y0 + row) % wrapY
		if y >= ScreenHeight {
			continue
		}
		for col := 0; col < 8; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			x := (x0 + col) % ScreenWidth
			idx := y*ScreenWidth + x
			erased = erased || emu.display[idx]
			emu.display[idx] = !emu.display[idx]
		}
	}

	emu.V[flag] = boolToByte(erased)
	emu.updateScreen = true
	return Executed, nil
}

func (emu *EMU) key(op operand) (bool, error) {
	k := emu.V[op.x]
	if int(k) >= KeyCount {
		return false, &Fault{Kind: ErrInvalidKey, Addr: uint16(k)}
	}
	return emu.keyState[k], nil
}

func (emu *EMU) opSKP(op operand) (Status, error) {
	pressed, err := emu.key(op)
	if err != nil {
		return Executed, err
	}
	return emu.skipIf(pressed)
}

func (emu *EMU) opSKNP(op operand) (Status, error) {
	pressed, err := emu.key(op)
	if err != nil {
		return Executed, err
	}
	return emu.skipIf(!pressed)
}

func (emu *EMU) opLDVxDT(op operand) (Status, error) {
	emu.V[op.x] = emu.delayTimer
	return Executed, nil
}

// opLDK polls the keypad. With nothing held PC is moved back onto this
// instruction so the next cycle polls again.
func (emu *EMU) opLDK(op operand) (Status, error) {
	for k, pressed := range emu.keyState {
		if pressed {
			emu.V[op.x] = uint8(k)
			return Executed, nil
		}
	}
	emu.pc -= 2
	return WaitingForKey, nil
}

func (emu *EMU) opLDDT(op operand) (Status, error) {
	emu.delayTimer = emu.V[op.x]
	return Executed, nil
}

func (emu *EMU) opLDST(op operand) (Status, error) {
	emu.soundTimer = emu.V[op.x]
	return Executed, nil
}

func (emu *EMU) opADDI(op operand) (Status, error) {
	emu.I += uint16(emu.V[op.x])
	return Executed, nil
}

func (emu *EMU) opLDF(op operand) (Status, error) {
	emu.I = uint16(emu.V[op.x]) * glyphSize
	return Executed, nil
}

func (emu *EMU) opBCD(op operand) (Status, error) {
	addr := int(emu.I)
	if addr+2 >= MemorySize {
		return Executed, outOfBounds(addr + 2)
	}
	vx := emu.V[op.x]
	emu.memory[addr] = vx / 100
	emu.memory[addr+1] = (vx / 10) % 10
	emu.memory[addr+2] = vx % 10
	return Executed, nil
}

func (emu *EMU) opStore(op operand) (Status, error) {
	addr := int(emu.I)
	if addr+int(op.x) >= MemorySize {
		return Executed, outOfBounds(addr + int(op.x))
	}
	copy(emu.memory[addr:addr+int(op.x)+1], emu.V[:op.x+1])
	return Executed, nil
}

func (emu *EMU) opLoad(op operand) (Status, error) {
	addr := int(emu.I)
	if addr+int(op.x) >= MemorySize {
		return Executed, outOfBounds(addr + int(op.x))
	}
	copy(emu.V[:op.x+1], emu.memory[addr:addr+int(op.x)+1])
	return Executed, nil
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
