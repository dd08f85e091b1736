package slp

// opKind is the operation an opcode byte performs.
type opKind uint8

const (
	opUnknown opKind = iota
	opEndOfRow
	opCopy        // literal indices follow
	opSkip        // transparent pixels
	opPlayerCopy  // literal indices follow, shifted by the player offset
	opFill        // one literal index repeated
	opPlayerFill  // one literal index repeated, shifted by the player offset
	opShadow      // shadow pixels
	opOutline     // outline pixels
	opShield      // shield pixels
	opHint        // render hint, produces no pixels
)

// lengthClass says where an opcode's run length is encoded.
type lengthClass uint8

const (
	lenNone   lengthClass = iota
	lenHigh6              // b>>2, or the next byte if that is zero
	lenHigh4              // b>>4, or the next byte if that is zero
	lenWide12             // (b&0xF0)<<4 | next byte
	lenNext               // next byte
	lenOne                // a single pixel
)

type opcode struct {
	kind   opKind
	length lengthClass
}

func (o opcode) player() bool {
	return o.kind == opPlayerCopy || o.kind == opPlayerFill
}

const endOfRow = 0x0F

// opcodes maps every command byte to its operation. The low bits of a byte
// select the family; the remaining bits carry a compact length.
var opcodes [256]opcode

func init() {
	for i := range opcodes {
		b := byte(i)
		switch {
		case b&0x03 == 0x00:
			opcodes[i] = opcode{opCopy, lenHigh6}
		case b&0x03 == 0x01:
			opcodes[i] = opcode{opSkip, lenHigh6}
		default:
			opcodes[i] = nibbleOpcode(b)
		}
	}
}

func nibbleOpcode(b byte) opcode {
	switch b & 0x0F {
	case 0x02:
		return opcode{opCopy, lenWide12}
	case 0x03:
		return opcode{opSkip, lenWide12}
	case 0x06:
		return opcode{opPlayerCopy, lenHigh4}
	case 0x07:
		return opcode{opFill, lenHigh4}
	case 0x0A:
		return opcode{opPlayerFill, lenHigh4}
	case 0x0B:
		return opcode{opShadow, lenHigh4}
	case 0x0E:
		switch b {
		case 0x0E, 0x1E, 0x2E, 0x3E:
			return opcode{opHint, lenNone}
		case 0x4E:
			return opcode{opOutline, lenOne}
		case 0x5E:
			return opcode{opOutline, lenNext}
		case 0x6E:
			return opcode{opShield, lenOne}
		case 0x7E:
			return opcode{opShield, lenNext}
		}
	case 0x0F:
		if b == endOfRow {
			return opcode{opEndOfRow, lenNone}
		}
	}
	return opcode{opUnknown, lenNone}
}

// runLength decodes the run length of op, whose opcode byte was b, reading
// any length byte from s.
func runLength(op opcode, b byte, s *stream) (int, error) {
	switch op.length {
	case lenHigh6, lenHigh4:
		shift := uint(2)
		if op.length == lenHigh4 {
			shift = 4
		}
		if n := int(b >> shift); n != 0 {
			return n, nil
		}
		n, err := s.next()
		return int(n), err
	case lenWide12:
		lo, err := s.next()
		return int(b&0xF0)<<4 | int(lo), err
	case lenNext:
		n, err := s.next()
		return int(n), err
	case lenOne:
		return 1, nil
	}
	return 0, nil
}
