package slp

// This file contains the command stream interpreter.

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type result struct {
	dynamic bool
	issues  []ContentError
}

// decoder interprets the command stream of one frame. With a nil img it only
// walks the stream, which is how Open finds player color commands.
type decoder struct {
	frame  int
	width  int
	img    *Image
	offset uint8 // player color shift
	strict bool

	// greedy makes a full row swallow an end of row command that follows
	// it. took counts how often that happened, and ended is set when the
	// stream ran out before the last row was done.
	greedy bool
	took   int
	ended  bool

	s   stream
	res result
}

// run decodes frame i into img for the passed player slot.
//
// Full rows are usually terminated by an end of row command anyway, so the
// first pass drops one after a full row. When that leaves the stream short
// of rows, the frame is decoded again with every end of row command ending a
// row of its own.
func (s *Sprite) run(i int, img *Image, slot int) (result, error) {
	res, d, err := s.walk(i, img, slot, true)
	if err == nil || d == nil || !d.ended || d.took == 0 {
		return res, err
	}
	if img != nil {
		clear(img.Pix)
		clear(img.Kind)
	}
	if res, _, err2 := s.walk(i, img, slot, false); err2 == nil {
		return res, nil
	}
	return res, err
}

func (s *Sprite) walk(i int, img *Image, slot int, greedy bool) (result, *decoder, error) {
	fi := s.frames[i].info
	w, h := int(fi.Width), int(fi.Height)

	edges, err := newWindow(s.data, uint64(fi.OutlineTableOffset), uint64(h)*rowEdgeSize)
	if err != nil {
		return result{}, nil, errors.Wrapf(err, "frame %d: row edge table", i)
	}
	cmdStart := uint64(fi.CmdTableOffset) + uint64(h)*4
	if cmdStart > uint64(len(s.data)) {
		return result{}, nil, errors.Wrapf(ErrTruncated, "frame %d: command stream at %d, sprite is %d bytes", i, cmdStart, len(s.data))
	}
	cmds, err := newWindow(s.data, cmdStart, uint64(len(s.data))-cmdStart)
	if err != nil {
		return result{}, nil, err
	}

	d := &decoder{
		frame:  i,
		width:  w,
		img:    img,
		offset: PlayerOffset(slot),
		strict: s.opts.strict(),
		greedy: greedy,
		s:      stream{w: cmds},
	}
	for y := 0; y < h; y++ {
		left, err := edges.i16(y * rowEdgeSize)
		if err != nil {
			return result{}, nil, err
		}
		right, err := edges.i16(y*rowEdgeSize + 2)
		if err != nil {
			return result{}, nil, err
		}
		if left == transparentRow || right == transparentRow {
			continue
		}
		if left < 0 || right < 0 || int(left)+int(right) > w {
			return result{}, nil, errors.Wrapf(ErrBadOutline, "frame %d row %d: margins %d,%d in width %d", i, y, left, right, w)
		}
		if err := d.row(y, int(left), w-int(right)); err != nil {
			return result{}, d, err
		}
	}
	return d.res, d, nil
}

// row interprets commands until an end of row command or until the row is
// full. A row that ends early keeps its remaining pixels transparent.
func (d *decoder) row(y, x, end int) error {
	for x < end {
		at := d.s.offset()
		b, err := d.s.next()
		if err != nil {
			d.ended = true
			return errors.Wrapf(ErrFrameCorrupt, "frame %d row %d: command stream ended", d.frame, y)
		}
		op := opcodes[b]
		if glog.V(3) {
			glog.Infof("slp: frame %d row %d x %d: opcode 0x%02x kind %d", d.frame, y, x, b, op.kind)
		}

		switch op.kind {
		case opEndOfRow:
			return nil
		case opHint:
			continue
		case opUnknown:
			if err := d.issue(y, at, b, ErrBadOpcode); err != nil {
				return err
			}
			if !d.s.seek(endOfRow) {
				return errors.Wrapf(ErrFrameCorrupt, "frame %d row %d: no end of row after opcode 0x%02x at %d", d.frame, y, b, at)
			}
			return nil
		}

		n, err := runLength(op, b, &d.s)
		if err != nil {
			return errors.Wrapf(ErrFrameCorrupt, "frame %d row %d: reading run length at %d", d.frame, y, at)
		}
		if op.player() {
			d.res.dynamic = true
		}

		var lit []byte
		switch op.kind {
		case opCopy, opPlayerCopy:
			lit, err = d.s.take(n)
		case opFill, opPlayerFill:
			lit, err = d.s.take(1)
		}
		if err != nil {
			return errors.Wrapf(ErrFrameCorrupt, "frame %d row %d: %d literal bytes at %d", d.frame, y, n, at)
		}

		d.emit(op, lit, n, y, x, end)
		x += n
		if x > end {
			if err := d.issue(y, at, b, ErrRowOverflow); err != nil {
				return err
			}
		}
	}

	if !d.greedy {
		return nil
	}
	if b, ok := d.s.peek(); ok && b == endOfRow {
		d.s.pos++
		d.took++
	}
	return nil
}

// emit stores a run of n pixels starting at x, dropping any that fall past
// end.
func (d *decoder) emit(op opcode, lit []byte, n, y, x, end int) {
	if d.img == nil {
		return
	}
	if x+n > end {
		n = end - x
	}
	row := y * d.width
	for i := 0; i < n; i++ {
		p := row + x + i
		switch op.kind {
		case opCopy:
			d.img.Pix[p], d.img.Kind[p] = lit[i], KindColor
		case opPlayerCopy:
			d.img.Pix[p], d.img.Kind[p] = lit[i]+d.offset, KindPlayer
		case opFill:
			d.img.Pix[p], d.img.Kind[p] = lit[0], KindColor
		case opPlayerFill:
			d.img.Pix[p], d.img.Kind[p] = lit[0]+d.offset, KindPlayer
		case opShadow:
			d.img.Kind[p] = KindShadow
		case opOutline:
			d.img.Kind[p] = KindOutline
		case opShield:
			d.img.Kind[p] = KindShield
		}
	}
}

// issue records a content error, or returns it when decoding strictly.
func (d *decoder) issue(y, at int, b byte, err error) error {
	ce := ContentError{Frame: d.frame, Row: y, Offset: at, Opcode: b, Err: err}
	if d.strict {
		return ce
	}
	d.res.issues = append(d.res.issues, ce)
	return nil
}
