// Package replay records the input a session consumed, tick by tick, and
// plays it back. With the same seed and config a replayed run is identical.
package replay

import (
	"encoding/binary"
	"io"

	"github.com/1siamBot/geojump/engine/core"
)

// button bits
const (
	btnUp uint8 = 1 << iota
	btnDown
	btnLeft
	btnRight
	btnFire
	btnTap
)

// Frame is the input consumed at one tick
type Frame struct {
	Tick  uint64
	Input core.InputFrame
}

func pack(in core.InputFrame) uint8 {
	var b uint8
	if in.Up {
		b |= btnUp
	}
	if in.Down {
		b |= btnDown
	}
	if in.Left {
		b |= btnLeft
	}
	if in.Right {
		b |= btnRight
	}
	if in.Fire {
		b |= btnFire
	}
	if in.Tapped {
		b |= btnTap
	}
	return b
}

func unpack(b uint8) core.InputFrame {
	return core.InputFrame{
		Up:     b&btnUp != 0,
		Down:   b&btnDown != 0,
		Left:   b&btnLeft != 0,
		Right:  b&btnRight != 0,
		Fire:   b&btnFire != 0,
		Tapped: b&btnTap != 0,
	}
}

// Encode writes a frame to binary. Tap coordinates are only written for taps.
func (f *Frame) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, f.Tick); err != nil {
		return err
	}
	buttons := pack(f.Input)
	if err := binary.Write(w, binary.LittleEndian, buttons); err != nil {
		return err
	}
	if buttons&btnTap == 0 {
		return nil
	}
	if err := binary.Write(w, binary.LittleEndian, int32(f.Input.TapX)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, int32(f.Input.TapY))
}

// Decode reads a frame from binary. A clean end of stream before the
// frame starts returns io.EOF; a truncated frame returns io.ErrUnexpectedEOF.
func (f *Frame) Decode(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &f.Tick); err != nil {
		return err
	}
	var buttons uint8
	if err := binary.Read(r, binary.LittleEndian, &buttons); err != nil {
		return unexpected(err)
	}
	f.Input = unpack(buttons)
	if buttons&btnTap == 0 {
		return nil
	}
	var x, y int32
	if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
		return unexpected(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &y); err != nil {
		return unexpected(err)
	}
	f.Input.TapX, f.Input.TapY = int(x), int(y)
	return nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
