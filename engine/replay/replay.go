package replay

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/1siamBot/geojump/engine/core"
)

const (
	magic   = "GJRP"
	version = uint8(1)
)

// ErrBadHeader is returned for streams that aren't replays of this version
var ErrBadHeader = errors.New("replay: bad header")

// InputSource is anything that yields one input frame per tick
type InputSource interface {
	Poll() core.InputFrame
}

// Recorder passes input through from a source and writes every frame
type Recorder struct {
	src    InputSource
	tick   uint64
	file   *os.File
	writer *bufio.Writer
	err    error
	closed bool
}

// NewRecorder writes the replay header for seed and starts recording
// frames polled from src into w.
func NewRecorder(w io.Writer, src InputSource, seed int64) (*Recorder, error) {
	r := &Recorder{src: src, writer: bufio.NewWriter(w)}
	if _, err := r.writer.WriteString(magic); err != nil {
		return nil, err
	}
	if err := binary.Write(r.writer, binary.LittleEndian, version); err != nil {
		return nil, err
	}
	if err := binary.Write(r.writer, binary.LittleEndian, seed); err != nil {
		return nil, err
	}
	return r, nil
}

// Create opens a replay file for recording
func Create(path string, src InputSource, seed int64) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r, err := NewRecorder(f, src, seed)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// Poll returns the source's next frame after recording it. The first
// write error is kept and reported by Close; input keeps flowing, also
// after Close.
func (r *Recorder) Poll() core.InputFrame {
	in := r.src.Poll()
	if r.closed {
		return in
	}
	if r.err == nil {
		f := Frame{Tick: r.tick, Input: in}
		r.err = f.Encode(r.writer)
	}
	r.tick++
	return in
}

// Frames returns the number of frames recorded
func (r *Recorder) Frames() uint64 { return r.tick }

// Close flushes and closes the replay file. Later calls do nothing.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.err
	if ferr := r.writer.Flush(); err == nil {
		err = ferr
	}
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Replay is a loaded recording
type Replay struct {
	Seed   int64
	Frames []Frame
}

// Read decodes a whole replay stream
func Read(r io.Reader) (*Replay, error) {
	br := bufio.NewReader(r)
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(br, head); err != nil || string(head) != magic {
		return nil, ErrBadHeader
	}
	var v uint8
	if err := binary.Read(br, binary.LittleEndian, &v); err != nil || v != version {
		return nil, fmt.Errorf("%w: version %d", ErrBadHeader, v)
	}
	rp := &Replay{}
	if err := binary.Read(br, binary.LittleEndian, &rp.Seed); err != nil {
		return nil, fmt.Errorf("%w: seed: %v", ErrBadHeader, err)
	}
	for {
		var f Frame
		err := f.Decode(br)
		if err == io.EOF {
			return rp, nil
		}
		if err != nil {
			return rp, fmt.Errorf("replay frame %d: %w", len(rp.Frames), err)
		}
		rp.Frames = append(rp.Frames, f)
	}
}

// Load reads a replay file
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Player feeds a replay back as an input source
type Player struct {
	rp  *Replay
	pos int
}

// NewPlayer plays rp from the first frame
func NewPlayer(rp *Replay) *Player {
	return &Player{rp: rp}
}

// Poll returns the next recorded frame, or no input past the end
func (p *Player) Poll() core.InputFrame {
	if p.pos >= len(p.rp.Frames) {
		return core.InputFrame{}
	}
	f := p.rp.Frames[p.pos]
	p.pos++
	return f.Input
}

// Done reports whether every frame was played
func (p *Player) Done() bool { return p.pos >= len(p.rp.Frames) }

// Len returns the number of recorded ticks
func (p *Player) Len() int { return len(p.rp.Frames) }
