package replay

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/1siamBot/geojump/engine/core"
)

type frames []core.InputFrame

func (f *frames) Poll() core.InputFrame {
	if len(*f) == 0 {
		return core.InputFrame{}
	}
	in := (*f)[0]
	*f = (*f)[1:]
	return in
}

func sample() []core.InputFrame {
	return []core.InputFrame{
		{},
		{Right: true, Fire: true},
		{Up: true},
		{Tapped: true, TapX: 120, TapY: 33},
		{Down: true, Left: true, Tapped: true, TapX: -4, TapY: 700},
		{Fire: true},
	}
}

func TestRecordThenPlayBack(t *testing.T) {
	var buf bytes.Buffer
	src := frames(sample())
	rec, err := NewRecorder(&buf, &src, 99)
	if err != nil {
		t.Fatal(err)
	}
	var passed []core.InputFrame
	for i := 0; i < len(sample()); i++ {
		passed = append(passed, rec.Poll())
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	if rec.Frames() != uint64(len(sample())) {
		t.Errorf("Frames = %d", rec.Frames())
	}

	rp, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if rp.Seed != 99 {
		t.Errorf("seed = %d, want 99", rp.Seed)
	}
	p := NewPlayer(rp)
	for i, want := range sample() {
		if passed[i] != want {
			t.Errorf("recorder altered frame %d: %+v", i, passed[i])
		}
		if rp.Frames[i].Tick != uint64(i) {
			t.Errorf("frame %d has tick %d", i, rp.Frames[i].Tick)
		}
		if got := p.Poll(); got != want {
			t.Errorf("frame %d = %+v, want %+v", i, got, want)
		}
	}
	if !p.Done() {
		t.Error("player not done after the last frame")
	}
	if got := p.Poll(); got != (core.InputFrame{}) {
		t.Errorf("past the end = %+v, want no input", got)
	}
}

func TestTapCoordinatesOnlyWrittenForTaps(t *testing.T) {
	var plain, tap bytes.Buffer
	(&Frame{Input: core.InputFrame{Fire: true, TapX: 5}}).Encode(&plain)
	(&Frame{Input: core.InputFrame{Tapped: true, TapX: 5}}).Encode(&tap)
	if plain.Len() != 9 || tap.Len() != 17 {
		t.Errorf("sizes = %d and %d, want 9 and 17", plain.Len(), tap.Len())
	}

	var f Frame
	if err := f.Decode(&plain); err != nil {
		t.Fatal(err)
	}
	if f.Input.TapX != 0 {
		t.Errorf("untapped frame carried TapX %d", f.Input.TapX)
	}
}

func TestReadRejectsForeignStreams(t *testing.T) {
	tests := map[string][]byte{
		"empty":       nil,
		"wrong magic": []byte("RIFF\x01\x00\x00\x00\x00\x00\x00\x00\x00"),
		"new version": []byte("GJRP\x09\x00\x00\x00\x00\x00\x00\x00\x00"),
		"no seed":     []byte("GJRP\x01\x00"),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Read(bytes.NewReader(data)); !errors.Is(err, ErrBadHeader) {
				t.Errorf("err = %v, want ErrBadHeader", err)
			}
		})
	}
}

func TestReadTruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	src := frames(sample())
	rec, _ := NewRecorder(&buf, &src, 1)
	rec.Poll()
	rec.Poll()
	rec.Close()

	data := buf.Bytes()[:buf.Len()-3]
	rp, err := Read(bytes.NewReader(data))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want unexpected EOF", err)
	}
	if rp == nil || len(rp.Frames) != 1 {
		t.Errorf("want the one complete frame back, got %+v", rp)
	}
}

func TestCreateAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.gjr")
	src := frames(sample())
	rec, err := Create(path, &src, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		rec.Poll()
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	rp, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if rp.Seed != 5 || len(rp.Frames) != 3 {
		t.Errorf("loaded seed %d with %d frames", rp.Seed, len(rp.Frames))
	}
	if NewPlayer(rp).Len() != 3 {
		t.Error("player length mismatch")
	}
}

func TestPollAfterClosePassesThrough(t *testing.T) {
	var buf bytes.Buffer
	src := frames(sample())
	rec, err := NewRecorder(&buf, &src, 3)
	if err != nil {
		t.Fatal(err)
	}
	rec.Poll()
	rec.Poll()
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	size := buf.Len()

	if got := rec.Poll(); got != sample()[2] {
		t.Errorf("frame after Close = %+v, want the source's", got)
	}
	if buf.Len() != size || rec.Frames() != 2 {
		t.Errorf("recorded after Close: %d bytes, %d frames", buf.Len()-size, rec.Frames())
	}
	if err := rec.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}

	rp, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rp.Frames) != 2 {
		t.Errorf("replay has %d frames, want 2", len(rp.Frames))
	}
}
