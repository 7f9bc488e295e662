package machine

import (
	"strconv"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/hexaflex/i8080/cpu"
	"github.com/hexaflex/i8080/devices/controls"
	"github.com/hexaflex/i8080/rom"
)

// Board timing.
const (
	Frequency = 2_000_000 // Processor clock in Hz.
	FrameRate = 60        // Frames per second.
)

// Interrupt vectors raised by the video hardware.
const (
	MidFrameVector = 1 // Beam reaches the middle of the screen.
	EndFrameVector = 2 // Beam reaches the bottom of the screen.
)

// Profile describes a machine: clock, memory map, interrupt cadence
// and cabinet switches.
type Profile struct {
	Name          string
	Frequency     int        // Processor clock in Hz.
	FrameRate     int        // Frames per second.
	ProtectedSize int        // Size of the write-protected ROM region.
	DecimalAdjust bool       // Enable DAA.
	Layout        rom.Layout // ROM images and their offsets.
	Interrupts    [2]int     // Vectors raised at mid frame and end of frame.
	DIP           controls.DIP
}

// DefaultProfile returns the reference machine: Space Invaders images at
// the documented reference offsets.
func DefaultProfile() Profile {
	return Profile{
		Name:          "reference",
		Frequency:     Frequency,
		FrameRate:     FrameRate,
		ProtectedSize: cpu.ProtectedSize,
		DecimalAdjust: true,
		Layout:        rom.ReferenceLayout,
		Interrupts:    [2]int{MidFrameVector, EndFrameVector},
		DIP:           controls.DefaultDIP(),
	}
}

// CyclesPerFrame returns the number of processor cycles in one frame.
func (p Profile) CyclesPerFrame() int {
	return p.Frequency / p.FrameRate
}

// Validate checks the profile for values the machine cannot run with.
func (p Profile) Validate() error {
	switch {
	case p.Frequency <= 0:
		return errors.New(f("profile: frequency must be positive"))
	case p.FrameRate <= 0:
		return errors.New(f("profile: frame rate must be positive"))
	case p.CyclesPerFrame() < 2:
		return errors.New(f("profile: frame rate too high for frequency %s", strconv.Itoa(p.Frequency)))
	case p.ProtectedSize < 0 || p.ProtectedSize > cpu.MemoryCapacity:
		return errors.New(f("profile: protected size %#x out of range", p.ProtectedSize))
	case len(p.Layout) == 0:
		return errors.New(f("profile: no roms"))
	case p.DIP.Lives < 3 || p.DIP.Lives > 6:
		return errors.New(f("profile: lives must be 3 to 6, got %s", strconv.Itoa(p.DIP.Lives)))
	}

	for _, v := range p.Interrupts {
		if v < 0 || v > 7 {
			return errors.New(f("profile: interrupt vector %s out of range", strconv.Itoa(v)))
		}
	}

	for _, seg := range p.Layout {
		if seg.Offset < 0 || seg.Offset >= cpu.MemoryCapacity {
			return errors.New(f("profile: rom %s offset %#x out of range", seg.Name, seg.Offset))
		}
	}

	return nil
}

// LoadProfile evaluates a Starlark machine description. Globals it does not
// set keep their DefaultProfile values.
//
//	frequency = 2000000
//	frame_rate = 60
//	protected_size = 0x2000
//	decimal_adjust = True
//	layout = "arcade"    # or "reference"
//	roms = [("invaders.h", 0x0000), ...]
//	interrupts = (1, 2)
//	lives = 3
//	bonus_life_at_1000 = False
//	coin_info = True
func LoadProfile(path string) (Profile, error) {
	return ParseProfile(path, nil)
}

// ParseProfile is LoadProfile for an in-memory source. If src is nil the
// file named by filename is read.
func ParseProfile(filename string, src interface{}) (Profile, error) {
	p := DefaultProfile()

	thread := starlark.Thread{Name: "profile"}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, &thread, filename, src, nil)
	if err != nil {
		return p, errors.Wrapf(err, "profile")
	}

	if v, ok := globals["name"]; ok {
		s, ok := starlark.AsString(v)
		if !ok {
			return p, errTypeOf("name", "string", v)
		}
		p.Name = s
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"frequency", &p.Frequency},
		{"frame_rate", &p.FrameRate},
		{"protected_size", &p.ProtectedSize},
		{"lives", &p.DIP.Lives},
	}

	for _, v := range ints {
		if x, ok := globals[v.key]; ok {
			n, err := starlark.AsInt32(x)
			if err != nil {
				return p, errTypeOf(v.key, "int", x)
			}
			*v.dst = n
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"decimal_adjust", &p.DecimalAdjust},
		{"bonus_life_at_1000", &p.DIP.BonusLifeAt1000},
		{"coin_info", &p.DIP.CoinInfo},
	}

	for _, v := range bools {
		if x, ok := globals[v.key]; ok {
			b, ok := x.(starlark.Bool)
			if !ok {
				return p, errTypeOf(v.key, "bool", x)
			}
			*v.dst = bool(b)
		}
	}

	if v, ok := globals["layout"]; ok {
		s, _ := starlark.AsString(v)
		switch s {
		case "arcade":
			p.Layout = rom.ArcadeLayout
		case "reference":
			p.Layout = rom.ReferenceLayout
		default:
			return p, errors.New(f("profile: unknown layout %s", v))
		}
	}

	if v, ok := globals["roms"]; ok {
		if p.Layout, err = parseLayout(v); err != nil {
			return p, err
		}
	}

	if v, ok := globals["interrupts"]; ok {
		pair, ok := v.(starlark.Indexable)
		if !ok || pair.Len() != 2 {
			return p, errTypeOf("interrupts", "pair of ints", v)
		}
		for i := range p.Interrupts {
			n, err := starlark.AsInt32(pair.Index(i))
			if err != nil {
				return p, errTypeOf("interrupts", "pair of ints", v)
			}
			p.Interrupts[i] = n
		}
	}

	return p, p.Validate()
}

// parseLayout reads a sequence of (name, offset) pairs.
func parseLayout(v starlark.Value) (rom.Layout, error) {
	list, ok := v.(starlark.Indexable)
	if !ok {
		return nil, errTypeOf("roms", "list of (name, offset)", v)
	}

	layout := make(rom.Layout, list.Len())
	for i := range layout {
		entry, ok := list.Index(i).(starlark.Indexable)
		if !ok || entry.Len() != 2 {
			return nil, errTypeOf("roms", "list of (name, offset)", v)
		}

		name, ok := starlark.AsString(entry.Index(0))
		if !ok {
			return nil, errTypeOf("roms", "list of (name, offset)", v)
		}

		offset, err := starlark.AsInt32(entry.Index(1))
		if err != nil {
			return nil, errTypeOf("roms", "list of (name, offset)", v)
		}

		layout[i] = rom.Segment{Name: name, Offset: offset}
	}

	return layout, nil
}

func errTypeOf(key, want string, got starlark.Value) error {
	return errors.New(f("profile: %s: want %s, got %s", key, want, got.Type()))
}
