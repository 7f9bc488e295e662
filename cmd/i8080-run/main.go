package main

import (
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/hexaflex/i8080/cpu"
	"github.com/hexaflex/i8080/devices/display"
	"github.com/hexaflex/i8080/digest"
	"github.com/hexaflex/i8080/machine"
	"github.com/hexaflex/i8080/rom"
	"github.com/hexaflex/i8080/statsview"
)

func main() {
	config := parseArgs()

	m, err := newMachine(config)
	if err != nil {
		log.Fatal(err)
	}

	if config.StatsView {
		statsview.Launch(os.Stdout)
	}

	if config.Monitor {
		err = runMonitor(m, config)
	} else {
		err = run(m, config)
	}

	if cerr := m.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		log.Fatal(err)
	}
}

// newMachine creates the machine described by the configuration, loads its
// ROM images and optionally resumes from a save state.
func newMachine(config *Config) (*machine.Machine, error) {
	profile := machine.DefaultProfile()
	if len(config.Profile) > 0 {
		var err error
		if profile, err = machine.LoadProfile(config.Profile); err != nil {
			return nil, err
		}
	}

	fsys, closer, err := rom.Open(config.ROMs)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var trace cpu.TraceFunc
	if config.Trace {
		trace = printTrace
	}

	m, err := machine.New(profile, fsys, machine.Options{
		Trace:   trace,
		Verbose: config.Verbose,
	})
	if err != nil {
		return nil, err
	}

	if len(config.LoadState) > 0 {
		if err := loadState(m, config.LoadState); err != nil {
			m.Close()
			return nil, err
		}
	}

	return m, nil
}

// run executes the configured number of frames and writes the requested
// artifacts. A halted processor ends the run early without error.
func run(m *machine.Machine, config *Config) error {
	vd := digest.NewVideo(machine.VideoEnd - machine.VideoStart)
	wt := digest.NewWriteTrace(0)
	if config.Digest {
		m.CPU.Watch(machine.VideoStart, machine.VideoEnd, wt.Record)
	}

	for i := 0; i < config.Frames; i++ {
		err := m.Frame()
		if errors.Is(err, cpu.ErrHalted) {
			log.Println(err)
			break
		}
		if err != nil {
			return err
		}

		if config.Digest {
			vd.NewFrame(m.VideoRAM())
		}
	}

	log.Printf("ran %d frames, %d cycles, %d dropped rom writes",
		m.FrameCount(), m.CPU.Cycles(), m.CPU.ProtectedWrites())

	if config.Digest {
		fmt.Printf("video  %s  %d frames\n", vd.Hash(), vd.Frames())
		fmt.Printf("writes %s  %d writes\n", wt.Hash(), wt.Len())
	}

	if len(config.Screenshot) > 0 {
		if err := screenshot(m, config.Screenshot, config.Colored); err != nil {
			return err
		}
	}

	if len(config.SaveState) > 0 {
		return saveState(m, config.SaveState)
	}

	return nil
}

// screenshot writes the current frame as a PNG image.
func screenshot(m *machine.Machine, file string, colored bool) error {
	screen := display.Screen{Colored: colored}
	screen.Update(m.VideoRAM())

	fd, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "screenshot")
	}

	if err := png.Encode(fd, screen.Image()); err != nil {
		fd.Close()
		return errors.Wrapf(err, "screenshot")
	}

	return fd.Close()
}

func saveState(m *machine.Machine, file string) error {
	fd, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "save state")
	}

	if err := m.SaveState(fd); err != nil {
		fd.Close()
		return err
	}

	return fd.Close()
}

func loadState(m *machine.Machine, file string) error {
	fd, err := os.Open(file)
	if err != nil {
		return errors.Wrapf(err, "load state")
	}
	defer fd.Close()
	return m.LoadState(fd)
}

// printTrace prints each instruction before it executes.
func printTrace(i *cpu.Instruction) {
	fmt.Printf("%04x  %s\n", i.IP, i)
}
