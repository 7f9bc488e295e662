package main

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/i8080/cpu"
	"github.com/hexaflex/i8080/machine"
	"github.com/hexaflex/i8080/rom"
)

// CPUController controls the execution of the machine.
type CPUController struct {
	machine    *machine.Machine
	start      time.Time
	cycleStart uint64
	running    bool
}

// NewCPUController creates the machine described by the configuration and
// loads its ROM images.
func NewCPUController(config *Config, trace cpu.TraceFunc) (*CPUController, error) {
	profile := machine.DefaultProfile()
	if len(config.Profile) > 0 {
		var err error
		if profile, err = machine.LoadProfile(config.Profile); err != nil {
			return nil, err
		}
	}

	log.Println("loading", config.ROMs, "as", profile.Name)

	fsys, closer, err := rom.Open(config.ROMs)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	m, err := machine.New(profile, fsys, machine.Options{
		Trace:   trace,
		Verbose: config.Verbose,
	})
	if err != nil {
		return nil, err
	}

	return &CPUController{machine: m}, nil
}

// Machine returns the controlled machine.
func (c *CPUController) Machine() *machine.Machine {
	return c.machine
}

// Running returns true if the CPU is currently running.
func (c *CPUController) Running() bool {
	return c.running
}

// Frequency returns the current clock frequency in herz.
func (c *CPUController) Frequency() float64 {
	if !c.running {
		return 0
	}
	cycles := c.machine.CPU.Cycles() - c.cycleStart
	return float64(cycles) / time.Since(c.start).Seconds()
}

// ToggleRun starts or stops program execution.
func (c *CPUController) ToggleRun() {
	c.setRunning(!c.running)
}

// Start begins execution of the program.
func (c *CPUController) Start() {
	c.setRunning(true)
}

// Stop pauses execution of the program.
func (c *CPUController) Stop() {
	c.setRunning(false)
}

// Frame runs one video frame. Execution stops on halt or fault.
func (c *CPUController) Frame() error {
	err := c.machine.Frame()
	if err != nil {
		c.setRunning(false)
	}
	return err
}

// Step executes a single instruction.
func (c *CPUController) Step() error {
	_, err := c.machine.CPU.Step()
	if err != nil {
		c.setRunning(false)
		if err != cpu.ErrHalted {
			return err
		}
		log.Println("cpu halted")
	}
	return nil
}

// Reset restarts the program from its freshly loaded state.
func (c *CPUController) Reset() {
	c.machine.Reset()
	c.setRunning(c.running)
}

// SaveState writes the machine state to the given file.
func (c *CPUController) SaveState(path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "save state")
	}

	if err := c.machine.SaveState(fd); err != nil {
		fd.Close()
		return err
	}

	log.Println("state saved to", path)
	return fd.Close()
}

// LoadState restores the machine state from the given file.
func (c *CPUController) LoadState(path string) error {
	fd, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "load state")
	}
	defer fd.Close()

	if err := c.machine.LoadState(fd); err != nil {
		return err
	}

	log.Println("state loaded from", path)
	c.setRunning(c.running)
	return nil
}

// Shutdown disposes of machine resources.
func (c *CPUController) Shutdown() error {
	return c.machine.Close()
}

// setRunning determines if the CPU is running or is paused.
func (c *CPUController) setRunning(v bool) {
	c.running = v
	c.start = time.Now()
	c.cycleStart = c.machine.CPU.Cycles()
}
