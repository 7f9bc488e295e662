package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkg/term"

	"github.com/hexaflex/i8080/arch"
	"github.com/hexaflex/i8080/cpu"
	"github.com/hexaflex/i8080/machine"
)

// listingSize is the number of bytes disassembled by the monitor.
const listingSize = 24

// runMonitor reads single key commands from the controlling terminal until
// the user quits.
func runMonitor(m *machine.Machine, config *Config) error {
	tty, err := term.Open("/dev/tty", term.CBreakMode)
	if err != nil {
		return errors.Wrapf(err, "monitor")
	}

	defer func() {
		tty.Restore()
		tty.Close()
	}()

	printMonitorHelp()
	printRegisters(m.CPU)

	var key [1]byte
	for {
		if _, err := tty.Read(key[:]); err != nil {
			return errors.Wrapf(err, "monitor")
		}

		switch key[0] {
		case 's':
			if _, err := m.CPU.Step(); err != nil {
				log.Println(err)
			}
			printRegisters(m.CPU)
		case 'f':
			if err := m.Frame(); err != nil {
				log.Println(err)
			}
			printRegisters(m.CPU)
		case 'g':
			for i := 0; i < config.Frames; i++ {
				if err := m.Frame(); err != nil {
					log.Println(err)
					break
				}
			}
			printRegisters(m.CPU)
		case 'r':
			printRegisters(m.CPU)
		case 'l':
			printListing(m.CPU)
		case 'x':
			m.Reset()
			printRegisters(m.CPU)
		case 'w':
			if len(config.SaveState) > 0 {
				if err := saveState(m, config.SaveState); err != nil {
					log.Println(err)
				}
			}
		case 'h', '?':
			printMonitorHelp()
		case 'q', 0x1b:
			return nil
		}
	}
}

func printRegisters(c *cpu.CPU) {
	fmt.Printf("PC=%04x SP=%04x A=%02x BC=%04x DE=%04x HL=%04x %s IE=%v halted=%v cycles=%d\n",
		c.PC, c.SP, c.A, c.BC(), c.DE(), c.HL(), c.Flags.String(),
		c.InterruptsEnabled, c.Halted(), c.Cycles())
}

// printListing disassembles the code at the program counter.
func printListing(c *cpu.CPU) {
	end := int(c.PC) + listingSize
	if end > len(c.Memory) {
		end = len(c.Memory)
	}

	for _, line := range arch.Listing(c.Memory[c.PC:end], int(c.PC)) {
		fmt.Println(line)
	}
}

func printMonitorHelp() {
	var sb strings.Builder
	sb.WriteString("monitor keys:\n")
	sb.WriteString(" s  Step one instruction.\n")
	sb.WriteString(" f  Run one frame.\n")
	sb.WriteString(" g  Run the configured number of frames.\n")
	sb.WriteString(" r  Show registers.\n")
	sb.WriteString(" l  Disassemble at the program counter.\n")
	sb.WriteString(" x  Reset the machine.\n")
	sb.WriteString(" w  Write the save state given by -save.\n")
	sb.WriteString(" q  Quit.")
	fmt.Println(sb.String())
}
