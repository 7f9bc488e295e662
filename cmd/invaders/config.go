package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hexaflex/i8080/statsview"
)

// Config defines program configuration.
type Config struct {
	ROMs        string // Directory or zip file holding the ROM images.
	Profile     string // Optional Starlark machine profile.
	StateFile   string // Save state written by F6 and read by F9.
	ScaleFactor int    // Amount by which each pixel is scaled.
	Fullscreen  bool   // Run in fullscreen?
	Colored     bool   // Draw the cabinet's colour overlay?
	Debug       bool   // Start paused.
	PrintTrace  bool   // Print instruction trace data?
	Verbose     bool   // Log dropped ROM writes.
	StatsView   bool   // Serve runtime statistics over HTTP.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.ScaleFactor = 3
	c.Colored = true
	c.StateFile = "invaders.state"

	flag.Usage = func() {
		fmt.Printf("%s [options] <rom directory or zip>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Profile, "profile", c.Profile, "Starlark machine profile. Uses the built-in reference machine if empty.")
	flag.StringVar(&c.StateFile, "state", c.StateFile, "Save state file.")
	flag.IntVar(&c.ScaleFactor, "scale-factor", c.ScaleFactor, "Pixel scale factor for the display.")
	flag.BoolVar(&c.Fullscreen, "fullscreen", c.Fullscreen, "Run the display in fullscreen or windowed mode.")
	flag.BoolVar(&c.Colored, "color", c.Colored, "Draw the cabinet's colour overlay.")
	flag.BoolVar(&c.Debug, "debug", c.Debug, "Start with execution paused.")
	flag.BoolVar(&c.Verbose, "verbose", c.Verbose, "Log writes to ROM.")
	if statsview.Available() {
		flag.BoolVar(&c.StatsView, "statsview", c.StatsView, fmt.Sprintf("Serve runtime statistics on %s.", statsview.Address))
	}

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.ROMs = flag.Arg(0)
	c.PrintTrace = c.Debug
	return &c
}
