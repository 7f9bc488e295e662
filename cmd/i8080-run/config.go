package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hexaflex/i8080/statsview"
)

// Config defines program configuration.
type Config struct {
	ROMs       string // Directory or zip file holding the ROM images.
	Profile    string // Optional Starlark machine profile.
	Frames     int    // Number of frames to run.
	LoadState  string // Optional save state to start from.
	SaveState  string // Optional file receiving the final state.
	Screenshot string // Optional PNG file receiving the final frame.
	Digest     bool   // Print video and write-trace digests.
	Trace      bool   // Print every executed instruction.
	Colored    bool   // Apply the colour overlay to screenshots.
	Monitor    bool   // Run the interactive monitor instead of a batch run.
	Verbose    bool   // Log dropped ROM writes.
	StatsView  bool   // Serve runtime statistics over HTTP.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Frames = 600

	flag.Usage = func() {
		fmt.Printf("%s [options] <rom directory or zip>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Profile, "profile", c.Profile, "Starlark machine profile. Uses the built-in reference machine if empty.")
	flag.IntVar(&c.Frames, "frames", c.Frames, "Number of frames to run.")
	flag.StringVar(&c.LoadState, "load", c.LoadState, "Save state to resume from.")
	flag.StringVar(&c.SaveState, "save", c.SaveState, "Write the final machine state to this file.")
	flag.StringVar(&c.Screenshot, "screenshot", c.Screenshot, "Write the final frame to this PNG file.")
	flag.BoolVar(&c.Digest, "digest", c.Digest, "Print digests of video memory and of every write to it.")
	flag.BoolVar(&c.Trace, "trace", c.Trace, "Print every executed instruction.")
	flag.BoolVar(&c.Colored, "color", c.Colored, "Apply the cabinet's colour overlay to screenshots.")
	flag.BoolVar(&c.Monitor, "monitor", c.Monitor, "Control execution interactively from the terminal.")
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

	if flag.NArg() == 0 || c.Frames < 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.ROMs = flag.Arg(0)
	return &c
}
