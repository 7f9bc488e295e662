package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/hexaflex/i8080/cpu"
	"github.com/hexaflex/i8080/devices"
	"github.com/hexaflex/i8080/devices/display"
	"github.com/hexaflex/i8080/statsview"
)

// App is the windowed emulator: one machine, its display and its inputs.
type App struct {
	config       *Config
	window       *glfw.Window
	cpu          *CPUController // Machine running the loaded ROMs.
	renderer     *Renderer      // Draws the video frame.
	input        *Input         // Keyboard and gamepad.
	host         devices.Map    // Host side devices.
	screen       display.Screen // Most recently converted frame.
	framePeriod  time.Duration  // Wall time per emulated frame.
	titleUpdated time.Time      // Last title refresh.
	nextFrame    time.Time      // When the next frame is due.
}

// NewApp creates an application for the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.renderer = NewRenderer()
	a.screen.Colored = config.Colored
	return &a
}

// Run loads the machine, opens the window and runs until the window is
// closed. It returns early on any setup error.
func (a *App) Run() error {
	var err error

	a.cpu, err = NewCPUController(a.config, a.printTrace)
	if err != nil {
		return err
	}

	m := a.cpu.Machine()
	profile := m.Profile()
	a.framePeriod = time.Second / time.Duration(profile.FrameRate)
	a.input = NewInput(m.Controls)

	if err := a.initGL(); err != nil {
		a.cpu.Shutdown()
		return err
	}

	defer a.dispose()

	a.host.Connect(a.renderer)
	a.host.Connect(a.input)
	if err := a.host.Startup(); err != nil {
		return err
	}

	if a.config.StatsView {
		statsview.Launch(os.Stdout)
	}

	log.Println(Version())
	printHelp()

	if !a.config.Debug {
		a.cpu.Start()
	}

	a.nextFrame = time.Now()
	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// mainLoop runs at most one frame, paced to the profile's frame rate, and
// handles window events.
func (a *App) mainLoop() {
	a.input.Update()

	now := time.Now()
	if a.cpu.Running() && !now.Before(a.nextFrame) {
		a.nextFrame = a.nextFrame.Add(a.framePeriod)

		// Don't try to catch up after a stall.
		if now.Sub(a.nextFrame) > 4*a.framePeriod {
			a.nextFrame = now.Add(a.framePeriod)
		}

		if err := a.cpu.Frame(); err != nil {
			log.Println(err)
		}

		a.present()
	}

	// The title shows the measured clock rate.
	if time.Since(a.titleUpdated) >= time.Second*2 {
		a.titleUpdated = time.Now()
		freq := prettyFrequency(a.cpu.Frequency())
		a.window.SetTitle(fmt.Sprintf("%s %s - %s", AppName, AppVersion, freq))
	}

	glfw.PollEvents()

	wait := 5 * time.Millisecond
	if a.cpu.Running() {
		wait = time.Until(a.nextFrame)
	}
	if wait > 0 {
		time.Sleep(wait)
	}
}

// present converts video memory and draws it.
func (a *App) present() {
	a.screen.Update(a.cpu.Machine().VideoRAM())
	a.renderer.Upload(&a.screen)

	gl.Clear(gl.COLOR_BUFFER_BIT)
	a.renderer.Draw()
	a.window.SwapBuffers()
}

// dispose releases the devices, the machine and the window.
func (a *App) dispose() {
	a.cpu.Stop()

	if err := a.host.Shutdown(); err != nil {
		log.Println(err)
	}

	if err := a.cpu.Shutdown(); err != nil {
		log.Println(err)
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

// keyCallback routes cabinet keys to the input device and handles the rest.
func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if a.input.Key(key, action) || action != glfw.Press {
		return
	}

	var err error

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		printHelp()
	case glfw.KeyF2:
		a.screen.Colored = !a.screen.Colored
		a.present()
	case glfw.KeyF5:
		a.cpu.Reset()
		a.present()
	case glfw.KeyF6:
		err = a.cpu.SaveState(a.config.StateFile)
	case glfw.KeyF9:
		if err = a.cpu.LoadState(a.config.StateFile); err == nil {
			a.present()
		}
	case glfw.KeyQ:
		a.cpu.ToggleRun()
		a.nextFrame = time.Now()
	case glfw.KeyE:
		err = a.cpu.Step()
		a.present()
	case glfw.KeyF:
		if !a.cpu.Running() {
			err = a.cpu.Frame()
			a.present()
		}
	case glfw.KeyD:
		a.config.PrintTrace = !a.config.PrintTrace
	}

	if err != nil {
		log.Println(err)
	}
}

// framebufferSizeCallback keeps the picture's aspect ratio, centred in the window.
func (a *App) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	setViewport(width, height)
}

func setViewport(width, height int) {
	w, h := width, height
	if w*display.Height > h*display.Width {
		w = h * display.Width / display.Height
	} else {
		h = w * display.Height / display.Width
	}
	gl.Viewport(int32((width-w)/2), int32((height-h)/2), int32(w), int32(h))
}

// windowHints are set before the window is created. Fullscreen windows
// additionally drop their decoration.
var windowHints = [...]struct {
	hint  glfw.Hint
	value int
}{
	{glfw.Resizable, glfw.True},
	{glfw.Visible, glfw.True},
	{glfw.Focused, glfw.True},
	{glfw.ContextVersionMajor, 4},
	{glfw.ContextVersionMinor, 2},
	{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
	{glfw.OpenGLForwardCompatible, glfw.True},
}

// initGL opens the window and makes its GL context current.
func (a *App) initGL() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrapf(err, "glfw")
	}

	for _, h := range windowHints {
		glfw.WindowHint(h.hint, h.value)
	}

	width := display.Width * a.config.ScaleFactor
	height := display.Height * a.config.ScaleFactor

	var monitor *glfw.Monitor
	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		width, height = mode.Width, mode.Height
		glfw.WindowHint(glfw.Decorated, glfw.False)
	}

	window, err := glfw.CreateWindow(width, height, AppName, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return errors.Wrapf(err, "glfw window")
	}

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return errors.Wrapf(err, "gl")
	}

	a.window = window
	a.window.SetKeyCallback(a.keyCallback)
	a.window.SetFramebufferSizeCallback(a.framebufferSizeCallback)
	glfw.SwapInterval(0)

	setViewport(a.window.GetFramebufferSize())
	gl.ClearColor(0, 0, 0, 1)
	return nil
}

// printTrace prints each instruction with the register state before it
// executes, while trace output is toggled on.
func (a *App) printTrace(i *cpu.Instruction) {
	if !a.config.PrintTrace {
		return
	}

	c := a.cpu.Machine().CPU
	fmt.Printf("%04x  %-18s A=%02x BC=%04x DE=%04x HL=%04x SP=%04x %s\n",
		i.IP, i, c.A, c.BC(), c.DE(), c.HL(), c.SP, c.Flags.String())
}

// printHelp lists the emulator and cabinet keys.
func printHelp() {
	var sb strings.Builder
	sb.WriteString("keys:\n")
	sb.WriteString(" ESC      Exit the emulator.\n")
	sb.WriteString(" F1       Show this list.\n")
	sb.WriteString(" F2       Enable/Disable the colour overlay.\n")
	sb.WriteString(" F5       Reset the machine.\n")
	sb.WriteString(" F6       Save state.\n")
	sb.WriteString(" F9       Load state.\n")
	sb.WriteString(" Q        Pause or resume.\n")
	sb.WriteString(" E        Perform a single instruction step.\n")
	sb.WriteString(" F        Run a single frame while stopped.\n")
	sb.WriteString(" D        Toggle the instruction trace.\n")
	sb.WriteString("cabinet:\n")
	sb.WriteString(" C        Insert coin.\n")
	sb.WriteString(" 1, 2     Player 1/2 start.\n")
	sb.WriteString(" ←, →, SPACE  Player 1 move and fire.\n")
	sb.WriteString(" J, L, K  Player 2 move and fire.\n")
	sb.WriteString(" T        Tilt.")
	log.Println(sb.String())
}

// prettyFrequency formats a clock rate in herz with a metric prefix.
func prettyFrequency(hz float64) string {
	for _, u := range []struct {
		scale float64
		unit  string
	}{{1e9, "GHz"}, {1e6, "MHz"}, {1e3, "KHz"}} {
		if hz >= u.scale {
			return fmt.Sprintf("%.2f %s", hz/u.scale, u.unit)
		}
	}
	return fmt.Sprintf("%.2f Hz", hz)
}
