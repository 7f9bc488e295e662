package main

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hexaflex/i8080/devices"
	"github.com/hexaflex/i8080/devices/controls"
)

// keymap binds keyboard keys to cabinet buttons.
var keymap = map[glfw.Key]controls.Button{
	glfw.KeyC:     controls.Coin,
	glfw.Key1:     controls.P1Start,
	glfw.Key2:     controls.P2Start,
	glfw.KeySpace: controls.P1Fire,
	glfw.KeyLeft:  controls.P1Left,
	glfw.KeyRight: controls.P1Right,
	glfw.KeyK:     controls.P2Fire,
	glfw.KeyJ:     controls.P2Left,
	glfw.KeyL:     controls.P2Right,
	glfw.KeyT:     controls.Tilt,
}

// padmap binds gamepad buttons to cabinet buttons.
var padmap = map[glfw.GamepadButton]controls.Button{
	glfw.ButtonA:         controls.P1Fire,
	glfw.ButtonDpadLeft:  controls.P1Left,
	glfw.ButtonDpadRight: controls.P1Right,
	glfw.ButtonStart:     controls.P1Start,
	glfw.ButtonBack:      controls.Coin,
}

// stickDeadzone is how far the left stick must move to count as a press.
const stickDeadzone = 0.5

// Input forwards keyboard and gamepad state to the cabinet controls.
type Input struct {
	controls    *controls.Device
	joy         glfw.Joystick
	pad         map[controls.Button]bool
	initialized bool
}

var _ devices.Device = &Input{}

// NewInput creates input handling for the given controls.
func NewInput(c *controls.Device) *Input {
	return &Input{
		controls: c,
		pad:      make(map[controls.Button]bool),
	}
}

// ID returns the device id.
func (in *Input) ID() devices.ID {
	return devices.NewID(devices.Host, 0x0003)
}

// Startup detects any connected gamepad.
func (in *Input) Startup() error {
	glfw.SetJoystickCallback(in.configure)

	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			in.configure(joy, glfw.Connected)
			break
		}
	}

	return nil
}

// Shutdown clears up device resources.
func (in *Input) Shutdown() error {
	glfw.SetJoystickCallback(nil)
	return nil
}

// Key handles a keyboard event. It returns false if the key is not bound
// to a cabinet button.
func (in *Input) Key(key glfw.Key, action glfw.Action) bool {
	btn, ok := keymap[key]
	if !ok {
		return false
	}

	switch action {
	case glfw.Press:
		in.controls.Press(btn)
	case glfw.Release:
		in.controls.Release(btn)
	}
	return true
}

// Update polls the gamepad. Buttons are only touched when their gamepad
// state changes, so the keyboard keeps working alongside it.
func (in *Input) Update() {
	if !in.initialized {
		return
	}

	state := in.joy.GetGamepadState()
	if state == nil {
		return
	}

	down := make(map[controls.Button]bool, len(padmap))
	for gb, btn := range padmap {
		down[btn] = down[btn] || state.Buttons[gb] == glfw.Press
	}

	x := state.Axes[glfw.AxisLeftX]
	down[controls.P1Left] = down[controls.P1Left] || x < -stickDeadzone
	down[controls.P1Right] = down[controls.P1Right] || x > stickDeadzone

	for btn, pressed := range down {
		if in.pad[btn] != pressed {
			in.controls.Set(btn, pressed)
			in.pad[btn] = pressed
		}
	}
}

// configure is called whenever a joystick is connected or disconnected from the system.
func (in *Input) configure(joy glfw.Joystick, event glfw.PeripheralEvent) {
	in.initialized = event == glfw.Connected && joy.IsGamepad()
	in.joy = joy

	if in.initialized {
		log.Println(in.ID(), "gamepad connected:", joy.GetGamepadName())
	} else {
		log.Println(in.ID(), "gamepad disconnected")
	}

	for btn, pressed := range in.pad {
		if pressed {
			in.controls.Release(btn)
		}
		delete(in.pad, btn)
	}
}
