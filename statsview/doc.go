// Package statsview optionally serves runtime statistics over HTTP while
// the emulator runs. It is only functional when built with the statsview
// build tag; otherwise Launch does nothing and Available returns false.
//
// After launch, graphs are viewable at
//
//	localhost:12680/debug/statsview
//
// and the standard pprof pages at
//
//	localhost:12680/debug/pprof/
package statsview

// Address is the local address the server listens on.
const Address = "localhost:12680"

const path = "/debug/statsview"
