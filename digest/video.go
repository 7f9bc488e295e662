package digest

import (
	"crypto/sha1"
	"fmt"
)

// Video hashes video memory once per frame. Each frame's hash covers the
// previous hash followed by the frame data, so the final value fingerprints
// the whole sequence of frames.
type Video struct {
	digest   [sha1.Size]byte
	buf      []byte
	frameNum int
}

var _ Digest = &Video{}

// NewVideo creates a video digest for frames of the given size in bytes.
func NewVideo(size int) *Video {
	return &Video{buf: make([]byte, sha1.Size+size)}
}

// Hash implements the Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.frameNum = 0
}

// Frames returns the number of frames hashed since the last reset.
func (dig *Video) Frames() int {
	return dig.frameNum
}

// NewFrame chains the given frame data into the digest. vram longer than
// the configured frame size is truncated; shorter is zero-padded.
func (dig *Video) NewFrame(vram []byte) {
	// chain fingerprints by copying the last one to the head of the data
	copy(dig.buf, dig.digest[:])

	frame := dig.buf[sha1.Size:]
	n := copy(frame, vram)
	for i := n; i < len(frame); i++ {
		frame[i] = 0
	}

	dig.digest = sha1.Sum(dig.buf)
	dig.frameNum++
}
