package parkfile

import "errors"

const (
	fileChecksumAdd = 201100
	maxTitleLength  = 47
	currentVersion  = 1
	maxItems        = 0x1000
	optionsSize     = 40 // fixed, zero padded
)

var ErrChecksum = errors.New("checksum mismatch")

func titleChecksum(title []byte) uint16 {
	// Add up the title bytes, rotating the 16-bit sum left by one after each
	// addition, then xor with 0xAAAA.
	var sum uint16 = 0
	for _, b := range title {
		sum += uint16(b)
		sum = (sum << 1) | (sum >> 15) // rotate 1 left
	}
	sum ^= 0xAAAA
	return sum
}

func (f *File) checkBytes(bs []byte) {
	for _, b := range bs {
		f.Checksum += uint32(b)
		f.Checksum = (f.Checksum << 3) | (f.Checksum >> 29)
	}
}
