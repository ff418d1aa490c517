package parkfile

import (
	"parkedit/research"
	"parkedit/scenario"
)

// File is the content of a park file: the research lists and the scenario
// options a designer edits together.
type File struct {
	Checksum uint32 // Do not set, this is calculated automatically
	Title    string
	Version  uint16 // 0 means current
	Research research.State
	Options  scenario.Options
}

type InFile interface {
	Read(b []byte) (int, error)
}

type OutFile interface {
	Write(b []byte) (int, error)
}
