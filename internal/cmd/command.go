package cmd

import (
	"github.com/jessevdk/go-flags"
)

type JarSwap struct {
	Swap    Swap    `command:"swap" description:"replace a .jar file with another, keeping the original's size"`
	List    List    `command:"list" alias:"ls" description:"list the .jar files that a replacement can take the place of"`
	Inspect Inspect `command:"inspect" description:"print the end of central directory record of ZIP files"`
}

func NewParser() (*flags.Parser, error) {
	opts := &JarSwap{}

	p := flags.NewNamedParser("jarswap", flags.Default)
	if _, err := p.AddGroup("Global Options", "", opts); err != nil {
		return nil, err
	}

	return p, nil
}
