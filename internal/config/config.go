package config

import (
	"fmt"

	"github.com/nguyengg/jarswap/zip/pad"
)

// SwapConfig contains swap configurations from the "swap" section.
//
//	[swap]
//	mods-dir = /home/me/.minecraft/mods
//	filler = #
//	backup = true
type SwapConfig struct {
	ModsDir string
	Filler  byte
	Backup  bool
}

// ForSwap returns configuration for swap.
//
// Filler defaults to pad.DefaultFiller if not specified. Returns an error if filler is not a single printable ASCII
// character; see pad.ParseFiller.
func (l *Loader) ForSwap() (c SwapConfig, err error) {
	c.Filler = pad.DefaultFiller

	sec, err := l.cfg.GetSection("swap")
	if err != nil {
		return c, nil
	}

	c.ModsDir = sec.Key("mods-dir").String()
	if v := sec.Key("filler").String(); v != "" {
		if c.Filler, err = pad.ParseFiller(v); err != nil {
			return c, fmt.Errorf("[swap] section: %w", err)
		}
	}
	c.Backup = sec.Key("backup").MustBool(false)

	return c, nil
}

// ForSwap calls Loader.ForSwap on the DefaultLoader instance.
func ForSwap() (c SwapConfig, err error) {
	return DefaultLoader.ForSwap()
}
