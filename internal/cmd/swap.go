package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/jarswap"
	"github.com/nguyengg/jarswap/internal"
	"github.com/nguyengg/jarswap/internal/config"
	"github.com/nguyengg/jarswap/zip/pad"
)

type Swap struct {
	ModsDir   flags.Filename `short:"d" long:"mods-dir" description:"the folder to choose the file to be replaced from; defaults to mods-dir from .jarswap, or prompts if not configured"`
	Target    flags.Filename `short:"t" long:"target" description:"replace this file directly instead of choosing from the mods folder"`
	Yes       bool           `short:"y" long:"yes" description:"do not ask for confirmation before overwriting"`
	Backup    bool           `short:"b" long:"backup" description:"copy the file to be replaced to a .bak file first"`
	Filler    string         `long:"filler" description:"the character used to fill the ZIP comment" default-mask:"#"`
	NoComment bool           `long:"no-comment" description:"always pad by appending zero bytes instead of growing the ZIP comment"`
	Args      struct {
		Replacement flags.Filename `positional-arg-name:"replacement" description:"the .jar file to take the place of another" required:"yes"`
	} `positional-args:"yes"`

	// collaborators that tests may replace.
	stdout   io.Writer
	prompter interface {
		Input(prompt string) (string, error)
		Select(items []string, def int) (int, error)
		Confirm(question string) (bool, error)
	}
	progress bool
}

func (c *Swap) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	if name, err := config.Load(ctx); err != nil {
		return fmt.Errorf("load config error: %w", err)
	} else if name != "" {
		log.Printf(`using config from "%s"`, name)
	}

	c.stdout = os.Stdout
	c.prompter = internal.NewPrompter(os.Stdin, os.Stdout)
	c.progress = internal.IsTerminal(os.Stderr)

	cfg, err := config.ForSwap()
	if err != nil {
		return fmt.Errorf("load config error: %w", err)
	}

	return c.run(ctx, cfg)
}

func (c *Swap) run(ctx context.Context, cfg config.SwapConfig) error {
	filler := cfg.Filler
	if c.Filler != "" {
		var err error
		if filler, err = pad.ParseFiller(c.Filler); err != nil {
			return fmt.Errorf("--filler: %w", err)
		}
	}

	replacement := string(c.Args.Replacement)
	if ext := filepath.Ext(replacement); !strings.EqualFold(ext, jarswap.Ext) {
		return &jarswap.ExtensionError{Name: replacement, Want: jarswap.Ext}
	}

	fi, err := os.Stat(replacement)
	if err != nil {
		return fmt.Errorf(`stat replacement "%s" error: %w`, replacement, err)
	}
	_, _ = fmt.Fprintf(c.stdout, "Selected replacement file: %s\nSize: %d bytes (%s)\n\n", replacement, fi.Size(), humanize.IBytes(uint64(fi.Size())))

	switch ok, err := internal.Sniff(ctx, replacement); {
	case err != nil:
		log.Printf("identify replacement error: %v", err)
	case !ok:
		log.Printf(`WARNING: "%s" does not look like a ZIP archive; the padding will most likely be appended as raw bytes`, filepath.Base(replacement))
	}

	target, err := c.chooseTarget(ctx, cfg, fi)
	if err != nil || target == "" {
		return err
	}

	if !c.Yes {
		ok, err := c.prompter.Confirm(fmt.Sprintf(`Overwrite "%s" with "%s"?`, target, filepath.Base(replacement)))
		if err != nil {
			return err
		}
		if !ok {
			log.Printf("cancelled; nothing was written")
			return nil
		}
	}

	r, err := jarswap.Swap(ctx, replacement, target, func(opts *jarswap.SwapOptions) {
		opts.Backup = c.Backup || cfg.Backup
		opts.PadOptions = func(opts *pad.Options) {
			opts.Filler = filler
			opts.DisableComment = c.NoComment
		}
		if c.progress {
			opts.WrapWriter = func(w io.Writer, size int64) io.Writer {
				return io.MultiWriter(w, internal.DefaultBytes(size, "writing"))
			}
		}
	})
	if err != nil {
		var se *jarswap.SizeError
		if errors.As(err, &se) {
			return fmt.Errorf("%w; aborting", err)
		}
		return err
	}

	if r.BackupName != "" {
		log.Printf(`backed up "%s" to "%s"`, filepath.Base(target), r.BackupName)
	}
	if r.Refusal != nil {
		log.Printf("WARNING: could not pad using ZIP comment (%v); appended %d zero bytes instead", r.Refusal, r.TargetSize-r.ReplacementSize)
		log.Printf("WARNING: this may cause issues with strict ZIP parsers, but often works in practice")
	}

	_, _ = fmt.Fprintf(c.stdout, "Replaced \"%s\" with \"%s\"; padded from %d to %d bytes (%s).\n",
		filepath.Base(target), replacement, r.ReplacementSize, r.TargetSize, r.Strategy)
	return nil
}

// chooseTarget returns the file to be replaced, or empty string if there is none to choose from.
func (c *Swap) chooseTarget(ctx context.Context, cfg config.SwapConfig, replacement os.FileInfo) (string, error) {
	if c.Target != "" {
		return string(c.Target), nil
	}

	dir := string(c.ModsDir)
	if dir == "" {
		dir = cfg.ModsDir
	}
	if dir == "" {
		var err error
		if dir, err = c.prompter.Input("Enter the full path to your mods folder"); err != nil {
			return "", err
		}
	}

	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return "", fmt.Errorf(`"%s" is not a valid folder`, dir)
	}

	s, err := internal.ScanModsDir(ctx, dir, replacement)
	if err != nil {
		return "", err
	}
	if err = s.Skipped.ErrorOrNil(); err != nil {
		log.Printf("skipped some files: %v", err)
	}
	if len(s.Candidates) == 0 {
		_, _ = fmt.Fprintf(c.stdout, "No suitable .jar files found in \"%s\"\n", dir)
		return "", nil
	}

	items := make([]string, len(s.Candidates))
	for i, cand := range s.Candidates {
		items[i] = cand.String()
	}

	_, _ = fmt.Fprintf(c.stdout, "Select a file to replace:\n")
	i, err := c.prompter.Select(items, 0)
	if err != nil {
		return "", err
	}

	return s.Candidates[i].Path, nil
}
