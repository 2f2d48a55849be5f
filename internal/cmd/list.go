package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/jarswap/internal"
	"github.com/nguyengg/jarswap/internal/config"
)

type List struct {
	ModsDir flags.Filename `short:"d" long:"mods-dir" description:"the folder to list; defaults to mods-dir from .jarswap"`
	Args    struct {
		Replacement flags.Filename `positional-arg-name:"replacement" description:"the .jar file to find candidates for" required:"yes"`
	} `positional-args:"yes"`

	stdout io.Writer
}

func (c *List) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	if _, err := config.Load(ctx); err != nil {
		return fmt.Errorf("load config error: %w", err)
	}

	c.stdout = os.Stdout
	cfg, err := config.ForSwap()
	if err != nil {
		return fmt.Errorf("load config error: %w", err)
	}

	return c.run(ctx, cfg)
}

func (c *List) run(ctx context.Context, cfg config.SwapConfig) error {
	dir := string(c.ModsDir)
	if dir == "" {
		dir = cfg.ModsDir
	}
	if dir == "" {
		return fmt.Errorf("no mods folder given; specify --mods-dir or set mods-dir in %s", config.Name)
	}

	fi, err := os.Stat(string(c.Args.Replacement))
	if err != nil {
		return fmt.Errorf(`stat replacement "%s" error: %w`, c.Args.Replacement, err)
	}

	s, err := internal.ScanModsDir(ctx, dir, fi)
	if err != nil {
		return err
	}
	if err = s.Skipped.ErrorOrNil(); err != nil {
		log.Printf("skipped some files: %v", err)
	}

	for i, cand := range s.Candidates {
		_, _ = fmt.Fprintf(c.stdout, "%2d) %s\n", i+1, cand)
	}

	log.Printf(`found %d/%d candidates in "%s"`, len(s.Candidates), s.Seen, dir)
	return nil
}
