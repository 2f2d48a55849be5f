package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/jarswap/internal"
	"github.com/nguyengg/jarswap/zip/eocd"
)

type Inspect struct {
	Args struct {
		Files []flags.Filename `positional-arg-name:"file" description:"the ZIP files whose end of central directory record to print" required:"yes"`
	} `positional-args:"yes"`

	stdout io.Writer
	logger *log.Logger
}

func (c *Inspect) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	c.stdout = os.Stdout
	return c.run(ctx)
}

func (c *Inspect) run(ctx context.Context) error {
	success := 0
	n := len(c.Args.Files)
	for i, file := range c.Args.Files {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			return err
		}

		c.logger = internal.NewLogger(i, n, string(file))
		if err := c.inspect(string(file)); err != nil {
			c.logger.Printf("inspect error: %v", err)
			continue
		}

		success++
	}

	log.Printf("successfully inspected %d/%d files", success, n)
	return nil
}

func (c *Inspect) inspect(name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read file error: %w", err)
	}

	offset, ok := eocd.Locate(data)
	if !ok {
		_, _ = fmt.Fprintf(c.stdout, "%s: no end of central directory record found in %d bytes\n", name, len(data))
		return nil
	}

	r := eocd.Parse(data, offset)
	_, _ = fmt.Fprintf(c.stdout, `%s: %d bytes (%s)
	EOCD offset:        %d
	disk number:        %d
	CD disk:            %d
	CD records on disk: %d
	CD records:         %d
	CD size:            %d
	CD offset:          %d
	comment length:     %d (room for %s more)
`,
		name, len(data), humanize.IBytes(uint64(len(data))),
		r.Offset,
		r.DiskNumber,
		r.CDDiskOffset,
		r.CDCountOnDisk,
		r.CDCount,
		r.CDSize,
		r.CDOffset,
		r.CommentLen, humanize.IBytes(uint64(eocd.MaxCommentLen-int(r.CommentLen))))
	return nil
}
