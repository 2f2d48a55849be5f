package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"
)

// exit terminates with status 1 if err is anything other than go-flags having printed the help message.
//
// A Windows console started by double-clicking the executable closes as soon as the process ends, so on Windows a key
// press is awaited first whenever stdin is a terminal.
func exit(err error) {
	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprintln(os.Stderr, "Press Enter to close this window")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	}

	if code := exitCode(err); code != 0 {
		os.Exit(code)
	}
}

// exitCode is 0 for a nil error or the help-requested error from go-flags, 1 otherwise.
func exitCode(err error) int {
	if err == nil || flags.WroteHelp(err) {
		return 0
	}

	return 1
}
