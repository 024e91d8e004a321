// vtgrid runs a command under a pty, feeds everything it writes
// through the screen core and prints the final rendered grid. It
// exists to exercise the emulation end to end; real hosts embed the
// vt package directly.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/bdwalton/vtgrid/logging"
	"github.com/bdwalton/vtgrid/vt"
	"github.com/creack/pty"
	"golang.org/x/term"
)

var (
	cols     = flag.Int("cols", vt.DEF_COLS, "Number of columns for the screen")
	rows     = flag.Int("rows", vt.DEF_ROWS, "Number of rows for the screen")
	history  = flag.Int("history", vt.DEF_HISTORY, "Scrollback capacity in lines")
	debug    = flag.Bool("debug", false, "If true, enable DEBUG log level for verbose log output")
	logfile  = flag.String("logfile", "", "If set, logs will be written to this file.")
	withHist = flag.Bool("print_history", false, "If true, print scrollback above the grid")
)

func main() {
	flag.Parse()

	if err := logging.Setup(*logfile, *debug); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{os.Getenv("SHELL")}
		if args[0] == "" {
			args = []string{"/bin/sh"}
		}
	}

	cmd := exec.Command(args[0], args[1:]...)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(*rows), Cols: uint16(*cols)})
	if err != nil {
		slog.Error("couldn't start pty", "err", err)
		os.Exit(1)
	}
	defer ptmx.Close()

	screen := vt.NewScreen(*cols, *rows, *history)
	screen.SetReplySink(ptmx)
	screen.SetNotifier(func(msg string) {
		slog.Debug("screen notification", "msg", msg)
	})

	if term.IsTerminal(int(os.Stdin.Fd())) {
		orig, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err == nil {
			defer term.Restore(int(os.Stdin.Fd()), orig)
			go io.Copy(ptmx, os.Stdin)
		}
	}

	if _, err := io.Copy(screen, ptmx); err != nil {
		// pty read errors on child exit are expected
		slog.Debug("pty copy ended", "err", err)
	}
	cmd.Wait()

	if *withHist {
		for i := 0; i < screen.HistorySize(); i++ {
			l, err := screen.RenderHistoryTextLine(i)
			if err != nil {
				break
			}
			fmt.Println(l)
		}
	}
	fmt.Print(screen.RenderText())

	if title := screen.Title(); title != "" {
		fmt.Printf("title: %s\n", title)
	}
}
