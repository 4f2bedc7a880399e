package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/reckonlang/reckon"
	"github.com/reckonlang/reckon/interp"
	"github.com/reckonlang/reckon/library"
	"github.com/reckonlang/reckon/repl"
)

var (
	evalFlag   = flag.String("e", "", "evaluate the given script text and exit.")
	configFlag = flag.String("config", "", "path to a TOML configuration file.")
)

func usage() {
	message := `Usage: %s [options] [script...]

    Runs the given script files in order. With no scripts and no -e,
    starts an interactive session.

Options:
`
	fmt.Fprintf(os.Stderr, message, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	config := repl.NewConfig()
	if *configFlag != "" {
		var err error
		config, err = repl.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	session := reckon.New()
	logger = logger.With(zap.String("session", session.ID.String()))

	lib := library.NewService(config.Library, &libraryDiag{l: logger})
	if err := lib.Open(session); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *evalFlag != "" {
		v, err := session.Eval(*evalFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if _, isNull := v.(interp.Null); !isNull {
			fmt.Println(interp.FormatValue(v))
		}
		return
	}

	if args := flag.Args(); len(args) > 0 {
		for _, path := range args {
			if _, err := session.EvalFile(path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		return
	}

	r := repl.New(session, config, os.Stdin, os.Stdout)
	if err := r.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// libraryDiag adapts the structured logger to the library service's
// diagnostic interface.
type libraryDiag struct {
	l *zap.Logger
}

func (d *libraryDiag) Debug(msg string) {
	d.l.Debug(msg)
}

func (d *libraryDiag) Error(msg string, err error) {
	d.l.Error(msg, zap.Error(err))
}

func (d *libraryDiag) Loading(file string) {
	d.l.Info("loading library file", zap.String("file", file))
}
