package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"

	tanlog "tan/internal/log"
	"tan/internal/repl"
	"tan/internal/runner"
	"tan/internal/util"
)

// Exit codes follow sysexits.h.
const (
	exitUsage   = 64
	exitDataErr = 65
	exitRuntime = 70
	exitIOErr   = 74
)

var (
	// Version is the current version of the tan binary, set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath string
	maxDepth   int
	enableDB   bool
	showSource bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Load settings from a .toml or .yaml file")
	// evaluator config
	flag.IntVar(&maxDepth, "max-depth", util.DefaultMaxCallDepth, "Maximum call depth before 'Stack overflow.'")
	flag.BoolVar(&enableDB, "db", false, "Enable the dbOpen/dbExec/dbQuery/dbClose natives")
	flag.BoolVar(&showSource, "show-source", false, "Print source excerpts under diagnostics")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if version {
		printVersion()
		return 0
	}

	if help {
		printHelp()
		return 0
	}

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: tan [options] [script]")
		return exitUsage
	}

	config, err := loadConfiguration()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	logger, closer, err := tanlog.New(config.LogLevel, config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v; falling back to stderr\n", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	// Optional profiling via env var: TAN_CPU_PROFILE=<path>
	if profPath := os.Getenv("TAN_CPU_PROFILE"); profPath != "" {
		profFile, err := os.Create(profPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create CPU profile %q: %v\n", profPath, err)
		} else if err := pprof.StartCPUProfile(profFile); err != nil {
			fmt.Fprintf(os.Stderr, "could not start CPU profile: %v\n", err)
			_ = profFile.Close()
		} else {
			defer func() {
				pprof.StopCPUProfile()
				_ = profFile.Close()
			}()
		}
	}

	r := runner.New(config, os.Stdout, os.Stderr, logger)
	defer func() {
		if err := r.Close(); err != nil {
			logger.Warn("failed to release resources", slog.Any("error", err))
		}
	}()

	if flag.NArg() == 0 {
		repl.Start(os.Stdin, os.Stdout, r)
		return 0
	}

	return runFile(r, flag.Arg(0), logger)
}

func runFile(r *runner.Runner, path string, logger *slog.Logger) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read '%s': %v\n", path, err)
		return exitIOErr
	}

	status := r.Run(string(src))
	logger.Debug("script finished", slog.String("file", path), slog.String("status", status.String()))

	switch status {
	case runner.StatusCompileError:
		return exitDataErr
	case runner.StatusRuntimeError:
		return exitRuntime
	}
	return 0
}

// loadConfiguration layers explicitly set flags over the config file (or
// the defaults when there is none).
func loadConfiguration() (util.Configuration, error) {
	config := util.DefaultConfiguration()
	if configPath != "" {
		var err error
		if config, err = util.LoadConfiguration(configPath); err != nil {
			return config, err
		}
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "max-depth":
			if maxDepth <= 0 {
				flagErr = fmt.Errorf("-max-depth must be positive, got %d", maxDepth)
			}
			config.MaxCallDepth = maxDepth
		case "db":
			config.EnableDatabase = enableDB
		case "show-source":
			config.ShowSource = showSource
		}
	})

	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	return config, flagErr
}

func printVersion() {
	fmt.Printf("tan version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: tan [options] [script]

Options:
  -config <path>     Load settings from a .toml, .yaml or .yml file.
  -max-depth <n>     Maximum call depth. Default is %d.
  -db                Enable the database natives (sqlite3, mysql, postgres).
  -show-source       Print source excerpts under diagnostics.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
This is the Tan programming language. Flags given on the command line
override values from the config file.

Examples:
  tan                           Start the interactive prompt
  tan -log-level=debug          Start with debug logging enabled
  tan script.tan                Execute the provided Tan file
  tan -config tan.toml x.tan    Execute with settings from tan.toml

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, util.DefaultMaxCallDepth, Version, BuildDate, Commit)
}
