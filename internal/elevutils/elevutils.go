package elevutils

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ypinbong/elevator-simulator/internal/elevconfig"
)

//go:generate sh -c "printf %s $(git rev-parse HEAD) > githash.txt"
//go:embed githash.txt
var gitHash string

func GetGitHash() string {
	return gitHash
}

type Options struct {
	ConfigPath   string
	EnvPath      string
	Floors       int
	Cars         int
	LogLevel     string
	Interactive  bool
	AutoGenerate time.Duration
	Seed         int64
	Help         bool
	Version      bool

	set map[string]bool
}

func newFlagSet(opts *Options, output io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet("elevatorsim", flag.ContinueOnError)
	flags.SetOutput(output)

	flags.BoolVar(&opts.Help, "help", false, "Show Help Window")
	flags.BoolVar(&opts.Version, "version", false, "Show Version")
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.EnvPath, "env", ".env", "Path to a .env file with ELEVATOR_* overrides. Ignored if missing")
	flags.IntVar(&opts.Floors, "floors", 0, "Number of floors. Overrides the config file")
	flags.IntVar(&opts.Cars, "cars", 0, "Number of cars. Overrides the config file")
	flags.StringVar(&opts.LogLevel, "loglevel", "", "Log level (trace, debug, info, warn, error). Overrides the config file")
	flags.BoolVar(&opts.Interactive, "interactive", false, "Control the simulation from the keyboard")
	flags.DurationVar(&opts.AutoGenerate, "autogenerate", 0, "Generate a random request at this interval, 0 disables")
	flags.Int64Var(&opts.Seed, "seed", 0, "Random seed, 0 picks one from the time")
	return flags
}

// ParseArgs parses the command line without exiting.
func ParseArgs(args []string, output io.Writer) (Options, error) {
	var opts Options
	flags := newFlagSet(&opts, output)
	if err := flags.Parse(args); err != nil {
		return Options{}, err
	}
	if flags.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	opts.set = map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, nil
}

// Apply copies the flags that were given on the command line over cfg.
func (o Options) Apply(cfg *elevconfig.Config) {
	if o.set["floors"] {
		cfg.Floors = o.Floors
	}
	if o.set["cars"] {
		cfg.Cars = o.Cars
		if len(cfg.InitialFloors) != cfg.Cars {
			cfg.InitialFloors = nil
		}
	}
	if o.set["loglevel"] {
		cfg.LogLevel = o.LogLevel
	}
	if o.set["autogenerate"] {
		cfg.RandomRequestInterval = o.AutoGenerate
	}
	if o.set["seed"] {
		cfg.Seed = o.Seed
	}
}

func ProcessCmdArgs() Options {
	opts, err := ParseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Println(err)
		os.Exit(2)
	}

	if opts.Version {
		fmt.Println("Version:", GetGitHash())
		os.Exit(0)
	}

	if opts.Help {
		fmt.Println("Usage: ./elevatorsim [OPTIONS]")
		fmt.Println("Elevator dispatch simulator")
		fmt.Println()
		fmt.Println("Options:")
		newFlagSet(&Options{}, os.Stdout).PrintDefaults()
		fmt.Println()
		fmt.Println("Keys (with -interactive):")
		for _, binding := range KeyBindings() {
			fmt.Printf("	%-8s %s\n", binding.Key, binding.Action)
		}
		os.Exit(0)
	}

	return opts
}
