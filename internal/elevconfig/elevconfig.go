package elevconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/ypinbong/elevator-simulator/internal/elevclock"
	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/logger"
	"gopkg.in/yaml.v3"
)

var Log = logger.GetLogger()

var ErrConfiguration = elevclock.ErrConfiguration

const (
	DEFAULT_TRAVEL_DURATION = 2000 * time.Millisecond
	DEFAULT_DOOR_DURATION   = 2000 * time.Millisecond
	DEFAULT_EVENT_BUFFER    = 256
)

type Config struct {
	Floors                   int           `yaml:"Floors"`
	Cars                     int           `yaml:"Cars"`
	TravelDuration           time.Duration `yaml:"TravelDuration"`
	DoorOpenDuration         time.Duration `yaml:"DoorOpenDuration"`
	MaxPendingRequests       int           `yaml:"MaxPendingRequests"`
	MaxGeneratedDestinations int           `yaml:"MaxGeneratedDestinations"`
	RandomRequestInterval    time.Duration `yaml:"RandomRequestInterval"`
	EventBufferSize          int           `yaml:"EventBufferSize"`
	InitialFloors            []int         `yaml:"InitialFloors"`
	Seed                     int64         `yaml:"Seed"`
	LogLevel                 string        `yaml:"LogLevel"`
}

func Default() Config {
	return Config{
		Floors:                   elevconsts.DefaultFloors,
		Cars:                     elevconsts.DefaultCars,
		TravelDuration:           DEFAULT_TRAVEL_DURATION,
		DoorOpenDuration:         DEFAULT_DOOR_DURATION,
		MaxPendingRequests:       elevconsts.DefaultMaxPending,
		MaxGeneratedDestinations: elevconsts.DefaultMaxDestinations,
		EventBufferSize:          DEFAULT_EVENT_BUFFER,
		LogLevel:                 "info",
	}
}

// LoadFile decodes a YAML file over the current values. Keys missing from
// the file keep their value.
func (c *Config) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config %s: %w", path, err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(c); err != nil {
		return fmt.Errorf("decoding config %s: %w", path, err)
	}
	Log.Debug().Msgf("Loaded config file %s", path)
	return nil
}

// LoadEnvFile applies ELEVATOR_* keys from a .env file. A missing file is
// not an error.
func (c *Config) LoadEnvFile(path string) error {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		Log.Debug().Msgf("No env file at %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	return c.ApplyEnv(env)
}

// ApplyEnv overrides fields from ELEVATOR_* keys. Durations accept Go
// duration strings ("1500ms") or plain milliseconds ("1500").
func (c *Config) ApplyEnv(env map[string]string) error {
	ints := map[string]*int{
		"ELEVATOR_FLOORS":                     &c.Floors,
		"ELEVATOR_CARS":                       &c.Cars,
		"ELEVATOR_MAX_PENDING_REQUESTS":       &c.MaxPendingRequests,
		"ELEVATOR_MAX_GENERATED_DESTINATIONS": &c.MaxGeneratedDestinations,
		"ELEVATOR_EVENT_BUFFER_SIZE":          &c.EventBufferSize,
	}
	for key, field := range ints {
		value, ok := env[key]
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrConfiguration, key, value)
		}
		*field = parsed
	}

	durations := map[string]*time.Duration{
		"ELEVATOR_TRAVEL_DURATION":         &c.TravelDuration,
		"ELEVATOR_DOOR_OPEN_DURATION":      &c.DoorOpenDuration,
		"ELEVATOR_RANDOM_REQUEST_INTERVAL": &c.RandomRequestInterval,
	}
	for key, field := range durations {
		value, ok := env[key]
		if !ok {
			continue
		}
		parsed, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a duration", ErrConfiguration, key, value)
		}
		*field = parsed
	}

	if value, ok := env["ELEVATOR_SEED"]; ok {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: ELEVATOR_SEED=%q is not an integer", ErrConfiguration, value)
		}
		c.Seed = seed
	}
	if value, ok := env["ELEVATOR_LOG_LEVEL"]; ok {
		c.LogLevel = value
	}
	return nil
}

func parseDuration(value string) (time.Duration, error) {
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(value)
}

func (c Config) Timing() elevclock.Timing {
	return elevclock.Timing{Travel: c.TravelDuration, Door: c.DoorOpenDuration}
}

func (c Config) Validate() error {
	if c.Floors < 2 {
		return fmt.Errorf("%w: need at least 2 floors, got %d", ErrConfiguration, c.Floors)
	}
	if c.Cars < 1 {
		return fmt.Errorf("%w: need at least 1 car, got %d", ErrConfiguration, c.Cars)
	}
	if err := c.Timing().Validate(); err != nil {
		return err
	}
	if c.MaxPendingRequests < 1 {
		return fmt.Errorf("%w: MaxPendingRequests must be positive, got %d", ErrConfiguration, c.MaxPendingRequests)
	}
	if c.MaxGeneratedDestinations < 1 {
		return fmt.Errorf("%w: MaxGeneratedDestinations must be positive, got %d", ErrConfiguration, c.MaxGeneratedDestinations)
	}
	if c.RandomRequestInterval < 0 {
		return fmt.Errorf("%w: RandomRequestInterval must not be negative", ErrConfiguration)
	}
	if c.InitialFloors != nil {
		if len(c.InitialFloors) != c.Cars {
			return fmt.Errorf("%w: %d initial floors for %d cars", ErrConfiguration, len(c.InitialFloors), c.Cars)
		}
		for _, floor := range c.InitialFloors {
			if floor < 1 || floor > c.Floors {
				return fmt.Errorf("%w: initial floor %d outside [1, %d]", ErrConfiguration, floor, c.Floors)
			}
		}
	}
	if c.EventBufferSize < 1 {
		return fmt.Errorf("%w: EventBufferSize must be positive, got %d", ErrConfiguration, c.EventBufferSize)
	}
	return nil
}
