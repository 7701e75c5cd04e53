package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/rs/zerolog"
	"github.com/ypinbong/elevator-simulator/internal/elevclock"
	"github.com/ypinbong/elevator-simulator/internal/elevconfig"
	"github.com/ypinbong/elevator-simulator/internal/elevrequest"
	"github.com/ypinbong/elevator-simulator/internal/elevsim"
	"github.com/ypinbong/elevator-simulator/internal/elevutils"
	"github.com/ypinbong/elevator-simulator/internal/logger"
)

const (
	SPEED_UP_FACTOR  = 0.5
	SLOW_DOWN_FACTOR = 2.0
	STATUS_INTERVAL  = 10 * time.Second
	KEY_BUFFER       = 10
)

var Logger = logger.GetLoggerConfigured(zerolog.InfoLevel)

func loadConfig(opts elevutils.Options) (elevconfig.Config, error) {
	cfg := elevconfig.Default()
	if opts.ConfigPath != "" {
		if err := cfg.LoadFile(opts.ConfigPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.LoadEnvFile(opts.EnvPath); err != nil {
		return cfg, err
	}
	opts.Apply(&cfg)
	return cfg, cfg.Validate()
}

func main() {
	opts := elevutils.ProcessCmdArgs()

	cfg, err := loadConfig(opts)
	if err != nil {
		Logger.Fatal().Msgf("Invalid configuration: %v", err)
	}
	logger.GetLoggerForLevel(cfg.LogLevel)

	Logger.Info().Msgf("Starting Elevator Simulator (version %s)", elevutils.GetGitHash())

	sim, err := elevsim.New(cfg, elevclock.NewRealClock())
	if err != nil {
		Logger.Fatal().Msgf("Error creating simulation: %v", err)
	}
	if err := sim.Start(); err != nil {
		Logger.Fatal().Msgf("Error starting simulation: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	waitGroup := &sync.WaitGroup{}
	logEvents(ctx, waitGroup, sim)
	if cfg.RandomRequestInterval > 0 {
		generateRequests(ctx, waitGroup, sim, cfg.RandomRequestInterval)
	}

	if opts.Interactive {
		Logger.Info().Msg("Keys: r random request, + faster, - slower, p print, q quit")
		handleKeys(ctx, waitGroup, sim, stop)
	} else {
		printStatus(ctx, waitGroup, sim)
	}

	<-ctx.Done()
	stop()
	Logger.Info().Msg("Shutting down")
	waitGroup.Wait()
	if err := sim.Stop(); err != nil {
		Logger.Error().Msgf("Error stopping simulation: %v", err)
	}
	sim.Print()
}

// logEvents drains the event stream so it never fills up.
func logEvents(ctx context.Context, waitGroup *sync.WaitGroup, sim *elevsim.Simulation) {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-sim.Events():
				Logger.Debug().Msgf("%s: %+v", event.EventType(), event.Value)
			}
		}
	}()
}

func generateRequests(ctx context.Context, waitGroup *sync.WaitGroup, sim *elevsim.Simulation, interval time.Duration) {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, err := sim.GenerateRandomRequest()
				if err != nil && !errors.Is(err, elevrequest.ErrQueueFull) && !errors.Is(err, elevrequest.ErrNoFreeFloor) {
					Logger.Error().Msgf("Error generating request: %v", err)
				}
			}
		}
	}()
}

func printStatus(ctx context.Context, waitGroup *sync.WaitGroup, sim *elevsim.Simulation) {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		ticker := time.NewTicker(STATUS_INTERVAL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sim.Print()
			}
		}
	}()
}

// handleKeys owns the keyboard for the lifetime of ctx. The terminal is
// released on any shutdown, including a signal.
func handleKeys(ctx context.Context, waitGroup *sync.WaitGroup, sim *elevsim.Simulation, quit context.CancelFunc) {
	keys, err := keyboard.GetKeys(KEY_BUFFER)
	if err != nil {
		Logger.Error().Msgf("Error opening keyboard: %v", err)
		quit()
		return
	}

	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		defer func() {
			if err := keyboard.Close(); err != nil {
				Logger.Error().Msgf("Error closing keyboard: %v", err)
			}
		}()
		runKeys(ctx, keys, sim, quit)
	}()
}

// runKeys applies key presses to the simulation until ctx is done, the
// quit key is pressed or the key stream ends.
func runKeys(ctx context.Context, keys <-chan keyboard.KeyEvent, sim *elevsim.Simulation, quit context.CancelFunc) {
	for {
		var event keyboard.KeyEvent
		var ok bool
		select {
		case <-ctx.Done():
			return
		case event, ok = <-keys:
		}
		if !ok {
			quit()
			return
		}
		if event.Err != nil {
			Logger.Error().Msgf("Error reading keyboard: %v", event.Err)
			quit()
			return
		}

		switch elevutils.KeyAction(event.Rune, event.Key) {
		case elevutils.ActionRandomRequest:
			if id, err := sim.GenerateRandomRequest(); err != nil {
				Logger.Warn().Msgf("No request generated: %v", err)
			} else {
				Logger.Info().Msgf("Generated request %s", id)
			}
		case elevutils.ActionFaster:
			sim.ScaleSpeed(SPEED_UP_FACTOR)
		case elevutils.ActionSlower:
			sim.ScaleSpeed(SLOW_DOWN_FACTOR)
		case elevutils.ActionPrint:
			sim.Print()
		case elevutils.ActionQuit:
			quit()
			return
		}
	}
}
