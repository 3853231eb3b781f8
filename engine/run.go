package engine

import (
	"math/rand/v2"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Run executes one complete session: participant dialog, output setup,
// the trial sequence and the closing screen. A cancelled dialog returns nil
// before anything is written to the output directory.
func Run(cfg *Config, log *zap.Logger) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return eris.Wrap(err, "sdl: init")
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return eris.Wrap(err, "ttf: init")
	}
	defer ttf.Quit()

	return runSession(cfg, log, func() (Participant, bool, error) {
		return RunParticipantDialog(cfg.Font.File)
	})
}

// runSession runs everything after SDL is up. ask supplies the participant;
// ok=false ends the session before anything is written.
func runSession(cfg *Config, log *zap.Logger, ask func() (Participant, bool, error)) error {
	participant, ok, err := ask()
	if err != nil {
		return err
	}
	if !ok {
		log.Info("participant dialog cancelled")
		return nil
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	info := NewSessionInfo(participant, cfg.Catalog.Path, seed, time.Now())

	catalog, err := LoadCatalog(cfg.Catalog.Path, cfg.Catalog.Encoding)
	if err != nil {
		return err
	}
	keys := cfg.Keys.Keys()
	schedule, err := NewSchedule(catalog.Len(), rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return err
	}

	// Nothing is written until the catalog and schedule are known good.
	paths, err := PrepareOutput(cfg.Output.Dir, info)
	if err != nil {
		return err
	}

	sessionLog, err := NewSessionLogger(log, paths.Log)
	if err != nil {
		return err
	}
	defer sessionLog.Close()
	logger := sessionLog.With(zap.String("session", info.ID), zap.String("subject", info.Subject))

	info = info.WithSchedule(schedule, keys)
	if err := WriteSessionInfo(paths.Info, info); err != nil {
		return err
	}
	logger.Info("session prepared",
		zap.String("catalog", cfg.Catalog.Path),
		zap.Int("trials", catalog.Len()),
		zap.Uint64("seed", seed),
		zap.Ints("trial_order", schedule.Order),
	)

	font, err := OpenFont(cfg.Font.File, cfg.Font.Size)
	if err != nil {
		return err
	}
	defer font.Close()

	screen, err := OpenScreen(cfg, font)
	if err != nil {
		return err
	}
	defer screen.Close()

	results, err := CreateResultLog(paths.Results, cfg.Output.Encoding)
	if err != nil {
		return err
	}
	defer results.Close()
	sinks := MultiSink{results}

	if cfg.Archive.Path != "" {
		archive, err := OpenArchive(cfg.Archive.Path, info)
		if err != nil {
			return err
		}
		defer archive.Close()
		sinks = append(sinks, archive)
	}

	var trigger Trigger = NopTrigger{}
	if cfg.Trigger.Device != "" {
		dlp, err := NewDLPIO8G(cfg.Trigger.Device, cfg.Trigger.Baud, logger)
		if err != nil {
			logger.Warn("trigger box unavailable, continuing without triggers", zap.Error(err))
		} else {
			defer dlp.Close()
			trigger = dlp
		}
	}

	runner, err := NewRunner(RunnerConfig{
		Subject:  info.Subject,
		Catalog:  catalog,
		Schedule: schedule,
		Keys:     keys,
		Timing:   DefaultTiming,
		Display:  screen,
		Input:    screen,
		Clock:    screen,
		Sink:     sinks,
		Trigger:  trigger,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if err := runner.Run(); err != nil {
		return err
	}
	logger.Info("results saved", zap.String("path", results.Path()))
	return nil
}
