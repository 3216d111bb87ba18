// cmd/skyglide/main.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains main(), which sets up logging, loads the glider
// and task definitions, and then either runs the simulation in the
// terminal or, for smoke testing, for a fixed number of ticks without one.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/skyglide/skyglide/aviation"
	"github.com/skyglide/skyglide/log"
	"github.com/skyglide/skyglide/nav"
	"github.com/skyglide/skyglide/platform"
	"github.com/skyglide/skyglide/renderer"
	"github.com/skyglide/skyglide/scene"
	"github.com/skyglide/skyglide/sim"
	"github.com/skyglide/skyglide/util"

	"github.com/apenwarr/fixconsole"
	"github.com/gdamore/tcell/v2"
	"github.com/goforj/godump"
	"github.com/shirou/gopsutil/cpu"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
	logLevel   = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir     = flag.String("logdir", "", "log file directory")
	glidersDir = flag.String("gliders", "", "directory of TOML glider definitions to use instead of the built-in ones")
	taskName   = flag.String("task", "", "built-in task name or path to a TOML task definition")
	gliderName = flag.String("glider", "", "glider type to fly")
	tickRate   = flag.Int("rate", 0, "simulation ticks per second")
	seed       = flag.Int64("seed", 0, "random seed (0 picks one from the time)")
	numAI      = flag.Int("ai", -1, "number of AI pilots")
	resumeFile = flag.String("resume", "", "resume the session saved in the given file")
	saveFile   = flag.String("save", "", "save the session to the given file on exit")
	dumpTask   = flag.Bool("dumptask", false, "print the task definition and exit")
	listDefs   = flag.Bool("list", false, "list the built-in tasks and the available glider types")
	noSound    = flag.Bool("nosound", false, "disable the variometer")
	headless   = flag.Int("headless", 0, "run the given number of ticks without a terminal and exit")

	navLog           = flag.Bool("navlog", false, "enable navigation logging (requires the navlog build tag)")
	navLogCategories = flag.String("navlog-categories", "all", "navigation log categories (comma-separated: mode,reached,circuit)")
	navLogName       = flag.String("navlog-name", "", "only log navigation for the body with this name")
)

const statsInterval = 10 * time.Second

func setupSignalHandler(profiler *util.Profiler) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Caught signal, cleaning up...")
		profiler.Cleanup()
		fmt.Fprintln(os.Stderr, "Cleanup complete, exiting")
		os.Exit(0)
	}()
}

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer profiler.Cleanup()

	if *cpuprofile != "" || *memprofile != "" {
		setupSignalHandler(&profiler)
	}

	configPath := configFilePath(lg)
	config, err := LoadOrMakeDefaultConfig(configPath, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Saved configuration is corrupt; using defaults. (%v)\n", err)
		lg.Warnf("%v", err)
	}
	applyFlags(&config)

	nav.InitNavLog(*navLog, *navLogCategories, *navLogName)

	lib := loadLibrary(lg)

	if *listDefs {
		fmt.Println("Tasks:   " + strings.Join(aviation.BuiltinTasks(), ", "))
		fmt.Println("Gliders: " + strings.Join(lib.Names(), ", "))
		return
	}

	task, err := loadTask(config.Task)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		lg.Errorf("%v", err)
		os.Exit(1)
	}

	if *dumpTask {
		godump.Dump(task)
		return
	}

	opts := sim.Options{
		Seed:       *seed,
		UserGlider: config.Glider,
		NumAI:      config.NumAI,
		Rate:       config.TickRate,
		Audio:      platform.NullAudio{},
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	if *headless > 0 {
		opts.UserGlider = ""
		w := makeWorld(task, lib, opts, lg)
		runHeadless(w, *headless, lg)
		saveSession(w, lg)
		return
	}

	defer lg.CatchAndReportCrash()

	var audio *platform.BeepAudio
	if config.Sound && !*noSound {
		audio = platform.NewBeepAudio(platform.VarioClips, lg)
		if err := audio.Initialize(); err != nil {
			lg.Errorf("Unable to initialize audio: %v", err)
		} else {
			opts.Audio = audio
			defer audio.Close()
		}
	}

	w := makeWorld(task, lib, opts, lg)
	if config.PlanView {
		w.TogglePlanView()
	}

	if err := runTerminal(w, lg); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	config.PlanView = w.PlanView()
	if err := config.Save(configPath, lg); err != nil {
		lg.Errorf("%s: %v", configPath, err)
	}
	saveSession(w, lg)
}

// applyFlags overrides the saved config with whatever was given on the
// command line; the result is saved for next time.
func applyFlags(c *Config) {
	if *taskName != "" {
		c.Task = *taskName
	}
	if *gliderName != "" {
		c.Glider = *gliderName
	}
	if *tickRate > 0 {
		c.TickRate = *tickRate
	}
	if *numAI >= 0 {
		c.NumAI = *numAI
	}
}

// loadLibrary loads the user's glider definitions, falling back to the
// built-in ones if they are not usable.
func loadLibrary(lg *log.Logger) *aviation.Library {
	if *glidersDir != "" {
		lib, err := aviation.LoadLibrary(os.DirFS(*glidersDir), ".", lg)
		if err == nil {
			return lib
		}
		fmt.Fprintf(os.Stderr, "%s: %v\nUsing the built-in glider types.\n", *glidersDir, err)
		lg.Errorf("%s: %v", *glidersDir, err)
	}
	return aviation.DefaultLibrary(lg)
}

// loadTask treats name as a file if it names one and as a built-in task
// otherwise.
func loadTask(name string) (*aviation.Task, error) {
	if _, err := os.Stat(name); err == nil {
		return aviation.LoadTaskFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	return aviation.BuiltinTask(name)
}

func makeWorld(task *aviation.Task, lib *aviation.Library, opts sim.Options, lg *log.Logger) *sim.World {
	w, err := sim.NewWorld(task, lib, opts, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		lg.Errorf("%v", err)
		os.Exit(1)
	}

	if *resumeFile != "" {
		snap, err := sim.LoadSnapshot(*resumeFile)
		if err == nil {
			err = w.Restore(snap)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to resume: %v\n", err)
			lg.Errorf("Unable to resume: %v", err)
			os.Exit(1)
		}
	}
	return w
}

func saveSession(w *sim.World, lg *log.Logger) {
	if *saveFile == "" {
		return
	}
	if err := w.Save(*saveFile); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		lg.Errorf("%v", err)
	}
}

func runHeadless(w *sim.World, ticks int, lg *log.Logger) {
	_, _ = cpu.Percent(0, false)
	start := time.Now()
	for range ticks {
		w.Clock.Tick()
	}
	elapsed := time.Since(start)

	usage, _ := cpu.Percent(0, false)
	simTime := float64(w.Clock.Time())
	fmt.Printf("Simulated %.0f seconds in %.2f seconds (%.1fx real-time)\n", simTime,
		elapsed.Seconds(), simTime/max(elapsed.Seconds(), 1e-6))
	if len(usage) > 0 {
		fmt.Printf("CPU usage: %.1f%%\n", usage[0])
	}
	fmt.Printf("%d bodies, %d thermals\n", len(w.Bodies), len(w.Weather.Thermals))
	for _, b := range w.Bodies {
		fmt.Printf("  %-16s %-10s (%6.0f, %6.0f) alt %5.0fm %s\n", b.Name, b.Type.Name, b.P[0], b.P[1],
			b.P[2], b.Nav.Mode())
	}
	lg.Info("headless run complete", slog.Any("world", w), slog.Duration("elapsed", elapsed))
}

func runTerminal(w *sim.World, lg *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("unable to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("unable to initialize terminal: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var resized atomic.Bool
	input := platform.NewTermInput(screen, w.Events, lg)
	input.OnResize = func() { resized.Store(true) }
	input.OnQuit = cancel
	go input.Run(ctx)

	quit := w.Events.Subscribe(func(e platform.KeyEvent) {
		if e.Down && (e.Key == platform.KeyEscape || e.Is('q')) {
			cancel()
		}
	})
	defer quit.Unsubscribe()

	surface := renderer.NewTermSurface(screen)
	frames, lastStats := 0, time.Now()
	frame := func() {
		if resized.Swap(false) {
			screen.Sync()
		}
		surface.Clear(scene.Background)
		w.Render(surface)
		surface.Show()

		frames++
		if now := time.Now(); now.Sub(lastStats) > statsInterval {
			usage, _ := cpu.Percent(0, false)
			lg.Info("frame stats", slog.Float64("fps", float64(frames)/now.Sub(lastStats).Seconds()),
				slog.Any("cpu", usage), slog.Any("world", w))
			frames, lastStats = 0, now
		}
	}

	if err := w.Clock.Run(ctx, frame); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
