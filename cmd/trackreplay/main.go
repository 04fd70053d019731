// Command trackreplay loads GPS telemetry logs, aligns them to an optional
// reference track and replays every vehicle on one shared clock.
//
// Usage:
//
//	trackreplay [-config replay.yaml] [-track circuit.json] [-speed 4] [-for 30s] [-report out/] log1.csv log2.gpx ...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/banshee-data/trackreplay/internal/config"
	"github.com/banshee-data/trackreplay/internal/fsutil"
	"github.com/banshee-data/trackreplay/internal/render"
	"github.com/banshee-data/trackreplay/internal/report"
	"github.com/banshee-data/trackreplay/internal/timeutil"
	"github.com/banshee-data/trackreplay/internal/version"
	"github.com/banshee-data/trackreplay/internal/workspace"
)

var (
	configFile  = flag.String("config", "", "Replay config file (.json, .yaml or .yml)")
	trackFile   = flag.String("track", "", "Reference track JSON")
	speed       = flag.Float64("speed", 0, "Playback speed multiplier (0 uses the config default)")
	playFor     = flag.Duration("for", 0, "Play back for this long, then exit (0 skips playback)")
	reportDir   = flag.String("report", "", "Write paths.png and speed.html to this directory")
	logEvery    = flag.Int("log-every", 60, "Log each marker position every N frames (0 disables)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

type options struct {
	configFile string
	trackFile  string
	speed      float64
	playFor    time.Duration
	reportDir  string
	logEvery   int
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] telemetry-file...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	o := options{
		configFile: *configFile,
		trackFile:  *trackFile,
		speed:      *speed,
		playFor:    *playFor,
		reportDir:  *reportDir,
		logEvery:   *logEvery,
	}
	if err := run(ctx, fsutil.OSFileSystem{}, timeutil.RealClock{}, o, flag.Args()); err != nil {
		log.Fatalf("trackreplay: %v", err)
	}
}

func run(ctx context.Context, fsys fsutil.FileSystem, clock timeutil.Clock, o options, files []string) error {
	cfg := config.EmptyReplayConfig()
	if o.configFile != "" {
		var err error
		if cfg, err = config.LoadReplayConfig(fsys, o.configFile); err != nil {
			return err
		}
		log.Printf("loaded config %s", o.configFile)
	}

	ws := workspace.New(fsys, cfg, &render.LogRenderer{MoveEvery: o.logEvery})
	if o.trackFile != "" {
		if _, err := ws.LoadReferenceTrack(o.trackFile); err != nil {
			log.Printf("reference track not loaded: %v", err)
		}
	}

	if _, err := ws.LoadTelemetry(ctx, files...); err != nil {
		if ctx.Err() != nil {
			return err
		}
		log.Printf("some files failed to load: %v", err)
	}
	sessions := ws.Sessions()
	if len(sessions) == 0 {
		return errors.New("no telemetry sessions loaded")
	}

	for _, s := range report.Summarize(sessions, cfg.GetSourceSpeedUnits(), cfg.GetSpeedUnits()) {
		log.Printf("%-20s points=%-6d duration=%7.1fs cropped=%-5t valid=%-5t offtrack=%-3d mean=%.1f max=%.1f",
			s.Name, s.Points, s.Duration, s.Cropped, s.Valid, s.OffTrackCount, s.MeanSpeed, s.MaxSpeed)
	}

	if o.reportDir != "" {
		if err := writeReports(fsys, o.reportDir, ws, cfg); err != nil {
			return err
		}
	}

	if o.playFor <= 0 {
		return nil
	}
	if o.speed > 0 {
		if err := ws.SetSpeed(o.speed); err != nil {
			return err
		}
	}

	playCtx, cancel := context.WithTimeout(ctx, o.playFor)
	defer cancel()
	ws.Play()
	err := ws.Run(playCtx, clock)
	st := ws.State()
	log.Printf("playback stopped at %.1fs of %.1fs (%gx)", st.CurrentTime, st.TotalDuration, st.Speed)
	for _, r := range ws.Readouts() {
		log.Printf("%-20s t=%.1fs speed=%s lat_g=%.2f lon_g=%.2f fix=%s", r.Name, r.RelTime, r.SpeedText, r.LateralAccel, r.LongitudinalAccel, r.FixQuality)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func writeReports(fsys fsutil.FileSystem, dir string, ws *workspace.Workspace, cfg *config.ReplayConfig) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	sessions := ws.Sessions()

	pathsFile := filepath.Join(dir, "paths.png")
	if err := report.WritePathPlot(fsys, pathsFile, ws.ReferenceTrack(), sessions); err != nil {
		return err
	}

	speedFile := filepath.Join(dir, "speed.html")
	f, err := fsys.Create(speedFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", speedFile, err)
	}
	if err := report.WriteSpeedChart(f, sessions, cfg.GetSourceSpeedUnits(), cfg.GetSpeedUnits()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s and %s", pathsFile, speedFile)
	return nil
}
