// waterprobe steps a water surface headlessly and reports surface queries,
// buoyancy and mirror camera matrices.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/tidewater/internal/assets"
	"github.com/Faultbox/tidewater/internal/config"
	"github.com/Faultbox/tidewater/internal/engine/camera"
	"github.com/Faultbox/tidewater/internal/engine/debug"
	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/internal/logger"
	"github.com/Faultbox/tidewater/internal/world"
	"github.com/Faultbox/tidewater/pkg/math"
)

var (
	flagX          = flag.Float64("x", 0, "Probe point X")
	flagY          = flag.Float64("y", 0, "Probe point Y")
	flagZ          = flag.Float64("z", 0, "Probe point Z")
	flagSteps      = flag.Int("steps", 60, "Number of simulation steps")
	flagDT         = flag.Float64("dt", 1.0/60, "Step length in seconds")
	flagSnapshot   = flag.String("snapshot", "", "Write a WebP height snapshot into this directory")
	flagScale      = flag.Int("scale", 8, "Snapshot pixels per grid vertex")
	flagExportMesh = flag.String("export-mesh", "", "Write the final surface mesh as GLB to this path")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("probe failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	am := assets.NewManager()
	defer am.Close()

	w, err := world.New(cfg, am)
	if err != nil {
		return err
	}

	body := world.DefaultBody()
	w.AddBody(body, math.Vec3{X: float32(*flagX), Y: 1, Z: float32(*flagZ)})

	probe := math.Vec3{X: float32(*flagX), Y: float32(*flagY), Z: float32(*flagZ)}
	dt := float32(*flagDT)

	for i := 0; i < *flagSteps; i++ {
		if err := w.Step(dt); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		p := w.Probe(probe)
		logger.Debug("step",
			zap.Int("step", i),
			zap.Float32("time", w.Time()),
			zap.Float32("height", p.Height),
			zap.Float32s("normal", vec(p.Normal)),
			zap.Bool("underwater", p.Underwater),
			zap.Float32("body_y", body.Position.Y),
			zap.Float32("body_submerged", body.SubmergedFraction()),
		)
	}

	p := w.Probe(probe)
	logger.Info("probe",
		zap.Float32s("point", vec(probe)),
		zap.Float32("height", p.Height),
		zap.Float32s("normal", vec(p.Normal)),
		zap.Bool("underwater", p.Underwater),
	)
	logger.Info("body",
		zap.Float32s("position", vec(body.Position)),
		zap.Float32("submerged", body.SubmergedFraction()),
		zap.Bool("underwater", body.Underwater()),
	)

	if err := logMirror(cfg, w); err != nil {
		return err
	}

	if *flagSnapshot != "" {
		sw := debug.NewSnapshotWriter(*flagSnapshot, "waterprobe", *flagScale)
		path, err := sw.WriteWebP(w.Grid)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		logger.Info("snapshot written", zap.String("path", path))
	}

	if *flagExportMesh != "" {
		if err := assets.SaveGridMesh(*flagExportMesh, w.Mesh.Vertices, w.Mesh.Indices); err != nil {
			return err
		}
		logger.Info("mesh exported", zap.String("path", *flagExportMesh))
	}

	return nil
}

// logMirror evaluates the rig for a camera framing the surface.
func logMirror(cfg *config.Config, w *world.World) error {
	cam := camera.NewOrbitCamera()
	cam.FitToBounds(w.Bounds())
	aspect := float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height)

	var pass water.RenderPass
	eval, err := w.Mirror(&pass, cam.State(aspect))
	if err != nil {
		return fmt.Errorf("mirror: %w", err)
	}

	logger.Info("mirror",
		zap.Stringer("mode", w.Rig.EffectiveMode()),
		zap.Float32s("camera", vec(cam.Position())),
	)
	if r := eval.Reflection; r != nil {
		logger.Info("reflection",
			zap.Float32s("position", vec(r.Position)),
			zap.Float32s("view", r.View[:]),
			zap.Float32s("projection", r.Projection[:]),
			zap.Bool("invert_winding", r.InvertWinding),
		)
	}
	if r := eval.Refraction; r != nil {
		logger.Info("refraction",
			zap.Float32s("projection", r.Projection[:]),
		)
	}
	return nil
}

func vec(v math.Vec3) []float32 {
	return []float32{v.X, v.Y, v.Z}
}
