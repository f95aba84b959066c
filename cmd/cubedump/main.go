// cubedump prints the generated geometry, scene layouts and camera
// matrices the demo renders with.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/multicube/internal/config"
	"github.com/Faultbox/multicube/internal/engine/camera"
	"github.com/Faultbox/multicube/internal/engine/lighting"
	"github.com/Faultbox/multicube/internal/game/scene"
	"github.com/Faultbox/multicube/internal/game/world"
	"github.com/Faultbox/multicube/pkg/geometry"
	"github.com/Faultbox/multicube/pkg/math"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	err := run(os.Stdout, os.Args[1], os.Args[2:])
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		printUsage(os.Stderr)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, command string, args []string) error {
	switch command {
	case "mesh":
		return cmdMesh(w, args)
	case "layout":
		return cmdLayout(w, args)
	case "frustum":
		return cmdFrustum(w, args)
	case "help", "-h", "--help":
		printUsage(w)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `cubedump - multicube geometry and layout inspector

Usage:
  cubedump <command> [options]

Commands:
  mesh [-tex] [-normals] [-scale s] [-lit]
                                      Print the cube mesh face by face
  layout [-seed n] [-config file]     Print a generated scene layout as YAML
  frustum [-width w] [-height h]      Print the default camera matrices

Examples:
  cubedump mesh -tex -normals
  cubedump mesh -lit
  cubedump layout -seed 42
  cubedump frustum -width 1920 -height 1080`)
}

func cmdMesh(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("mesh", flag.ContinueOnError)
	fs.SetOutput(w)
	tex := fs.Bool("tex", false, "Include texture coordinates")
	normals := fs.Bool("normals", false, "Include normals")
	scale := fs.Float64("scale", 1, "Scale positions")
	lit := fs.Bool("lit", false, "Print face brightness under the default sun")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lc := config.Default().Lighting
	sun := lighting.NewSun(lc.Longitude, lc.Latitude, lc.Ambient)

	m := geometry.NewCube(*tex, *normals)
	if *scale != 1 {
		m = m.Scaled(float32(*scale))
	}

	fmt.Fprintf(w, "vertices: %d  stride: %d\n", m.VertexCount(), m.Stride)
	for f := range geometry.FaceCount {
		fmt.Fprintf(w, "face %d  normal %v", f, fmtVec3(geometry.FaceNormals[f]))
		if *lit {
			fmt.Fprintf(w, "  light %.3f", sun.Intensity(geometry.FaceNormals[f]))
		}
		fmt.Fprintln(w)
		for v := range geometry.VerticesPerFace {
			i := f*geometry.VerticesPerFace + v
			fmt.Fprintf(w, "  %2d  pos %s", i, fmtVec3(m.Position(i)))
			if n, ok := m.Normal(i); ok {
				fmt.Fprintf(w, "  nrm %s", fmtVec3(n))
			}
			if uv, ok := m.TexCoord(i); ok {
				fmt.Fprintf(w, "  uv (%g, %g)", uv.X, uv.Y)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

// layoutDump is the YAML document printed by the layout command.
type layoutDump struct {
	Seed      uint64           `yaml:"seed"`
	Layout    layoutParameters `yaml:"layout"`
	Instances []world.Instance `yaml:"instances"`
}

type layoutParameters struct {
	Count         int     `yaml:"count"`
	Bound         float32 `yaml:"bound"`
	MinSeparation float32 `yaml:"min_separation"`
	ZOffset       float32 `yaml:"z_offset"`
	PoolSize      int     `yaml:"pool_size"`
}

func cmdLayout(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(w)
	seed := fs.Uint64("seed", 1, "Layout seed")
	cfgPath := fs.String("config", "", "Read scene settings from a config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.LoadFile(*cfgPath); err != nil {
			return err
		}
	}

	lc := scene.LayoutConfig(cfg)
	field, err := world.NewField(scene.NewRand(*seed), lc)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(layoutDump{
		Seed: *seed,
		Layout: layoutParameters{
			Count:         lc.Count,
			Bound:         lc.Bound,
			MinSeparation: lc.MinSeparation,
			ZOffset:       lc.ZOffset,
			PoolSize:      lc.PoolSize,
		},
		Instances: field.Instances,
	})
}

func cmdFrustum(w io.Writer, args []string) error {
	cfg := config.Default()
	fs := flag.NewFlagSet("frustum", flag.ContinueOnError)
	fs.SetOutput(w)
	width := fs.Int("width", cfg.Graphics.Width, "Viewport width")
	height := fs.Int("height", cfg.Graphics.Height, "Viewport height")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cam, err := camera.NewWithSettings(scene.CameraSettings(cfg.Camera), *width, *height, cfg.Camera.Position, cfg.Camera.Focus)
	if err != nil {
		return err
	}
	projection, err := cam.ProjectionMatrix()
	if err != nil {
		return err
	}

	pitch, yaw := cam.PitchYaw()
	fmt.Fprintf(w, "viewport %dx%d  zoom %g  pitch %g  yaw %g\n", *width, *height, cam.Zoom(), pitch, yaw)
	fmt.Fprintln(w, "projection:")
	printMat4(w, projection)
	fmt.Fprintln(w, "view:")
	printMat4(w, cam.ViewMatrix())
	return nil
}

// printMat4 prints m row by row.
func printMat4(w io.Writer, m math.Mat4) {
	for row := range 4 {
		fmt.Fprintf(w, "  [%10.4f %10.4f %10.4f %10.4f]\n", m[row], m[row+4], m[row+8], m[row+12])
	}
}

func fmtVec3(v math.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
