// Package config loads the application's configuration from the
// environment, a .env file and the command line.
package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/mobiletriangle/render"
)

const (
	EnvAppName          = "TRIANGLE_APP_NAME"
	EnvValidation       = "TRIANGLE_VALIDATION"
	EnvValidationLayers = "TRIANGLE_VALIDATION_LAYERS"
	EnvVertexInput      = "TRIANGLE_VERTEX_INPUT"
	EnvWidth            = "TRIANGLE_WIDTH"
	EnvHeight           = "TRIANGLE_HEIGHT"
	EnvLogLevel         = "TRIANGLE_LOG_LEVEL"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrHelp is returned by ProcessCommandLineArgs after printing usage.
	ErrHelp = errors.New("help requested")
)

type Configuration struct {
	Renderer RendererConfiguration
	Window   WindowConfiguration
	Log      LogConfiguration
}

type RendererConfiguration struct {
	ApplicationName  string
	Validation       bool
	ValidationLayers []string
	VertexInput      render.VertexInputMode
}

type WindowConfiguration struct {
	Title  string
	Width  int
	Height int
}

type LogConfiguration struct {
	Level logrus.Level
}

// Options converts the renderer section into renderer options.
func (c RendererConfiguration) Options() render.Options {
	return render.Options{
		ApplicationName:  c.ApplicationName,
		Validation:       c.Validation,
		ValidationLayers: c.ValidationLayers,
		VertexInput:      c.VertexInput,
	}
}

// Default is the configuration before the environment is applied.
// Validation and debug logging follow the debug build tag.
func Default() Configuration {
	level := logrus.InfoLevel
	if debugBuild {
		level = logrus.DebugLevel
	}

	return Configuration{
		Renderer: RendererConfiguration{
			ApplicationName:  "Triangle",
			Validation:       debugBuild,
			ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
			VertexInput:      render.VertexInputMesh,
		},
		Window: WindowConfiguration{
			Title:  "Triangle",
			Width:  800,
			Height: 600,
		},
		Log: LogConfiguration{
			Level: level,
		},
	}
}

func invalid(err error, key string) error {
	return errors.Mark(errors.Wrapf(err, "%s", key), ErrInvalidConfiguration)
}

// Load applies the environment on top of Default.
func Load() (Configuration, error) {
	cfg := Default()

	// Empty values count as unset.
	if value := envy.Get(EnvAppName, ""); value != "" {
		cfg.Renderer.ApplicationName = value
		cfg.Window.Title = value
	}

	if value := envy.Get(EnvValidation, ""); value != "" {
		validation, err := strconv.ParseBool(value)
		if err != nil {
			return cfg, invalid(err, EnvValidation)
		}
		cfg.Renderer.Validation = validation
	}

	if value := envy.Get(EnvValidationLayers, ""); value != "" {
		cfg.Renderer.ValidationLayers = splitList(value)
	}

	mode, err := render.ParseVertexInputMode(envy.Get(EnvVertexInput, ""))
	if err != nil {
		return cfg, invalid(err, EnvVertexInput)
	}
	cfg.Renderer.VertexInput = mode

	cfg.Window.Width, err = positiveInt(EnvWidth, cfg.Window.Width)
	if err != nil {
		return cfg, err
	}

	cfg.Window.Height, err = positiveInt(EnvHeight, cfg.Window.Height)
	if err != nil {
		return cfg, err
	}

	if value := envy.Get(EnvLogLevel, ""); value != "" {
		level, err := logrus.ParseLevel(value)
		if err != nil {
			return cfg, invalid(err, EnvLogLevel)
		}
		cfg.Log.Level = level
	}

	return cfg, nil
}

func positiveInt(key string, def int) (int, error) {
	value := envy.Get(key, "")
	if value == "" {
		return def, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return def, invalid(err, key)
	}
	if n <= 0 {
		return def, invalid(errors.Newf("must be positive, got %d", n), key)
	}
	return n, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ProcessCommandLineArgs applies command line flags on top of the
// environment. Usage and complaints about unknown options go to out.
func (c *Configuration) ProcessCommandLineArgs(args []string, out io.Writer) error {
	for _, arg := range args {
		if arg == "--validation" {
			c.Renderer.Validation = true
		} else if arg == "--no-validation" {
			c.Renderer.Validation = false
		} else if arg == "--generated" {
			c.Renderer.VertexInput = render.VertexInputGenerated
		} else if arg == "--help" || arg == "-h" {
			fmt.Fprintln(out, "\nOptions")
			fmt.Fprintln(out, "\t--validation")
			fmt.Fprintln(out, "\t\tEnable validation layers and the debug messenger")
			fmt.Fprintln(out, "\t--no-validation")
			fmt.Fprintln(out, "\t\tDisable validation even in debug builds")
			fmt.Fprintln(out, "\t--generated")
			fmt.Fprintln(out, "\t\tDraw the triangle from the vertex shader instead of a vertex buffer")
			return ErrHelp
		} else {
			fmt.Fprintf(out, "\nUnrecognized option: %s\n", arg)
			fmt.Fprintln(out, "\nUse --help or -h for option list.")
			return errors.Mark(errors.Newf("unrecognized option %s", arg), ErrInvalidConfiguration)
		}
	}

	return nil
}
