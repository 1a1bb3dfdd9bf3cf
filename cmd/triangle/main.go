package main

import (
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/mobiletriangle/assets"
	"github.com/vkngwrapper/mobiletriangle/config"
	"github.com/vkngwrapper/mobiletriangle/host"
	"github.com/vkngwrapper/mobiletriangle/host/sdl2"
	"github.com/vkngwrapper/mobiletriangle/render"
	"github.com/vkngwrapper/mobiletriangle/vkng"
)

func init() {
	runtime.LockOSThread()
}

func run(log *logrus.Logger, cfg config.Configuration) error {
	dispatcher := host.NewDispatcher(log)

	shell, err := sdl2.NewShell(log, dispatcher, sdl2.WindowOptions{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	})
	if err != nil {
		return err
	}
	defer shell.Close()

	loader, err := vkng.NewLoader(shell.ProcAddr())
	if err != nil {
		return err
	}

	renderer := render.NewRenderer(log, loader, shell, assets.Bundled(), shell, cfg.Renderer.Options())
	renderer.Register(dispatcher)

	return shell.Run()
}

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	err = cfg.ProcessCommandLineArgs(os.Args[1:], os.Stdout)
	if errors.Is(err, config.ErrHelp) {
		return
	} else if err != nil {
		os.Exit(2)
	}

	log.SetLevel(cfg.Log.Level)

	err = run(log, cfg)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
