// Package sdl2 hosts the renderer in an SDL2 window. SDL delivers the same
// lifecycle on desktop and on Android, where the window's surface comes and
// goes with the activity.
package sdl2

import (
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/mobiletriangle/host"
	"github.com/vkngwrapper/mobiletriangle/render"
	"github.com/vkngwrapper/mobiletriangle/vkng"
)

type WindowOptions struct {
	Title  string
	Width  int
	Height int
}

// Shell owns the SDL window and turns SDL's event queue into host events.
// It must be created and run on the thread that initialized SDL.
type Shell struct {
	log        logrus.FieldLogger
	window     *sdl.Window
	dispatcher *host.Dispatcher

	waitHint int
	lastTick time.Duration
	quit     bool
}

func NewShell(log logrus.FieldLogger, dispatcher *host.Dispatcher, options WindowOptions) (*Shell, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "initializing SDL")
	}

	window, err := sdl.CreateWindow(options.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(options.Width), int32(options.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "creating window")
	}

	return &Shell{
		log:        log,
		window:     window,
		dispatcher: dispatcher,
		waitHint:   host.WaitBlock,
	}, nil
}

// ProcAddr returns the loader entry point SDL resolved for the window.
func (s *Shell) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (s *Shell) SetTickWaitHint(ms int) {
	s.waitHint = ms
}

func (s *Shell) RequiredInstanceExtensions() []string {
	return s.window.VulkanGetInstanceExtensions()
}

func (s *Shell) DrawableSize() (int, int) {
	w, h := s.window.VulkanGetDrawableSize()
	return int(w), int(h)
}

func (s *Shell) CreateSurface(instance render.Instance) (render.Surface, error) {
	vkInstance, ok := instance.(*vkng.Instance)
	if !ok {
		return nil, errors.AssertionFailedf("instance %T was not created by package vkng", instance)
	}

	surface, err := vkng_sdl2.CreateSurface(vkInstance.Driver().Instance(), vkInstance.SurfaceExtension(), s.window)
	if err != nil {
		return nil, err
	}
	return vkInstance.AdoptSurface(surface), nil
}

// Run delivers Start and SurfaceCreated, then pumps events and ticks until
// the window is closed. The surface is always destroyed before Run returns.
func (s *Shell) Run() (err error) {
	defer func() {
		destroyErr := s.dispatcher.Dispatch(host.Event{Kind: host.SurfaceDestroyed})
		err = errors.CombineErrors(err, destroyErr)
	}()

	for _, kind := range []host.Kind{host.Start, host.SurfaceCreated} {
		if err := s.dispatcher.Dispatch(host.Event{Kind: kind}); err != nil {
			return err
		}
	}

	s.lastTick = hrtime.Now()
	for !s.quit {
		for event := s.waitEvent(); event != nil; event = sdl.PollEvent() {
			ev, ok := translateEvent(event)
			if !ok {
				continue
			}

			if ev.Kind == host.Quit {
				s.quit = true
			}

			if err := s.dispatcher.Dispatch(ev); err != nil {
				return err
			}
		}

		if s.quit {
			break
		}

		now := hrtime.Now()
		elapsed := now - s.lastTick
		s.lastTick = now

		if err := s.dispatcher.Dispatch(host.Event{Kind: host.Tick, Elapsed: elapsed}); err != nil {
			return err
		}
	}

	return s.dispatcher.Dispatch(host.Event{Kind: host.Stop})
}

// waitEvent waits for the first event of an iteration according to the
// current hint.
func (s *Shell) waitEvent() sdl.Event {
	switch {
	case s.waitHint == host.WaitPoll:
		return sdl.PollEvent()
	case s.waitHint < 0:
		return sdl.WaitEvent()
	default:
		return sdl.WaitEventTimeout(s.waitHint)
	}
}

func (s *Shell) Close() {
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.Quit()
}
