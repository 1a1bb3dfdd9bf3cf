package sdl2

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/mobiletriangle/host"
)

func translateEvent(event sdl.Event) (host.Event, bool) {
	kind := eventKind(event)
	return host.Event{Kind: kind}, kind != 0
}

func eventKind(event sdl.Event) host.Kind {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return host.Quit
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return host.SurfaceResized
		case sdl.WINDOWEVENT_EXPOSED:
			return host.RedrawNeeded
		case sdl.WINDOWEVENT_MINIMIZED:
			return host.Pause
		case sdl.WINDOWEVENT_RESTORED:
			return host.Resume
		case sdl.WINDOWEVENT_FOCUS_GAINED:
			return host.FocusGained
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return host.FocusLost
		}
	case *sdl.CommonEvent:
		// Android's activity lifecycle arrives as application events. The
		// native window is gone between entering the background and
		// coming back to the foreground.
		switch e.Type {
		case sdl.APP_WILLENTERBACKGROUND:
			return host.Pause
		case sdl.APP_DIDENTERBACKGROUND:
			return host.SurfaceDestroyed
		case sdl.APP_WILLENTERFOREGROUND:
			return host.SurfaceCreated
		case sdl.APP_DIDENTERFOREGROUND:
			return host.Resume
		case sdl.APP_LOWMEMORY:
			return host.LowMemory
		case sdl.APP_TERMINATING:
			return host.Quit
		}
	}
	return 0
}
