package vkng

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/mobiletriangle/render"
)

// Instance wraps an instance driver. Extension drivers are resolved on
// first use and kept for the life of the instance.
type Instance struct {
	driver core1_0.CoreInstanceDriver

	surfaceExtension khr_surface.ExtensionDriver
	debugDriver      ext_debug_utils.ExtensionDriver
}

func (i *Instance) Driver() core1_0.CoreInstanceDriver {
	return i.driver
}

func (i *Instance) SurfaceExtension() khr_surface.ExtensionDriver {
	if i.surfaceExtension == nil {
		i.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(i.driver)
	}
	return i.surfaceExtension
}

func (i *Instance) debugUtils() ext_debug_utils.ExtensionDriver {
	if i.debugDriver == nil {
		i.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
	}
	return i.debugDriver
}

// AdoptSurface takes ownership of a surface created for this instance.
func (i *Instance) AdoptSurface(surface khr_surface.Surface) render.Surface {
	return &Surface{instance: i, handle: surface}
}

func (i *Instance) EnumeratePhysicalDevices() ([]render.PhysicalDevice, error) {
	physicalDevices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	var devices []render.PhysicalDevice
	for _, device := range physicalDevices {
		devices = append(devices, &PhysicalDevice{instance: i, handle: device})
	}
	return devices, nil
}

func (i *Instance) CreateDebugMessenger(callback render.DebugCallback) (render.DebugMessenger, error) {
	messenger, _, err := i.debugUtils().CreateDebugUtilsMessenger(nil, debugMessengerOptions(callback))
	if err != nil {
		return nil, err
	}
	return &DebugMessenger{instance: i, handle: messenger}, nil
}

func (i *Instance) Destroy() {
	i.driver.DestroyInstance(nil)
}

type DebugMessenger struct {
	instance *Instance
	handle   ext_debug_utils.DebugUtilsMessenger
}

func (m *DebugMessenger) Destroy() {
	m.instance.debugUtils().DestroyDebugUtilsMessenger(m.handle, nil)
}

func debugMessengerOptions(callback render.DebugCallback) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			return callback(render.DebugMessage{
				Severity: debugSeverity(severity),
				Type:     fmt.Sprint(msgType),
				Message:  data.Message,
			})
		},
	}
}

func debugSeverity(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) render.DebugSeverity {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return render.DebugSeverityError
	case severity&ext_debug_utils.SeverityWarning != 0:
		return render.DebugSeverityWarning
	}
	return render.DebugSeverityInfo
}

type Surface struct {
	instance *Instance
	handle   khr_surface.Surface
}

func (s *Surface) Destroy() {
	s.instance.SurfaceExtension().DestroySurface(s.handle, nil)
}

func surfaceHandle(surface render.Surface) (khr_surface.Surface, error) {
	s, ok := surface.(*Surface)
	if !ok {
		return khr_surface.Surface{}, errors.AssertionFailedf("surface %T was not created by package vkng", surface)
	}
	return s.handle, nil
}
