package render

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
)

const unsetQueueFamily = -1

// DeviceSelection is the chosen physical device and the queue families
// that serve graphics and presentation. The two indices may be equal.
type DeviceSelection struct {
	Device    PhysicalDevice
	Candidate *PhysicalDeviceCandidate

	GraphicsQueueFamilyIndex     int
	PresentationQueueFamilyIndex int
}

func (s DeviceSelection) SharedQueueFamily() bool {
	return s.GraphicsQueueFamilyIndex == s.PresentationQueueFamilyIndex
}

// UniqueQueueFamilies lists the distinct queue families, graphics first.
func (s DeviceSelection) UniqueQueueFamilies() []int {
	families := []int{s.GraphicsQueueFamilyIndex}
	if !s.SharedQueueFamily() {
		families = append(families, s.PresentationQueueFamilyIndex)
	}
	return families
}

// PickPhysicalDevice returns the first enumerated device that has the
// geometry shader feature, every required extension, at least one surface
// format and present mode, a graphics queue family and a queue family that
// can present to surface.
func PickPhysicalDevice(log logrus.FieldLogger, instance Instance, surface Surface, requiredExtensions []string) (DeviceSelection, error) {
	devices, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return DeviceSelection{}, initError(err, ErrNoDevice, "pickPhysicalDevice")
	}

	if len(devices) == 0 {
		return DeviceSelection{}, errors.Mark(errors.Wrap(ErrNoDevice, "pickPhysicalDevice"), ErrInitialization)
	}

	for _, device := range devices {
		candidate, err := QueryCandidate(device, surface)
		if err != nil {
			log.WithError(err).Warnf("skipping %s", device.Name())
			continue
		}

		if !candidate.Features.GeometryShader {
			log.Debugf("%s: no geometry shader support", candidate.Name)
			continue
		}

		if !candidate.SupportsExtensions(requiredExtensions) {
			log.Debugf("%s: missing required device extensions", candidate.Name)
			continue
		}

		if !candidate.SurfaceAdequate() {
			log.Debugf("%s: no surface formats or present modes", candidate.Name)
			continue
		}

		graphics, present, err := findQueueFamilies(candidate, surface)
		if err != nil {
			log.WithError(err).Warnf("skipping %s", candidate.Name)
			continue
		}

		if graphics == unsetQueueFamily || present == unsetQueueFamily {
			log.Debugf("%s: no graphics or presentation queue family", candidate.Name)
			continue
		}

		log.Infof("Selected %s (graphics queue family %d, presentation queue family %d)", candidate.Name, graphics, present)
		return DeviceSelection{
			Device:                       device,
			Candidate:                    candidate,
			GraphicsQueueFamilyIndex:     graphics,
			PresentationQueueFamilyIndex: present,
		}, nil
	}

	return DeviceSelection{}, errors.Mark(errors.Wrap(ErrNoSuitableDevice, "pickPhysicalDevice"), ErrInitialization)
}

// findQueueFamilies resolves each role to the lowest family index that
// serves it. Either result is unsetQueueFamily when no family qualifies.
func findQueueFamilies(candidate *PhysicalDeviceCandidate, surface Surface) (graphics, present int, err error) {
	graphics, present = unsetQueueFamily, unsetQueueFamily

	for _, family := range candidate.QueueFamilies {
		if graphics == unsetQueueFamily && family.QueueCount > 0 && family.Flags&core1_0.QueueGraphics != 0 {
			graphics = family.Index
		}

		if present == unsetQueueFamily {
			supported, err := candidate.Device.SurfaceSupport(surface, family.Index)
			if err != nil {
				return unsetQueueFamily, unsetQueueFamily, errors.Wrapf(err, "querying presentation support of queue family %d", family.Index)
			}
			if supported {
				present = family.Index
			}
		}

		if graphics != unsetQueueFamily && present != unsetQueueFamily {
			break
		}
	}

	return graphics, present, nil
}
