package render

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// PhysicalDeviceCandidate is a snapshot of everything device selection needs
// to know about one physical device and surface. It is built fresh on every
// selection pass and never mutated.
type PhysicalDeviceCandidate struct {
	Device        PhysicalDevice
	Name          string
	Features      DeviceFeatures
	Extensions    map[string]struct{}
	QueueFamilies []QueueFamily
	Formats       []khr_surface.SurfaceFormat
	PresentModes  []khr_surface.PresentMode
}

// SupportsExtensions reports whether every required extension is present.
func (c *PhysicalDeviceCandidate) SupportsExtensions(required []string) bool {
	for _, name := range required {
		if _, ok := c.Extensions[name]; !ok {
			return false
		}
	}
	return true
}

func (c *PhysicalDeviceCandidate) SurfaceAdequate() bool {
	return len(c.Formats) > 0 && len(c.PresentModes) > 0
}

func SupportedValidationLayers(loader Loader) ([]LayerProperties, error) {
	layers, err := loader.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating instance layers")
	}
	return layers, nil
}

func SupportedInstanceExtensions(loader Loader) ([]ExtensionProperties, error) {
	extensions, err := loader.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating instance extensions")
	}
	return extensions, nil
}

func LogSupportedValidationLayers(log logrus.FieldLogger, layers []LayerProperties) {
	log.Infof("Found %d supported validation layers.", len(layers))
	for _, layer := range layers {
		log.Infof("%s (%d) - %s", layer.LayerName, layer.ImplementationVersion, layer.Description)
	}
}

func LogSupportedInstanceExtensions(log logrus.FieldLogger, extensions []ExtensionProperties) {
	log.Infof("Found %d supported instance extensions.", len(extensions))
	for _, extension := range extensions {
		log.Infof("%s (%d)", extension.ExtensionName, extension.SpecVersion)
	}
}

// FilterUnavailableValidationLayers keeps the requested layers that appear in
// supported, in request order. Each dropped layer is logged as a warning.
func FilterUnavailableValidationLayers(log logrus.FieldLogger, requested []string, supported []LayerProperties) []string {
	var available []string

requestedLayers:
	for _, name := range requested {
		for _, layer := range supported {
			if layer.LayerName == name {
				available = append(available, name)
				continue requestedLayers
			}
		}

		log.Warnf("Unsupported validation layer requested: %s", name)
	}

	return available
}

// ArePhysicalDeviceExtensionsSupported is true iff required is a subset of
// the extensions device reports.
func ArePhysicalDeviceExtensionsSupported(device PhysicalDevice, required []string) (bool, error) {
	extensions, err := device.EnumerateExtensions()
	if err != nil {
		return false, errors.Wrapf(err, "enumerating extensions of %s", device.Name())
	}
	return extensionSubset(extensions, required), nil
}

func extensionSubset(supported []ExtensionProperties, required []string) bool {
	remaining := make(map[string]struct{}, len(required))
	for _, name := range required {
		remaining[name] = struct{}{}
	}

	for _, extension := range supported {
		delete(remaining, extension.ExtensionName)
	}

	return len(remaining) == 0
}

func extensionSet(extensions []ExtensionProperties) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		set[extension.ExtensionName] = struct{}{}
	}
	return set
}

// QueryCandidate reads the capabilities of device against surface.
func QueryCandidate(device PhysicalDevice, surface Surface) (*PhysicalDeviceCandidate, error) {
	extensions, err := device.EnumerateExtensions()
	if err != nil {
		return nil, errors.Wrapf(err, "enumerating extensions of %s", device.Name())
	}

	formats, err := device.SurfaceFormats(surface)
	if err != nil {
		return nil, errors.Wrapf(err, "querying surface formats of %s", device.Name())
	}

	presentModes, err := device.SurfacePresentModes(surface)
	if err != nil {
		return nil, errors.Wrapf(err, "querying present modes of %s", device.Name())
	}

	return &PhysicalDeviceCandidate{
		Device:        device,
		Name:          device.Name(),
		Features:      device.Features(),
		Extensions:    extensionSet(extensions),
		QueueFamilies: device.QueueFamilies(),
		Formats:       formats,
		PresentModes:  presentModes,
	}, nil
}

// FindMemoryType returns the first memory type allowed by typeBits that has
// every requested property.
func FindMemoryType(types []MemoryType, typeBits uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	for i, memoryType := range types {
		typeBit := uint32(1 << i)

		if typeBits&typeBit != 0 && memoryType.PropertyFlags&properties == properties {
			return i, nil
		}
	}

	return 0, errors.Errorf("failed to find any suitable memory type for %s", properties)
}
