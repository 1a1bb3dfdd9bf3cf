package vkng

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/mobiletriangle/render"
)

type PhysicalDevice struct {
	instance *Instance
	handle   core1_0.PhysicalDevice
	name     string
}

func (d *PhysicalDevice) Name() string {
	if d.name != "" {
		return d.name
	}

	properties, err := d.instance.driver.GetPhysicalDeviceProperties(d.handle)
	if err != nil {
		return "unknown device"
	}
	d.name = properties.DeviceName
	return d.name
}

func (d *PhysicalDevice) Features() render.DeviceFeatures {
	features := d.instance.driver.GetPhysicalDeviceFeatures(d.handle)
	return render.DeviceFeatures{
		GeometryShader: features.GeometryShader,
	}
}

func (d *PhysicalDevice) EnumerateExtensions() ([]render.ExtensionProperties, error) {
	extensions, _, err := d.instance.driver.EnumerateDeviceExtensionProperties(d.handle)
	if err != nil {
		return nil, err
	}
	return extensionList(extensions), nil
}

func (d *PhysicalDevice) QueueFamilies() []render.QueueFamily {
	var families []render.QueueFamily
	for queueFamilyIdx, queueFamily := range d.instance.driver.GetPhysicalDeviceQueueFamilyProperties(d.handle) {
		families = append(families, render.QueueFamily{
			Index:      queueFamilyIdx,
			Flags:      queueFamily.QueueFlags,
			QueueCount: int(queueFamily.QueueCount),
		})
	}
	return families
}

func (d *PhysicalDevice) MemoryTypes() []render.MemoryType {
	memProperties := d.instance.driver.GetPhysicalDeviceMemoryProperties(d.handle)

	var types []render.MemoryType
	for _, memoryType := range memProperties.MemoryTypes {
		types = append(types, render.MemoryType{
			PropertyFlags: memoryType.PropertyFlags,
			HeapIndex:     int(memoryType.HeapIndex),
		})
	}
	return types
}

func (d *PhysicalDevice) SurfaceSupport(surface render.Surface, queueFamily int) (bool, error) {
	handle, err := surfaceHandle(surface)
	if err != nil {
		return false, err
	}

	supported, _, err := d.instance.SurfaceExtension().GetPhysicalDeviceSurfaceSupport(handle, d.handle, queueFamily)
	return supported, err
}

func (d *PhysicalDevice) SurfaceCapabilities(surface render.Surface) (*khr_surface.SurfaceCapabilities, error) {
	handle, err := surfaceHandle(surface)
	if err != nil {
		return nil, err
	}

	capabilities, _, err := d.instance.SurfaceExtension().GetPhysicalDeviceSurfaceCapabilities(handle, d.handle)
	return capabilities, err
}

func (d *PhysicalDevice) SurfaceFormats(surface render.Surface) ([]khr_surface.SurfaceFormat, error) {
	handle, err := surfaceHandle(surface)
	if err != nil {
		return nil, err
	}

	formats, _, err := d.instance.SurfaceExtension().GetPhysicalDeviceSurfaceFormats(handle, d.handle)
	return formats, err
}

func (d *PhysicalDevice) SurfacePresentModes(surface render.Surface) ([]khr_surface.PresentMode, error) {
	handle, err := surfaceHandle(surface)
	if err != nil {
		return nil, err
	}

	modes, _, err := d.instance.SurfaceExtension().GetPhysicalDeviceSurfacePresentModes(handle, d.handle)
	return modes, err
}

func (d *PhysicalDevice) CreateDevice(info render.DeviceCreateInfo) (render.Device, error) {
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	for _, queue := range info.QueueCreateInfos {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queue.QueueFamilyIndex,
			QueuePriorities:  queue.QueuePriorities,
		})
	}

	// Device layers are deprecated and ignored by current loaders, so
	// info.EnabledLayerNames is not forwarded.
	deviceDriver, _, err := d.instance.driver.CreateDevice(d.handle, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: queueFamilyOptions,
		EnabledFeatures: &core1_0.PhysicalDeviceFeatures{
			GeometryShader: info.EnabledFeatures.GeometryShader,
		},
		EnabledExtensionNames: info.EnabledExtensionNames,
	})
	if err != nil {
		return nil, err
	}

	return &Device{driver: deviceDriver}, nil
}
