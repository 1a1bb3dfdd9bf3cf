package render

import (
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
)

const queuePriority = float32(1.0)

// CreateLogicalDevice opens selection.Device with one queue from each
// distinct queue family in the selection and returns the graphics and
// presentation queues. They are the same queue when the families coincide.
func CreateLogicalDevice(selection DeviceSelection, requiredExtensions []string, validationLayers []string) (Device, Queue, Queue, error) {
	var queueCreateInfos []QueueCreateInfo
	for _, queueFamily := range selection.UniqueQueueFamilies() {
		queueCreateInfos = append(queueCreateInfos, QueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, requiredExtensions...)

	// Portability implementations (MoltenVK and some mobile drivers) require
	// the subset extension to be enabled whenever it is reported.
	if selection.Candidate != nil {
		if _, supported := selection.Candidate.Extensions[khr_portability_subset.ExtensionName]; supported {
			extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
		}
	}

	device, err := selection.Device.CreateDevice(DeviceCreateInfo{
		QueueCreateInfos:      queueCreateInfos,
		EnabledExtensionNames: extensionNames,
		EnabledLayerNames:     validationLayers,
		EnabledFeatures:       DeviceFeatures{GeometryShader: true},
	})
	if err != nil {
		return nil, nil, nil, initError(err, ErrDeviceCreation, "createLogicalDevice")
	}

	graphicsQueue := device.GetQueue(selection.GraphicsQueueFamilyIndex, 0)
	presentQueue := device.GetQueue(selection.PresentationQueueFamilyIndex, 0)
	return device, graphicsQueue, presentQueue, nil
}
