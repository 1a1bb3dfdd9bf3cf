// Package vkng implements the renderer's driver interfaces on vkngwrapper.
//
// Every handle passed back into this package must have been created by it.
package vkng

import (
	"sort"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"

	"github.com/vkngwrapper/mobiletriangle/render"
)

type Loader struct {
	driver core1_0.GlobalDriver
}

// NewLoader builds a loader from the platform's vkGetInstanceProcAddr.
func NewLoader(procAddr unsafe.Pointer) (*Loader, error) {
	driver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "loading vulkan")
	}
	return &Loader{driver: driver}, nil
}

func (l *Loader) AvailableLayers() ([]render.LayerProperties, error) {
	layers, _, err := l.driver.AvailableLayers()
	if err != nil {
		return nil, err
	}

	var result []render.LayerProperties
	for _, layer := range layers {
		result = append(result, render.LayerProperties{
			LayerName:             layer.LayerName,
			ImplementationVersion: uint32(layer.ImplementationVersion),
			Description:           layer.Description,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LayerName < result[j].LayerName })
	return result, nil
}

func (l *Loader) AvailableExtensions() ([]render.ExtensionProperties, error) {
	extensions, _, err := l.driver.AvailableExtensions()
	if err != nil {
		return nil, err
	}
	return extensionList(extensions), nil
}

func extensionList(extensions map[string]*core1_0.ExtensionProperties) []render.ExtensionProperties {
	var result []render.ExtensionProperties
	for _, extension := range extensions {
		result = append(result, render.ExtensionProperties{
			ExtensionName: extension.ExtensionName,
			SpecVersion:   uint32(extension.SpecVersion),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExtensionName < result[j].ExtensionName })
	return result
}

func (l *Loader) CreateInstance(info render.InstanceCreateInfo) (render.Instance, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    info.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_0,

		EnabledExtensionNames: info.EnabledExtensionNames,
		EnabledLayerNames:     info.EnabledLayerNames,
	}

	if info.EnumeratePortability {
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if info.DebugCallback != nil {
		instanceOptions.Next = debugMessengerOptions(info.DebugCallback)
	}

	instanceDriver, _, err := l.driver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, err
	}

	return &Instance{driver: instanceDriver}, nil
}
