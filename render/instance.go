package render

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
)

type InstanceOptions struct {
	ApplicationName string

	// RequiredExtensions are the instance extensions the window needs to
	// build a surface. All of them must be supported.
	RequiredExtensions []string

	// ValidationLayers are requested layers; unsupported ones are dropped.
	ValidationLayers []string

	// Debug installs a debug messenger routed to the log.
	Debug bool
}

// CreateInstance creates the API instance and, when options.Debug is set,
// the debug messenger. The messenger must be destroyed before the instance.
func CreateInstance(log logrus.FieldLogger, loader Loader, options InstanceOptions) (Instance, DebugMessenger, error) {
	extensions, err := SupportedInstanceExtensions(loader)
	if err != nil {
		return nil, nil, initError(err, ErrInitialization, "createInstance")
	}
	LogSupportedInstanceExtensions(log, extensions)
	supported := extensionSet(extensions)

	info := InstanceCreateInfo{
		ApplicationName: options.ApplicationName,
	}

	for _, name := range options.RequiredExtensions {
		if _, ok := supported[name]; !ok {
			return nil, nil, initError(errors.Newf("missing extension %s", name), ErrInitialization, "createInstance")
		}
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, name)
	}

	if _, ok := supported[khr_portability_enumeration.ExtensionName]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		info.EnumeratePortability = true
	}

	debug := options.Debug
	if debug {
		if _, ok := supported[ext_debug_utils.ExtensionName]; ok {
			info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)
			info.DebugCallback = DebugMessageLogger(log)
		} else {
			log.Warnf("%s is not supported, debug messages are disabled", ext_debug_utils.ExtensionName)
			debug = false
		}
	}

	if len(options.ValidationLayers) > 0 {
		layers, err := SupportedValidationLayers(loader)
		if err != nil {
			return nil, nil, initError(err, ErrInitialization, "createInstance")
		}
		LogSupportedValidationLayers(log, layers)
		info.EnabledLayerNames = FilterUnavailableValidationLayers(log, options.ValidationLayers, layers)
	}

	instance, err := loader.CreateInstance(info)
	if err != nil {
		return nil, nil, initError(err, ErrInitialization, "createInstance")
	}

	if !debug {
		return instance, nil, nil
	}

	messenger, err := instance.CreateDebugMessenger(DebugMessageLogger(log))
	if err != nil {
		instance.Destroy()
		return nil, nil, initError(err, ErrInitialization, "setupDebugMessenger")
	}

	return instance, messenger, nil
}

// DebugMessageLogger forwards validation messages to log. It never panics
// and always returns false so the layer carries on with the call.
func DebugMessageLogger(log logrus.FieldLogger) DebugCallback {
	return func(msg DebugMessage) (handled bool) {
		defer func() {
			if r := recover(); r != nil {
				handled = false
			}
		}()

		entry := log.WithField("type", msg.Type)
		switch msg.Severity {
		case DebugSeverityError:
			entry.Error(msg.Message)
		case DebugSeverityWarning:
			entry.Warn(msg.Message)
		default:
			entry.Debug(msg.Message)
		}
		return false
	}
}
