package render

import (
	"math"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// PreferredSurfaceFormat is used when the surface has no preference and
// chosen when it is offered.
var PreferredSurfaceFormat = khr_surface.SurfaceFormat{
	Format:     core1_0.FormatB8G8R8A8SRGB,
	ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
}

// SwapchainConfig is derived from the surface capabilities and window size
// every time the swapchain is built.
type SwapchainConfig struct {
	SurfaceFormat khr_surface.SurfaceFormat
	PresentMode   khr_surface.PresentMode
	Extent        core1_0.Extent2D
	ImageCount    int
}

// SwapchainResources holds the swapchain and everything created per image.
// Images, ImageViews and Framebuffers always have the same length once the
// swapchain is fully built.
type SwapchainResources struct {
	Config       SwapchainConfig
	Swapchain    Swapchain
	Images       []Image
	ImageViews   []ImageView
	Framebuffers []Framebuffer
}

// PickSurfaceFormat prefers PreferredSurfaceFormat and otherwise settles for
// the first format offered.
func PickSurfaceFormat(formats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	if len(formats) == 0 {
		return PreferredSurfaceFormat
	}

	if len(formats) == 1 && formats[0].Format == core1_0.FormatUndefined {
		return PreferredSurfaceFormat
	}

	for _, format := range formats {
		if format.Format == PreferredSurfaceFormat.Format && format.ColorSpace == PreferredSurfaceFormat.ColorSpace {
			return format
		}
	}

	return formats[0]
}

func presentModeRank(mode khr_surface.PresentMode) int {
	switch mode {
	case khr_surface.PresentModeMailbox:
		return 2
	case khr_surface.PresentModeImmediate:
		return 1
	}
	return 0
}

// PickPresentMode returns mailbox if offered, then immediate, then FIFO,
// which every surface supports.
func PickPresentMode(modes []khr_surface.PresentMode) khr_surface.PresentMode {
	best := khr_surface.PresentModeFIFO
	for _, mode := range modes {
		if presentModeRank(mode) > presentModeRank(best) {
			best = mode
		}
	}
	return best
}

// matchesWindow reports the special current extent meaning the surface size
// follows the swapchain extent. The driver reports it as 0xFFFFFFFF.
func matchesWindow(extent core1_0.Extent2D) bool {
	return uint32(extent.Width) == math.MaxUint32
}

func clamp(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

// PickExtent uses the current extent of the surface unless the surface
// defers to the window, in which case the window size is clamped into the
// supported range.
func PickExtent(capabilities *khr_surface.SurfaceCapabilities, width, height int) core1_0.Extent2D {
	if !matchesWindow(capabilities.CurrentExtent) {
		return capabilities.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// PickImageCount asks for one image more than the minimum. A maximum of 0
// means there is no limit.
func PickImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

// ChooseSwapchainConfig derives the whole configuration in one go.
func ChooseSwapchainConfig(capabilities *khr_surface.SurfaceCapabilities, formats []khr_surface.SurfaceFormat, modes []khr_surface.PresentMode, width, height int) SwapchainConfig {
	return SwapchainConfig{
		SurfaceFormat: PickSurfaceFormat(formats),
		PresentMode:   PickPresentMode(modes),
		Extent:        PickExtent(capabilities, width, height),
		ImageCount:    PickImageCount(capabilities),
	}
}

// CreateSwapchain builds a swapchain for config and returns its images.
// Images are shared concurrently between the graphics and presentation
// families when those differ.
func CreateSwapchain(device Device, surface Surface, capabilities *khr_surface.SurfaceCapabilities, selection DeviceSelection, config SwapchainConfig) (Swapchain, []Image, error) {
	sharingMode := core1_0.SharingModeExclusive
	var queueFamilyIndices []int

	if !selection.SharedQueueFamily() {
		sharingMode = core1_0.SharingModeConcurrent
		queueFamilyIndices = append(queueFamilyIndices, selection.GraphicsQueueFamilyIndex, selection.PresentationQueueFamilyIndex)
	}

	swapchain, err := device.CreateSwapchain(SwapchainCreateInfo{
		Surface:      surface,
		Capabilities: capabilities,

		MinImageCount:   config.ImageCount,
		ImageFormat:     config.SurfaceFormat.Format,
		ImageColorSpace: config.SurfaceFormat.ColorSpace,
		ImageExtent:     config.Extent,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PresentMode: config.PresentMode,
	})
	if err != nil {
		return nil, nil, initError(err, ErrSwapchainCreation, "createSwapchain")
	}

	images, err := swapchain.Images()
	if err != nil {
		swapchain.Destroy()
		return nil, nil, initError(err, ErrSwapchainCreation, "createSwapchain: images")
	}

	return swapchain, images, nil
}

// CreateImageViews makes one 2D color view per image. On failure the views
// already created are destroyed.
func CreateImageViews(device Device, images []Image, format core1_0.Format) ([]ImageView, error) {
	var imageViews []ImageView
	for i, image := range images {
		view, err := device.CreateImageView(image, format)
		if err != nil {
			destroyAll(imageViews)
			return nil, initError(err, ErrSwapchainCreation, "createImageViews: image %d", i)
		}

		imageViews = append(imageViews, view)
	}

	return imageViews, nil
}

type destroyer interface{ Destroy() }

func destroyAll[T destroyer](objects []T) {
	for _, object := range objects {
		object.Destroy()
	}
}
