package render

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// The interfaces in this file are the seam between the renderer and the
// graphics API. Package vkng implements them on top of vkngwrapper; every
// value type that crosses the seam is the vkngwrapper type where one exists.

// Status is the non-fatal outcome of acquiring or presenting a swapchain image.
type Status int

const (
	StatusSuccess Status = iota
	StatusSuboptimal
	StatusOutOfDate
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusSuboptimal:
		return "Suboptimal"
	case StatusOutOfDate:
		return "OutOfDate"
	}
	return "Unknown"
}

type LayerProperties struct {
	LayerName             string
	ImplementationVersion uint32
	Description           string
}

type ExtensionProperties struct {
	ExtensionName string
	SpecVersion   uint32
}

type DebugSeverity int

const (
	DebugSeverityInfo DebugSeverity = iota
	DebugSeverityWarning
	DebugSeverityError
)

type DebugMessage struct {
	Severity DebugSeverity
	Type     string
	Message  string
}

// DebugCallback receives validation-layer messages. The return value is
// reported back to the layer: true aborts the call that triggered it.
type DebugCallback func(msg DebugMessage) bool

// Loader is the entry point to the API before an instance exists.
type Loader interface {
	AvailableLayers() ([]LayerProperties, error)
	AvailableExtensions() ([]ExtensionProperties, error)
	CreateInstance(info InstanceCreateInfo) (Instance, error)
}

type InstanceCreateInfo struct {
	ApplicationName       string
	EnabledExtensionNames []string
	EnabledLayerNames     []string
	EnumeratePortability  bool

	// DebugCallback, when set, also receives messages emitted during
	// instance creation and destruction.
	DebugCallback DebugCallback
}

type Instance interface {
	EnumeratePhysicalDevices() ([]PhysicalDevice, error)
	CreateDebugMessenger(callback DebugCallback) (DebugMessenger, error)
	Destroy()
}

type DebugMessenger interface {
	Destroy()
}

// Surface is the renderable surface handle produced by the window's
// surface factory.
type Surface interface {
	Destroy()
}

type QueueFamily struct {
	Index      int
	Flags      core1_0.QueueFlags
	QueueCount int
}

type MemoryType struct {
	PropertyFlags core1_0.MemoryPropertyFlags
	HeapIndex     int
}

type DeviceFeatures struct {
	GeometryShader bool
}

type PhysicalDevice interface {
	Name() string
	Features() DeviceFeatures
	EnumerateExtensions() ([]ExtensionProperties, error)
	QueueFamilies() []QueueFamily
	MemoryTypes() []MemoryType

	SurfaceSupport(surface Surface, queueFamily int) (bool, error)
	SurfaceCapabilities(surface Surface) (*khr_surface.SurfaceCapabilities, error)
	SurfaceFormats(surface Surface) ([]khr_surface.SurfaceFormat, error)
	SurfacePresentModes(surface Surface) ([]khr_surface.PresentMode, error)

	CreateDevice(info DeviceCreateInfo) (Device, error)
}

type QueueCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
}

type DeviceCreateInfo struct {
	QueueCreateInfos      []QueueCreateInfo
	EnabledExtensionNames []string
	EnabledLayerNames     []string
	EnabledFeatures       DeviceFeatures
}

type Device interface {
	GetQueue(queueFamily, index int) Queue
	WaitIdle() error

	CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error)
	CreateImageView(image Image, format core1_0.Format) (ImageView, error)
	CreateRenderPass(info core1_0.RenderPassCreateInfo) (RenderPass, error)
	CreateShaderModule(code []uint32) (ShaderModule, error)
	CreatePipelineLayout() (PipelineLayout, error)
	CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (Pipeline, error)
	CreateFramebuffer(info FramebufferCreateInfo) (Framebuffer, error)
	CreateCommandPool(queueFamily int) (CommandPool, error)
	CreateBuffer(size int, usage core1_0.BufferUsageFlags) (Buffer, error)
	CreateFence(signaled bool) (Fence, error)
	CreateSemaphore() (Semaphore, error)

	// WaitForFences blocks with no timeout until every fence is signaled.
	WaitForFences(fences ...Fence) error
	ResetFences(fences ...Fence) error

	Destroy()
}

type Queue interface {
	Submit(fence Fence, info SubmitInfo) error
	Present(info PresentInfo) (Status, error)
}

type SubmitInfo struct {
	WaitSemaphores   []Semaphore
	WaitDstStageMask []core1_0.PipelineStageFlags
	CommandBuffers   []CommandBuffer
	SignalSemaphores []Semaphore
}

type PresentInfo struct {
	WaitSemaphores []Semaphore
	Swapchain      Swapchain
	ImageIndex     int
}

type SwapchainCreateInfo struct {
	Surface      Surface
	Capabilities *khr_surface.SurfaceCapabilities

	MinImageCount   int
	ImageFormat     core1_0.Format
	ImageColorSpace khr_surface.ColorSpace
	ImageExtent     core1_0.Extent2D

	ImageSharingMode   core1_0.SharingMode
	QueueFamilyIndices []int

	PresentMode khr_surface.PresentMode
}

type Swapchain interface {
	Images() ([]Image, error)
	// AcquireNextImage blocks with no timeout until an image is available.
	AcquireNextImage(imageAvailable Semaphore) (int, Status, error)
	Destroy()
}

// Image is a presentable image owned by its swapchain. It is never
// destroyed individually.
type Image any

type ImageView interface{ Destroy() }
type RenderPass interface{ Destroy() }
type ShaderModule interface{ Destroy() }
type PipelineLayout interface{ Destroy() }
type Pipeline interface{ Destroy() }
type Framebuffer interface{ Destroy() }
type Fence interface{ Destroy() }
type Semaphore interface{ Destroy() }

type GraphicsPipelineCreateInfo struct {
	VertexShader   ShaderModule
	FragmentShader ShaderModule

	VertexInputState   *core1_0.PipelineVertexInputStateCreateInfo
	InputAssemblyState *core1_0.PipelineInputAssemblyStateCreateInfo
	ViewportState      *core1_0.PipelineViewportStateCreateInfo
	RasterizationState *core1_0.PipelineRasterizationStateCreateInfo
	MultisampleState   *core1_0.PipelineMultisampleStateCreateInfo
	ColorBlendState    *core1_0.PipelineColorBlendStateCreateInfo

	Layout     PipelineLayout
	RenderPass RenderPass
	Subpass    int
}

type FramebufferCreateInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Width       int
	Height      int
}

type CommandPool interface {
	AllocateCommandBuffers(count int) ([]CommandBuffer, error)
	FreeCommandBuffers(buffers ...CommandBuffer)
	Destroy()
}

type RenderPassBeginInfo struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  core1_0.Rect2D
	ClearColor  [4]float32
}

type CommandBuffer interface {
	Begin() error
	CmdBeginRenderPass(info RenderPassBeginInfo) error
	CmdBindPipeline(pipeline Pipeline)
	CmdBindVertexBuffers(buffers ...Buffer)
	CmdDraw(vertexCount, instanceCount int)
	CmdEndRenderPass()
	End() error
}

// Buffer owns both the buffer object and its backing memory.
type Buffer interface {
	MemoryTypeBits() uint32
	BindMemory(memoryTypeIndex int) error
	Write(data []byte) error
	Destroy()
}
