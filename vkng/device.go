package vkng

import (
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/mobiletriangle/render"
)

type Device struct {
	driver core1_0.CoreDeviceDriver

	swapchainExtension khr_swapchain.ExtensionDriver
}

func (d *Device) Driver() core1_0.CoreDeviceDriver {
	return d.driver
}

func (d *Device) swapchains() khr_swapchain.ExtensionDriver {
	if d.swapchainExtension == nil {
		d.swapchainExtension = khr_swapchain.CreateExtensionDriverFromCoreDriver(d.driver)
	}
	return d.swapchainExtension
}

func (d *Device) GetQueue(queueFamily, index int) render.Queue {
	return &Queue{device: d, handle: d.driver.GetQueue(queueFamily, index)}
}

func (d *Device) WaitIdle() error {
	_, err := d.driver.DeviceWaitIdle()
	return err
}

func (d *Device) CreateSwapchain(info render.SwapchainCreateInfo) (render.Swapchain, error) {
	surface, err := surfaceHandle(info.Surface)
	if err != nil {
		return nil, err
	}

	swapchain, _, err := d.swapchains().CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    info.MinImageCount,
		ImageFormat:      info.ImageFormat,
		ImageColorSpace:  info.ImageColorSpace,
		ImageExtent:      info.ImageExtent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   info.ImageSharingMode,
		QueueFamilyIndices: info.QueueFamilyIndices,

		PreTransform:   info.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    info.PresentMode,
		Clipped:        true,
	})
	if err != nil {
		return nil, err
	}

	return &Swapchain{device: d, handle: swapchain}, nil
}

func (d *Device) CreateImageView(image render.Image, format core1_0.Format) (render.ImageView, error) {
	imageView, _, err := d.driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image.(core1_0.Image),
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		return nil, err
	}
	return &ImageView{device: d, handle: imageView}, nil
}

func (d *Device) CreateRenderPass(info core1_0.RenderPassCreateInfo) (render.RenderPass, error) {
	renderPass, _, err := d.driver.CreateRenderPass(nil, info)
	if err != nil {
		return nil, err
	}
	return &RenderPass{device: d, handle: renderPass}, nil
}

func (d *Device) CreateShaderModule(code []uint32) (render.ShaderModule, error) {
	module, _, err := d.driver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return nil, err
	}
	return &ShaderModule{device: d, handle: module}, nil
}

func (d *Device) CreatePipelineLayout() (render.PipelineLayout, error) {
	layout, _, err := d.driver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return nil, err
	}
	return &PipelineLayout{device: d, handle: layout}, nil
}

func (d *Device) CreateGraphicsPipeline(info render.GraphicsPipelineCreateInfo) (render.Pipeline, error) {
	vertStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageVertex,
		Module: info.VertexShader.(*ShaderModule).handle,
		Name:   "main",
	}

	fragStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageFragment,
		Module: info.FragmentShader.(*ShaderModule).handle,
		Name:   "main",
	}

	pipelines, _, err := d.driver.CreateGraphicsPipelines(nil, nil,
		core1_0.GraphicsPipelineCreateInfo{
			Stages: []core1_0.PipelineShaderStageCreateInfo{
				vertStage,
				fragStage,
			},
			VertexInputState:   info.VertexInputState,
			InputAssemblyState: info.InputAssemblyState,
			ViewportState:      info.ViewportState,
			RasterizationState: info.RasterizationState,
			MultisampleState:   info.MultisampleState,
			ColorBlendState:    info.ColorBlendState,
			Layout:             info.Layout.(*PipelineLayout).handle,
			RenderPass:         info.RenderPass.(*RenderPass).handle,
			Subpass:            info.Subpass,
			BasePipelineIndex:  -1,
		},
	)
	if err != nil {
		return nil, err
	}
	return &Pipeline{device: d, handle: pipelines[0]}, nil
}

func (d *Device) CreateFramebuffer(info render.FramebufferCreateInfo) (render.Framebuffer, error) {
	var attachments []core1_0.ImageView
	for _, view := range info.Attachments {
		attachments = append(attachments, view.(*ImageView).handle)
	}

	framebuffer, _, err := d.driver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  info.RenderPass.(*RenderPass).handle,
		Layers:      1,
		Attachments: attachments,
		Width:       info.Width,
		Height:      info.Height,
	})
	if err != nil {
		return nil, err
	}
	return &Framebuffer{device: d, handle: framebuffer}, nil
}

func (d *Device) CreateCommandPool(queueFamily int) (render.CommandPool, error) {
	pool, _, err := d.driver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: queueFamily,
	})
	if err != nil {
		return nil, err
	}
	return &CommandPool{device: d, handle: pool}, nil
}

func (d *Device) CreateBuffer(size int, usage core1_0.BufferUsageFlags) (render.Buffer, error) {
	buffer, _, err := d.driver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, err
	}

	memRequirements := d.driver.GetBufferMemoryRequirements(buffer)
	return &Buffer{
		device:         d,
		handle:         buffer,
		memoryTypeBits: uint32(memRequirements.MemoryTypeBits),
		allocationSize: memRequirements.Size,
	}, nil
}

func (d *Device) CreateFence(signaled bool) (render.Fence, error) {
	var flags core1_0.FenceCreateFlags
	if signaled {
		flags = core1_0.FenceCreateSignaled
	}

	fence, _, err := d.driver.CreateFence(nil, core1_0.FenceCreateInfo{
		Flags: flags,
	})
	if err != nil {
		return nil, err
	}
	return &Fence{device: d, handle: fence}, nil
}

func (d *Device) CreateSemaphore() (render.Semaphore, error) {
	semaphore, _, err := d.driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, err
	}
	return &Semaphore{device: d, handle: semaphore}, nil
}

func fenceHandles(fences []render.Fence) []core1_0.Fence {
	handles := make([]core1_0.Fence, 0, len(fences))
	for _, fence := range fences {
		handles = append(handles, fence.(*Fence).handle)
	}
	return handles
}

func (d *Device) WaitForFences(fences ...render.Fence) error {
	_, err := d.driver.WaitForFences(true, common.NoTimeout, fenceHandles(fences)...)
	return err
}

func (d *Device) ResetFences(fences ...render.Fence) error {
	_, err := d.driver.ResetFences(fenceHandles(fences)...)
	return err
}

func (d *Device) Destroy() {
	d.driver.DestroyDevice(nil)
}

type ImageView struct {
	device *Device
	handle core1_0.ImageView
}

func (v *ImageView) Destroy() { v.device.driver.DestroyImageView(v.handle, nil) }

type RenderPass struct {
	device *Device
	handle core1_0.RenderPass
}

func (p *RenderPass) Destroy() { p.device.driver.DestroyRenderPass(p.handle, nil) }

type ShaderModule struct {
	device *Device
	handle core1_0.ShaderModule
}

func (m *ShaderModule) Destroy() { m.device.driver.DestroyShaderModule(m.handle, nil) }

type PipelineLayout struct {
	device *Device
	handle core1_0.PipelineLayout
}

func (l *PipelineLayout) Destroy() { l.device.driver.DestroyPipelineLayout(l.handle, nil) }

type Pipeline struct {
	device *Device
	handle core1_0.Pipeline
}

func (p *Pipeline) Destroy() { p.device.driver.DestroyPipeline(p.handle, nil) }

type Framebuffer struct {
	device *Device
	handle core1_0.Framebuffer
}

func (f *Framebuffer) Destroy() { f.device.driver.DestroyFramebuffer(f.handle, nil) }

type Fence struct {
	device *Device
	handle core1_0.Fence
}

func (f *Fence) Destroy() { f.device.driver.DestroyFence(f.handle, nil) }

type Semaphore struct {
	device *Device
	handle core1_0.Semaphore
}

func (s *Semaphore) Destroy() { s.device.driver.DestroySemaphore(s.handle, nil) }

func semaphoreHandles(semaphores []render.Semaphore) []core1_0.Semaphore {
	handles := make([]core1_0.Semaphore, 0, len(semaphores))
	for _, semaphore := range semaphores {
		handles = append(handles, semaphore.(*Semaphore).handle)
	}
	return handles
}
