package render

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/mobiletriangle/host"
)

// DefaultDeviceExtensions are required of every physical device.
var DefaultDeviceExtensions = []string{khr_swapchain.ExtensionName}

type Options struct {
	ApplicationName string

	// Validation enables the debug messenger and the validation layers.
	Validation       bool
	ValidationLayers []string

	DeviceExtensions []string
	VertexInput      VertexInputMode
}

// Window is the native window the renderer draws into.
type Window interface {
	// RequiredInstanceExtensions lists the instance extensions CreateSurface
	// depends on.
	RequiredInstanceExtensions() []string
	CreateSurface(instance Instance) (Surface, error)
	DrawableSize() (width, height int)
}

// Renderer owns the RenderState for the lifetime of a surface and drives
// the frame loop from host events. It is not safe for concurrent use; the
// host calls it from a single thread.
type Renderer struct {
	log     logrus.FieldLogger
	loader  Loader
	window  Window
	assets  AssetReader
	host    host.TickWaiter
	options Options

	state  *RenderState
	paused bool
	stats  frameStats

	// failure is the fatal frame error that stopped rendering. It is
	// cleared by the next successful bring-up.
	failure error
}

func NewRenderer(log logrus.FieldLogger, loader Loader, window Window, assets AssetReader, waiter host.TickWaiter, options Options) *Renderer {
	if options.DeviceExtensions == nil {
		options.DeviceExtensions = DefaultDeviceExtensions
	}

	return &Renderer{
		log:     log,
		loader:  loader,
		window:  window,
		assets:  assets,
		host:    waiter,
		options: options,
	}
}

// State returns the live render state, or nil while there is no surface.
func (r *Renderer) State() *RenderState {
	return r.state
}

// Register wires the renderer's lifecycle hooks into d.
func (r *Renderer) Register(d *host.Dispatcher) {
	d.On(host.SurfaceCreated, func(host.Event) error { return r.OnSurfaceCreated() })
	d.On(host.SurfaceDestroyed, func(host.Event) error { return r.OnSurfaceDestroyed() })
	d.On(host.SurfaceResized, func(host.Event) error { r.OnSurfaceResized(); return nil })
	d.On(host.Tick, func(ev host.Event) error { return r.OnTick(ev.Elapsed) })
	d.On(host.Pause, func(host.Event) error { r.OnPause(); return nil })
	d.On(host.Resume, func(host.Event) error { r.OnResume(); return nil })
	d.On(host.Quit, func(host.Event) error { return r.OnSurfaceDestroyed() })
}

func (r *Renderer) validationLayers() []string {
	if !r.options.Validation {
		return nil
	}
	return r.options.ValidationLayers
}

// OnSurfaceCreated performs the full bring-up. On failure everything created
// so far is released and the error is returned.
func (r *Renderer) OnSurfaceCreated() error {
	if r.state != nil {
		r.log.Warn("Surface created while a render state exists, tearing it down first")
		if err := r.OnSurfaceDestroyed(); err != nil {
			return err
		}
	}

	state := &RenderState{
		log: r.log.WithField("session", uuid.NewString()),
	}

	err := r.bringUp(state)
	if err != nil {
		state.releases.release()
		return err
	}

	r.state = state
	r.failure = nil
	r.stats = frameStats{}
	if !r.paused {
		r.host.SetTickWaitHint(host.WaitPoll)
	}
	state.log.Info("Renderer initialized")
	return nil
}

func (r *Renderer) bringUp(state *RenderState) error {
	log := state.log

	instance, messenger, err := CreateInstance(log, r.loader, InstanceOptions{
		ApplicationName:    r.options.ApplicationName,
		RequiredExtensions: r.window.RequiredInstanceExtensions(),
		ValidationLayers:   r.validationLayers(),
		Debug:              r.options.Validation,
	})
	if err != nil {
		return err
	}
	state.Instance = instance
	state.releases.push(instance.Destroy)

	if messenger != nil {
		state.DebugMessenger = messenger
		state.releases.push(messenger.Destroy)
	}

	surface, err := r.window.CreateSurface(instance)
	if err != nil {
		return initError(err, ErrSurfaceCreation, "createSurface")
	}
	state.Surface = surface
	state.releases.push(surface.Destroy)

	state.Selection, err = PickPhysicalDevice(log, instance, surface, r.options.DeviceExtensions)
	if err != nil {
		return err
	}

	device, graphicsQueue, presentQueue, err := CreateLogicalDevice(state.Selection, r.options.DeviceExtensions, r.validationLayers())
	if err != nil {
		return err
	}
	state.Device = device
	state.GraphicsQueue = graphicsQueue
	state.PresentQueue = presentQueue
	state.releases.push(device.Destroy)

	pool, err := device.CreateCommandPool(state.Selection.GraphicsQueueFamilyIndex)
	if err != nil {
		return initError(err, ErrInitialization, "createCommandPool")
	}
	state.CommandPool = pool
	state.releases.push(pool.Destroy)

	if r.options.VertexInput == VertexInputMesh {
		buffer, err := CreateVertexBuffer(device, state.Selection.Device.MemoryTypes(), TriangleVertices)
		if err != nil {
			return err
		}
		state.VertexBuffer = buffer
		state.releases.push(buffer.Destroy)
	}

	state.Frames, err = createSyncObjects(device)
	if err != nil {
		return err
	}
	state.releases.push(func() {
		for _, slot := range state.Frames {
			slot.destroy()
		}
		state.Frames = nil
	})

	state.releases.push(func() { r.cleanupSwapchain(state) })
	return r.createSwapchainResources(state)
}

// OnSurfaceDestroyed waits for the device to go idle and tears down the
// whole render state in reverse order of creation.
func (r *Renderer) OnSurfaceDestroyed() error {
	state := r.state
	if state == nil {
		return nil
	}
	r.state = nil
	r.host.SetTickWaitHint(host.WaitBlock)

	if state.Device != nil {
		if err := state.Device.WaitIdle(); err != nil {
			state.log.WithError(err).Error("Device did not go idle before teardown")
		}
	}

	state.releases.release()
	state.log.Info("Renderer torn down")
	return nil
}

// OnSurfaceResized flags the swapchain for recreation after the next
// present. Repeated calls before that collapse into one recreation.
func (r *Renderer) OnSurfaceResized() {
	if r.state == nil {
		return
	}
	r.state.resized = true
}

func (r *Renderer) OnPause() {
	r.paused = true
	r.host.SetTickWaitHint(host.WaitBlock)
}

func (r *Renderer) OnResume() {
	r.paused = false
	if r.state != nil {
		r.host.SetTickWaitHint(host.WaitPoll)
	}
}

// OnTick draws one frame. It does nothing without a surface or while paused.
// elapsed is only used for frame statistics.
//
// A frame error is fatal: the render state is torn down and every later tick
// returns the same error until a new surface is brought up.
func (r *Renderer) OnTick(elapsed time.Duration) error {
	if r.failure != nil {
		return r.failure
	}

	state := r.state
	if state == nil || r.paused {
		return nil
	}

	// A pending rebuild with an empty drawable (minimized) skips the frame.
	if state.resized {
		if width, height := r.window.DrawableSize(); width == 0 || height == 0 {
			return nil
		}
	}

	err := r.drawFrame(state)
	if err != nil {
		state.log.WithError(err).Error("Rendering stopped")
		r.failure = err
		if teardownErr := r.OnSurfaceDestroyed(); teardownErr != nil {
			return errors.CombineErrors(err, teardownErr)
		}
		return err
	}

	r.stats.add(state.log, elapsed)
	return nil
}

// createSwapchainResources builds the swapchain group. Each object is stored
// on state as soon as it exists so cleanupSwapchain can release a partial
// build.
func (r *Renderer) createSwapchainResources(state *RenderState) error {
	selection := state.Selection

	capabilities, err := selection.Device.SurfaceCapabilities(state.Surface)
	if err != nil {
		return initError(err, ErrSwapchainCreation, "querying surface capabilities")
	}

	width, height := r.window.DrawableSize()
	config := ChooseSwapchainConfig(capabilities, selection.Candidate.Formats, selection.Candidate.PresentModes, width, height)

	swapchain, images, err := CreateSwapchain(state.Device, state.Surface, capabilities, selection, config)
	if err != nil {
		return err
	}
	state.Swapchain = SwapchainResources{
		Config:    config,
		Swapchain: swapchain,
		Images:    images,
	}

	state.Swapchain.ImageViews, err = CreateImageViews(state.Device, images, config.SurfaceFormat.Format)
	if err != nil {
		return err
	}

	state.RenderPass, err = CreateRenderPass(state.Device, config.SurfaceFormat.Format)
	if err != nil {
		return err
	}

	state.PipelineLayout, state.Pipeline, err = CreateGraphicsPipeline(state.Device, r.assets, state.RenderPass, config.Extent, r.options.VertexInput)
	if err != nil {
		return err
	}

	state.Swapchain.Framebuffers, err = CreateFramebuffers(state.Device, state.RenderPass, state.Swapchain.ImageViews, config.Extent)
	if err != nil {
		return err
	}

	state.CommandBuffers, err = state.CommandPool.AllocateCommandBuffers(len(images))
	if err != nil {
		return initError(err, ErrInitialization, "createCommandBuffers")
	}

	vertexCount := generatedVertexCount
	if state.VertexBuffer != nil {
		vertexCount = len(TriangleVertices)
	}

	err = recordCommandBuffers(state.CommandBuffers, state.Swapchain.Framebuffers, state.RenderPass, state.Pipeline, config.Extent, state.VertexBuffer, vertexCount)
	if err != nil {
		return initError(err, ErrInitialization, "recording command buffers")
	}

	state.imagesInFlight = make([]Fence, len(images))

	state.log.WithFields(logrus.Fields{
		"format":      config.SurfaceFormat.Format,
		"colorSpace":  config.SurfaceFormat.ColorSpace,
		"presentMode": config.PresentMode,
		"width":       config.Extent.Width,
		"height":      config.Extent.Height,
		"images":      len(images),
	}).Info("Swapchain created")
	return nil
}

// cleanupSwapchain destroys the swapchain group. Dependents go first:
// framebuffers, command buffers, pipeline, pipeline layout, render pass,
// image views and finally the swapchain.
func (r *Renderer) cleanupSwapchain(state *RenderState) {
	destroyAll(state.Swapchain.Framebuffers)
	state.Swapchain.Framebuffers = nil

	if len(state.CommandBuffers) > 0 {
		state.CommandPool.FreeCommandBuffers(state.CommandBuffers...)
		state.CommandBuffers = nil
	}

	if state.Pipeline != nil {
		state.Pipeline.Destroy()
		state.Pipeline = nil
	}

	if state.PipelineLayout != nil {
		state.PipelineLayout.Destroy()
		state.PipelineLayout = nil
	}

	if state.RenderPass != nil {
		state.RenderPass.Destroy()
		state.RenderPass = nil
	}

	destroyAll(state.Swapchain.ImageViews)
	state.Swapchain.ImageViews = nil

	if state.Swapchain.Swapchain != nil {
		state.Swapchain.Swapchain.Destroy()
	}
	state.Swapchain = SwapchainResources{}
	state.imagesInFlight = nil
}

// recreateSwapchain rebuilds the swapchain group for the current window
// size. While the drawable is empty the rebuild stays pending.
func (r *Renderer) recreateSwapchain(state *RenderState) error {
	width, height := r.window.DrawableSize()
	if width == 0 || height == 0 {
		state.resized = true
		state.log.Debug("Drawable is empty, deferring swapchain recreation")
		return nil
	}

	err := state.Device.WaitIdle()
	if err != nil {
		return presentationError(err, "recreateSwapchain: waiting for device")
	}

	r.cleanupSwapchain(state)

	err = r.createSwapchainResources(state)
	if err != nil {
		return errors.Wrap(err, "recreateSwapchain")
	}

	state.resized = false
	state.recreations++
	return nil
}
