package render

import (
	"github.com/sirupsen/logrus"
)

// releaseStack runs cleanup functions in reverse order of registration.
type releaseStack []func()

func (s *releaseStack) push(fn func()) {
	*s = append(*s, fn)
}

func (s *releaseStack) release() {
	for i := len(*s) - 1; i >= 0; i-- {
		(*s)[i]()
	}
	*s = nil
}

// RenderState is everything the renderer creates for one surface. The
// swapchain group (swapchain, views, render pass, pipeline, framebuffers and
// command buffers) is rebuilt on resize; the rest lives until the surface
// is destroyed.
type RenderState struct {
	log logrus.FieldLogger

	Instance       Instance
	DebugMessenger DebugMessenger
	Surface        Surface
	Selection      DeviceSelection
	Device         Device
	GraphicsQueue  Queue
	PresentQueue   Queue
	CommandPool    CommandPool
	VertexBuffer   Buffer
	Frames         []FrameSyncSlot

	Swapchain      SwapchainResources
	RenderPass     RenderPass
	PipelineLayout PipelineLayout
	Pipeline       Pipeline
	CommandBuffers []CommandBuffer

	// imagesInFlight holds, per swapchain image, the fence of the slot that
	// last submitted work rendering into it.
	imagesInFlight []Fence

	frameNumber int
	resized     bool
	recreations int
	releases    releaseStack
}

func (s *RenderState) FrameNumber() int { return s.frameNumber }

// Recreations counts completed swapchain rebuilds.
func (s *RenderState) Recreations() int { return s.recreations }
