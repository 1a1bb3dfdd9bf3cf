package render

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
)

const MaxFramesInFlight = 2

// FrameSyncSlot guards one in-flight frame. InFlight is signaled when the
// slot's last submission has finished; only then may its semaphores be
// used for a new acquire.
type FrameSyncSlot struct {
	InFlight       Fence
	ImageAvailable Semaphore
	RenderFinished Semaphore
}

func (s FrameSyncSlot) destroy() {
	if s.InFlight != nil {
		s.InFlight.Destroy()
	}
	if s.RenderFinished != nil {
		s.RenderFinished.Destroy()
	}
	if s.ImageAvailable != nil {
		s.ImageAvailable.Destroy()
	}
}

// createSyncObjects builds MaxFramesInFlight slots. Fences start signaled so
// the first wait on each slot returns immediately.
func createSyncObjects(device Device) ([]FrameSyncSlot, error) {
	var slots []FrameSyncSlot
	fail := func(err error) ([]FrameSyncSlot, error) {
		for _, slot := range slots {
			slot.destroy()
		}
		return nil, initError(err, ErrInitialization, "createSyncObjects")
	}

	for i := 0; i < MaxFramesInFlight; i++ {
		var slot FrameSyncSlot
		var err error

		slot.ImageAvailable, err = device.CreateSemaphore()
		if err != nil {
			return fail(err)
		}
		slots = append(slots, slot)

		slots[i].RenderFinished, err = device.CreateSemaphore()
		if err != nil {
			return fail(err)
		}

		slots[i].InFlight, err = device.CreateFence(true)
		if err != nil {
			return fail(err)
		}
	}

	return slots, nil
}

// recordCommandBuffers pre-records one draw of the triangle per framebuffer.
func recordCommandBuffers(buffers []CommandBuffer, framebuffers []Framebuffer, renderPass RenderPass, pipeline Pipeline, extent core1_0.Extent2D, vertexBuffer Buffer, vertexCount int) error {
	for bufferIdx, buffer := range buffers {
		err := buffer.Begin()
		if err != nil {
			return err
		}

		err = buffer.CmdBeginRenderPass(RenderPassBeginInfo{
			RenderPass:  renderPass,
			Framebuffer: framebuffers[bufferIdx],
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: extent,
			},
			ClearColor: [4]float32{0, 0, 0, 1},
		})
		if err != nil {
			return err
		}

		buffer.CmdBindPipeline(pipeline)
		if vertexBuffer != nil {
			buffer.CmdBindVertexBuffers(vertexBuffer)
		}
		buffer.CmdDraw(vertexCount, 1)
		buffer.CmdEndRenderPass()

		err = buffer.End()
		if err != nil {
			return err
		}
	}

	return nil
}

// drawFrame runs one wait, acquire, reset, submit, present cycle on the
// current frame slot.
func (r *Renderer) drawFrame(state *RenderState) error {
	slot := state.Frames[state.frameNumber%MaxFramesInFlight]

	err := state.Device.WaitForFences(slot.InFlight)
	if err != nil {
		return presentationError(err, "drawFrame: waiting for in-flight fence")
	}

	imageIndex, status, err := state.Swapchain.Swapchain.AcquireNextImage(slot.ImageAvailable)
	if err != nil {
		return presentationError(err, "drawFrame: acquiring image")
	}
	if status == StatusOutOfDate {
		return r.recreateSwapchain(state)
	}

	// Another slot may still be rendering into this image.
	if fence := state.imagesInFlight[imageIndex]; fence != nil && fence != slot.InFlight {
		err = state.Device.WaitForFences(fence)
		if err != nil {
			return presentationError(err, "drawFrame: waiting for image fence")
		}
	}
	state.imagesInFlight[imageIndex] = slot.InFlight

	err = state.Device.ResetFences(slot.InFlight)
	if err != nil {
		return presentationError(err, "drawFrame: resetting in-flight fence")
	}

	err = state.GraphicsQueue.Submit(slot.InFlight, SubmitInfo{
		WaitSemaphores:   []Semaphore{slot.ImageAvailable},
		WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
		CommandBuffers:   []CommandBuffer{state.CommandBuffers[imageIndex]},
		SignalSemaphores: []Semaphore{slot.RenderFinished},
	})
	if err != nil {
		return presentationError(err, "drawFrame: submitting")
	}

	status, err = state.PresentQueue.Present(PresentInfo{
		WaitSemaphores: []Semaphore{slot.RenderFinished},
		Swapchain:      state.Swapchain.Swapchain,
		ImageIndex:     imageIndex,
	})
	if err != nil {
		return presentationError(err, "drawFrame: presenting")
	}

	state.frameNumber++

	if status == StatusOutOfDate || status == StatusSuboptimal || state.resized {
		state.resized = false
		return r.recreateSwapchain(state)
	}

	return nil
}

const statsInterval = 5 * time.Second

type frameStats struct {
	elapsed time.Duration
	frames  int
}

func (s *frameStats) add(log logrus.FieldLogger, elapsed time.Duration) {
	s.elapsed += elapsed
	s.frames++

	if s.elapsed >= statsInterval {
		log.Debugf("%.1f frames per second", float64(s.frames)/s.elapsed.Seconds())
		s.elapsed = 0
		s.frames = 0
	}
}
