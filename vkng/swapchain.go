package vkng

import (
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/mobiletriangle/render"
)

type Swapchain struct {
	device *Device
	handle khr_swapchain.Swapchain
}

func (s *Swapchain) Images() ([]render.Image, error) {
	images, _, err := s.device.swapchains().GetSwapchainImages(s.handle)
	if err != nil {
		return nil, err
	}

	result := make([]render.Image, 0, len(images))
	for _, image := range images {
		result = append(result, image)
	}
	return result, nil
}

func (s *Swapchain) AcquireNextImage(imageAvailable render.Semaphore) (int, render.Status, error) {
	semaphore := imageAvailable.(*Semaphore).handle

	imageIndex, res, err := s.device.swapchains().AcquireNextImage(s.handle, common.NoTimeout, &semaphore, nil)
	if res == khr_swapchain.VKErrorOutOfDate {
		return imageIndex, render.StatusOutOfDate, nil
	} else if res == khr_swapchain.VKSuboptimal {
		return imageIndex, render.StatusSuboptimal, nil
	} else if err != nil {
		return 0, render.StatusSuccess, err
	}
	return imageIndex, render.StatusSuccess, nil
}

func (s *Swapchain) Destroy() {
	s.device.swapchains().DestroySwapchain(s.handle, nil)
}

type Queue struct {
	device *Device
	handle core1_0.Queue
}

func (q *Queue) Submit(fence render.Fence, info render.SubmitInfo) error {
	var fenceHandle *core1_0.Fence
	if fence != nil {
		handle := fence.(*Fence).handle
		fenceHandle = &handle
	}

	var commandBuffers []core1_0.CommandBuffer
	for _, buffer := range info.CommandBuffers {
		commandBuffers = append(commandBuffers, buffer.(*CommandBuffer).handle)
	}

	_, err := q.device.driver.QueueSubmit(q.handle, fenceHandle,
		core1_0.SubmitInfo{
			WaitSemaphores:   semaphoreHandles(info.WaitSemaphores),
			WaitDstStageMask: info.WaitDstStageMask,
			CommandBuffers:   commandBuffers,
			SignalSemaphores: semaphoreHandles(info.SignalSemaphores),
		},
	)
	return err
}

func (q *Queue) Present(info render.PresentInfo) (render.Status, error) {
	res, err := q.device.swapchains().QueuePresent(q.handle, khr_swapchain.PresentInfo{
		WaitSemaphores: semaphoreHandles(info.WaitSemaphores),
		Swapchains:     []khr_swapchain.Swapchain{info.Swapchain.(*Swapchain).handle},
		ImageIndices:   []int{info.ImageIndex},
	})
	// Out of date and suboptimal come back from the driver as errors.
	if res == khr_swapchain.VKErrorOutOfDate {
		return render.StatusOutOfDate, nil
	} else if res == khr_swapchain.VKSuboptimal {
		return render.StatusSuboptimal, nil
	}
	return render.StatusSuccess, err
}
