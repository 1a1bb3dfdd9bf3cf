package render

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// RenderPassCreateInfo describes the single-subpass pass that clears the
// swapchain image and leaves it ready for presentation.
func RenderPassCreateInfo(format core1_0.Format) core1_0.RenderPassCreateInfo {
	return core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         format,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		// Keeps the pass from writing the image before the presentation
		// engine has released it.
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentWrite,
			},
		},
	}
}

func CreateRenderPass(device Device, format core1_0.Format) (RenderPass, error) {
	renderPass, err := device.CreateRenderPass(RenderPassCreateInfo(format))
	if err != nil {
		return nil, initError(err, ErrPipelineCreation, "createRenderPass")
	}
	return renderPass, nil
}

// CreateFramebuffers makes one framebuffer per image view.
func CreateFramebuffers(device Device, renderPass RenderPass, imageViews []ImageView, extent core1_0.Extent2D) ([]Framebuffer, error) {
	var framebuffers []Framebuffer
	for i, imageView := range imageViews {
		framebuffer, err := device.CreateFramebuffer(FramebufferCreateInfo{
			RenderPass:  renderPass,
			Attachments: []ImageView{imageView},
			Width:       extent.Width,
			Height:      extent.Height,
		})
		if err != nil {
			destroyAll(framebuffers)
			return nil, initError(err, ErrSwapchainCreation, "createFramebuffers: image %d", i)
		}

		framebuffers = append(framebuffers, framebuffer)
	}

	return framebuffers, nil
}
