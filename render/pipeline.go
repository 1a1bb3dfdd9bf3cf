package render

import (
	"github.com/vkngwrapper/core/v3/core1_0"
)

// GraphicsPipelineState is the fixed-function state of the triangle
// pipeline for a given extent and vertex input mode.
func GraphicsPipelineState(extent core1_0.Extent2D, mode VertexInputMode) GraphicsPipelineCreateInfo {
	vertexInput := &core1_0.PipelineVertexInputStateCreateInfo{}
	if mode == VertexInputMesh {
		vertexInput.VertexBindingDescriptions = getVertexBindingDescription()
		vertexInput.VertexAttributeDescriptions = getVertexAttributeDescriptions()
	}

	inputAssembly := &core1_0.PipelineInputAssemblyStateCreateInfo{
		Topology:               core1_0.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: false,
	}

	viewport := &core1_0.PipelineViewportStateCreateInfo{
		Viewports: []core1_0.Viewport{
			{
				X:        0,
				Y:        0,
				Width:    float32(extent.Width),
				Height:   float32(extent.Height),
				MinDepth: 0,
				MaxDepth: 1,
			},
		},
		Scissors: []core1_0.Rect2D{
			{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: extent,
			},
		},
	}

	rasterization := &core1_0.PipelineRasterizationStateCreateInfo{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,

		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    core1_0.CullModeBack,
		FrontFace:   core1_0.FrontFaceClockwise,

		DepthBiasEnable: false,

		LineWidth: 1.0,
	}

	multisample := &core1_0.PipelineMultisampleStateCreateInfo{
		SampleShadingEnable:  false,
		RasterizationSamples: core1_0.Samples1,
		MinSampleShading:     1.0,
	}

	colorBlend := &core1_0.PipelineColorBlendStateCreateInfo{
		LogicOpEnabled: false,
		LogicOp:        core1_0.LogicOpCopy,

		BlendConstants: [4]float32{0, 0, 0, 0},
		Attachments: []core1_0.PipelineColorBlendAttachmentState{
			{
				BlendEnabled:   false,
				ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
			},
		},
	}

	return GraphicsPipelineCreateInfo{
		VertexInputState:   vertexInput,
		InputAssemblyState: inputAssembly,
		ViewportState:      viewport,
		RasterizationState: rasterization,
		MultisampleState:   multisample,
		ColorBlendState:    colorBlend,
		Subpass:            0,
	}
}

// CreateGraphicsPipeline loads the shaders for mode and builds the pipeline
// and its layout against renderPass. Shader modules are destroyed before
// returning.
func CreateGraphicsPipeline(device Device, assets AssetReader, renderPass RenderPass, extent core1_0.Extent2D, mode VertexInputMode) (PipelineLayout, Pipeline, error) {
	vertShader, err := loadShaderModule(device, assets, mode.VertexShaderAsset())
	if err != nil {
		return nil, nil, initError(err, ErrPipelineCreation, "createGraphicsPipeline")
	}
	defer vertShader.Destroy()

	fragShader, err := loadShaderModule(device, assets, FragmentShaderAsset)
	if err != nil {
		return nil, nil, initError(err, ErrPipelineCreation, "createGraphicsPipeline")
	}
	defer fragShader.Destroy()

	pipelineLayout, err := device.CreatePipelineLayout()
	if err != nil {
		return nil, nil, initError(err, ErrPipelineCreation, "createGraphicsPipeline: layout")
	}

	info := GraphicsPipelineState(extent, mode)
	info.VertexShader = vertShader
	info.FragmentShader = fragShader
	info.Layout = pipelineLayout
	info.RenderPass = renderPass

	pipeline, err := device.CreateGraphicsPipeline(info)
	if err != nil {
		pipelineLayout.Destroy()
		return nil, nil, initError(err, ErrPipelineCreation, "createGraphicsPipeline")
	}

	return pipelineLayout, pipeline, nil
}
