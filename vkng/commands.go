package vkng

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/mobiletriangle/render"
)

type CommandPool struct {
	device *Device
	handle core1_0.CommandPool
}

func (p *CommandPool) AllocateCommandBuffers(count int) ([]render.CommandBuffer, error) {
	buffers, _, err := p.device.driver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        p.handle,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return nil, err
	}

	result := make([]render.CommandBuffer, 0, len(buffers))
	for _, buffer := range buffers {
		result = append(result, &CommandBuffer{device: p.device, handle: buffer})
	}
	return result, nil
}

func (p *CommandPool) FreeCommandBuffers(buffers ...render.CommandBuffer) {
	if len(buffers) == 0 {
		return
	}

	handles := make([]core1_0.CommandBuffer, 0, len(buffers))
	for _, buffer := range buffers {
		handles = append(handles, buffer.(*CommandBuffer).handle)
	}
	p.device.driver.FreeCommandBuffers(handles...)
}

func (p *CommandPool) Destroy() {
	p.device.driver.DestroyCommandPool(p.handle, nil)
}

type CommandBuffer struct {
	device *Device
	handle core1_0.CommandBuffer
}

func (b *CommandBuffer) Begin() error {
	_, err := b.device.driver.BeginCommandBuffer(b.handle, core1_0.CommandBufferBeginInfo{})
	return err
}

func (b *CommandBuffer) CmdBeginRenderPass(info render.RenderPassBeginInfo) error {
	return b.device.driver.CmdBeginRenderPass(b.handle, core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  info.RenderPass.(*RenderPass).handle,
			Framebuffer: info.Framebuffer.(*Framebuffer).handle,
			RenderArea:  info.RenderArea,
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat(info.ClearColor),
			},
		})
}

func (b *CommandBuffer) CmdBindPipeline(pipeline render.Pipeline) {
	b.device.driver.CmdBindPipeline(b.handle, core1_0.PipelineBindPointGraphics, pipeline.(*Pipeline).handle)
}

func (b *CommandBuffer) CmdBindVertexBuffers(buffers ...render.Buffer) {
	handles := make([]core1_0.Buffer, 0, len(buffers))
	offsets := make([]int, 0, len(buffers))
	for _, buffer := range buffers {
		handles = append(handles, buffer.(*Buffer).handle)
		offsets = append(offsets, 0)
	}
	b.device.driver.CmdBindVertexBuffers(b.handle, 0, handles, offsets)
}

func (b *CommandBuffer) CmdDraw(vertexCount, instanceCount int) {
	b.device.driver.CmdDraw(b.handle, vertexCount, instanceCount, 0, 0)
}

func (b *CommandBuffer) CmdEndRenderPass() {
	b.device.driver.CmdEndRenderPass(b.handle)
}

func (b *CommandBuffer) End() error {
	_, err := b.device.driver.EndCommandBuffer(b.handle)
	return err
}

// Buffer is a buffer together with the memory bound to it.
type Buffer struct {
	device         *Device
	handle         core1_0.Buffer
	memoryTypeBits uint32
	allocationSize int

	memory core1_0.DeviceMemory
	bound  bool
}

func (b *Buffer) MemoryTypeBits() uint32 {
	return b.memoryTypeBits
}

func (b *Buffer) BindMemory(memoryTypeIndex int) error {
	memory, _, err := b.device.driver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  b.allocationSize,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return err
	}
	b.memory = memory
	b.bound = true

	_, err = b.device.driver.BindBufferMemory(b.handle, memory, 0)
	return err
}

// Write copies data to the start of the buffer's memory, which must be
// host visible.
func (b *Buffer) Write(data []byte) error {
	if !b.bound {
		return errors.New("buffer has no memory bound")
	}

	memoryPtr, _, err := b.device.driver.MapMemory(b.memory, 0, len(data), 0)
	if err != nil {
		return err
	}
	defer b.device.driver.UnmapMemory(b.memory)

	dataBuffer := unsafe.Slice((*byte)(memoryPtr), len(data))
	copy(dataBuffer, data)
	return nil
}

func (b *Buffer) Destroy() {
	b.device.driver.DestroyBuffer(b.handle, nil)
	if b.bound {
		b.device.driver.FreeMemory(b.memory, nil)
	}
}
