package render

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// recorder collects create/destroy calls across every fake in a test so
// ordering can be asserted.
type recorder struct {
	calls []string
	// failOn makes the named call return errFake.
	failOn map[string]bool
}

var errFake = errors.New("fake failure")

func newRecorder() *recorder {
	return &recorder{failOn: make(map[string]bool)}
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	if r.failOn[call] {
		return errFake
	}
	return nil
}

func (r *recorder) reset() {
	r.calls = nil
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// matching returns the calls that start with prefix, in order.
func (r *recorder) matching(prefix string) []string {
	var result []string
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			result = append(result, c)
		}
	}
	return result
}

type fakeObject struct {
	rec  *recorder
	kind string
}

// Destroy tolerates a nil receiver: a failed create hands back a typed nil
// that the code under test may still hold.
func (o *fakeObject) Destroy() {
	if o == nil {
		return
	}
	o.rec.record("destroy " + o.kind)
}

func (r *recorder) object(kind string) (*fakeObject, error) {
	if err := r.record("create " + kind); err != nil {
		return nil, err
	}
	return &fakeObject{rec: r, kind: kind}, nil
}

type fakeLoader struct {
	rec        *recorder
	layers     []LayerProperties
	extensions []ExtensionProperties
	instance   *fakeInstance

	created *InstanceCreateInfo
}

func (l *fakeLoader) AvailableLayers() ([]LayerProperties, error) {
	return l.layers, nil
}

func (l *fakeLoader) AvailableExtensions() ([]ExtensionProperties, error) {
	return l.extensions, nil
}

func (l *fakeLoader) CreateInstance(info InstanceCreateInfo) (Instance, error) {
	l.created = &info
	if err := l.rec.record("create instance"); err != nil {
		return nil, err
	}
	return l.instance, nil
}

type fakeInstance struct {
	rec     *recorder
	devices []PhysicalDevice

	messengerCallback DebugCallback
}

func (i *fakeInstance) EnumeratePhysicalDevices() ([]PhysicalDevice, error) {
	if err := i.rec.record("enumerate physical devices"); err != nil {
		return nil, err
	}
	return i.devices, nil
}

func (i *fakeInstance) CreateDebugMessenger(callback DebugCallback) (DebugMessenger, error) {
	i.messengerCallback = callback
	return i.rec.object("debug messenger")
}

func (i *fakeInstance) Destroy() {
	i.rec.record("destroy instance")
}

type fakePhysicalDevice struct {
	rec *recorder

	name            string
	features        DeviceFeatures
	extensions      []ExtensionProperties
	families        []QueueFamily
	presentFamilies map[int]bool
	memoryTypes     []MemoryType

	capabilities *khr_surface.SurfaceCapabilities
	formats      []khr_surface.SurfaceFormat
	modes        []khr_surface.PresentMode

	device  *fakeDevice
	created *DeviceCreateInfo
}

func (d *fakePhysicalDevice) Name() string { return d.name }

func (d *fakePhysicalDevice) Features() DeviceFeatures { return d.features }

func (d *fakePhysicalDevice) QueueFamilies() []QueueFamily { return d.families }

func (d *fakePhysicalDevice) MemoryTypes() []MemoryType { return d.memoryTypes }

func (d *fakePhysicalDevice) EnumerateExtensions() ([]ExtensionProperties, error) {
	return d.extensions, nil
}

func (d *fakePhysicalDevice) SurfaceSupport(surface Surface, queueFamily int) (bool, error) {
	return d.presentFamilies[queueFamily], nil
}

func (d *fakePhysicalDevice) SurfaceCapabilities(surface Surface) (*khr_surface.SurfaceCapabilities, error) {
	caps := *d.capabilities
	return &caps, nil
}

func (d *fakePhysicalDevice) SurfaceFormats(surface Surface) ([]khr_surface.SurfaceFormat, error) {
	return d.formats, nil
}

func (d *fakePhysicalDevice) SurfacePresentModes(surface Surface) ([]khr_surface.PresentMode, error) {
	return d.modes, nil
}

func (d *fakePhysicalDevice) CreateDevice(info DeviceCreateInfo) (Device, error) {
	d.created = &info
	if err := d.rec.record("create device"); err != nil {
		return nil, err
	}
	return d.device, nil
}

type fakeDevice struct {
	rec *recorder

	// imageCount is the number of images each new swapchain reports.
	imageCount int
	queues     map[int]*fakeQueue
	swapchains []*fakeSwapchain
	buffers    []*fakeBuffer
	pipelines  []GraphicsPipelineCreateInfo
	shaders    [][]uint32
	fenceWaits [][]Fence
	fenceReset [][]Fence
}

func (d *fakeDevice) GetQueue(queueFamily, index int) Queue {
	if d.queues == nil {
		d.queues = make(map[int]*fakeQueue)
	}
	q, ok := d.queues[queueFamily]
	if !ok {
		q = &fakeQueue{rec: d.rec, family: queueFamily}
		d.queues[queueFamily] = q
	}
	return q
}

func (d *fakeDevice) WaitIdle() error {
	return d.rec.record("wait idle")
}

func (d *fakeDevice) CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error) {
	if err := d.rec.record("create swapchain"); err != nil {
		return nil, err
	}
	sc := &fakeSwapchain{rec: d.rec, info: info, imageCount: d.imageCount}
	d.swapchains = append(d.swapchains, sc)
	return sc, nil
}

func (d *fakeDevice) lastSwapchain() *fakeSwapchain {
	return d.swapchains[len(d.swapchains)-1]
}

func (d *fakeDevice) CreateImageView(image Image, format core1_0.Format) (ImageView, error) {
	return d.rec.object("image view")
}

func (d *fakeDevice) CreateRenderPass(info core1_0.RenderPassCreateInfo) (RenderPass, error) {
	return d.rec.object("render pass")
}

func (d *fakeDevice) CreateShaderModule(code []uint32) (ShaderModule, error) {
	d.shaders = append(d.shaders, code)
	return d.rec.object("shader module")
}

func (d *fakeDevice) CreatePipelineLayout() (PipelineLayout, error) {
	return d.rec.object("pipeline layout")
}

func (d *fakeDevice) CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (Pipeline, error) {
	d.pipelines = append(d.pipelines, info)
	return d.rec.object("pipeline")
}

func (d *fakeDevice) CreateFramebuffer(info FramebufferCreateInfo) (Framebuffer, error) {
	return d.rec.object("framebuffer")
}

func (d *fakeDevice) CreateCommandPool(queueFamily int) (CommandPool, error) {
	if err := d.rec.record("create command pool"); err != nil {
		return nil, err
	}
	return &fakeCommandPool{rec: d.rec}, nil
}

func (d *fakeDevice) CreateBuffer(size int, usage core1_0.BufferUsageFlags) (Buffer, error) {
	if err := d.rec.record("create buffer"); err != nil {
		return nil, err
	}
	b := &fakeBuffer{rec: d.rec, size: size, memoryTypeBits: 0xFFFFFFFF, memoryType: -1}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeDevice) CreateFence(signaled bool) (Fence, error) {
	return d.rec.object("fence")
}

func (d *fakeDevice) CreateSemaphore() (Semaphore, error) {
	return d.rec.object("semaphore")
}

func (d *fakeDevice) WaitForFences(fences ...Fence) error {
	d.fenceWaits = append(d.fenceWaits, fences)
	return nil
}

func (d *fakeDevice) ResetFences(fences ...Fence) error {
	d.fenceReset = append(d.fenceReset, fences)
	return nil
}

func (d *fakeDevice) Destroy() {
	d.rec.record("destroy device")
}

type fakeQueue struct {
	rec    *recorder
	family int

	submits  []SubmitInfo
	fences   []Fence
	presents []PresentInfo
	// presentStatuses are returned by successive presents; Success after.
	presentStatuses []Status
}

func (q *fakeQueue) Submit(fence Fence, info SubmitInfo) error {
	q.submits = append(q.submits, info)
	q.fences = append(q.fences, fence)
	return q.rec.record("submit")
}

func (q *fakeQueue) Present(info PresentInfo) (Status, error) {
	q.presents = append(q.presents, info)
	if err := q.rec.record("present"); err != nil {
		return StatusSuccess, err
	}
	if len(q.presentStatuses) == 0 {
		return StatusSuccess, nil
	}
	status := q.presentStatuses[0]
	q.presentStatuses = q.presentStatuses[1:]
	return status, nil
}

type fakeSwapchain struct {
	rec        *recorder
	info       SwapchainCreateInfo
	imageCount int

	acquires int
	// acquireStatuses are returned by successive acquires; Success after.
	acquireStatuses []Status
}

func (s *fakeSwapchain) Images() ([]Image, error) {
	images := make([]Image, s.imageCount)
	for i := range images {
		images[i] = fmt.Sprintf("image %d", i)
	}
	return images, nil
}

func (s *fakeSwapchain) AcquireNextImage(imageAvailable Semaphore) (int, Status, error) {
	if err := s.rec.record("acquire"); err != nil {
		return 0, StatusSuccess, err
	}
	index := s.acquires % s.imageCount
	s.acquires++

	status := StatusSuccess
	if len(s.acquireStatuses) > 0 {
		status = s.acquireStatuses[0]
		s.acquireStatuses = s.acquireStatuses[1:]
	}
	return index, status, nil
}

func (s *fakeSwapchain) Destroy() {
	s.rec.record("destroy swapchain")
}

type fakeCommandPool struct {
	rec *recorder
}

func (p *fakeCommandPool) AllocateCommandBuffers(count int) ([]CommandBuffer, error) {
	if err := p.rec.record("allocate command buffers"); err != nil {
		return nil, err
	}
	buffers := make([]CommandBuffer, count)
	for i := range buffers {
		buffers[i] = &fakeCommandBuffer{}
	}
	return buffers, nil
}

func (p *fakeCommandPool) FreeCommandBuffers(buffers ...CommandBuffer) {
	p.rec.record("free command buffers")
}

func (p *fakeCommandPool) Destroy() {
	p.rec.record("destroy command pool")
}

type fakeCommandBuffer struct {
	commands []string
}

func (b *fakeCommandBuffer) Begin() error {
	b.commands = append(b.commands, "begin")
	return nil
}

func (b *fakeCommandBuffer) CmdBeginRenderPass(info RenderPassBeginInfo) error {
	b.commands = append(b.commands, "begin render pass")
	return nil
}

func (b *fakeCommandBuffer) CmdBindPipeline(pipeline Pipeline) {
	b.commands = append(b.commands, "bind pipeline")
}

func (b *fakeCommandBuffer) CmdBindVertexBuffers(buffers ...Buffer) {
	b.commands = append(b.commands, fmt.Sprintf("bind %d vertex buffers", len(buffers)))
}

func (b *fakeCommandBuffer) CmdDraw(vertexCount, instanceCount int) {
	b.commands = append(b.commands, fmt.Sprintf("draw %d", vertexCount))
}

func (b *fakeCommandBuffer) CmdEndRenderPass() {
	b.commands = append(b.commands, "end render pass")
}

func (b *fakeCommandBuffer) End() error {
	b.commands = append(b.commands, "end")
	return nil
}

type fakeBuffer struct {
	rec            *recorder
	size           int
	memoryTypeBits uint32
	memoryType     int
	data           []byte
}

func (b *fakeBuffer) MemoryTypeBits() uint32 { return b.memoryTypeBits }

func (b *fakeBuffer) BindMemory(memoryTypeIndex int) error {
	b.memoryType = memoryTypeIndex
	return b.rec.record("bind buffer memory")
}

func (b *fakeBuffer) Write(data []byte) error {
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *fakeBuffer) Destroy() {
	b.rec.record("destroy buffer")
}

type fakeWindow struct {
	rec           *recorder
	extensions    []string
	width, height int
}

func (w *fakeWindow) RequiredInstanceExtensions() []string { return w.extensions }

func (w *fakeWindow) CreateSurface(instance Instance) (Surface, error) {
	return w.rec.object("surface")
}

func (w *fakeWindow) DrawableSize() (int, int) { return w.width, w.height }

type fakeAssets map[string][]byte

func (a fakeAssets) ReadAsset(name string) ([]byte, error) {
	data, ok := a[name]
	if !ok {
		return nil, errors.Newf("asset %s not found", name)
	}
	return data, nil
}

// spirvStub is four words of well-formed length; the fakes never parse it.
var spirvStub = []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}

func testAssets() fakeAssets {
	return fakeAssets{
		MeshVertexShaderAsset:      spirvStub,
		GeneratedVertexShaderAsset: spirvStub,
		FragmentShaderAsset:        spirvStub,
	}
}

type fakeWaiter struct {
	hints []int
}

func (w *fakeWaiter) SetTickWaitHint(ms int) {
	w.hints = append(w.hints, ms)
}

func (w *fakeWaiter) last() int {
	if len(w.hints) == 0 {
		return 0
	}
	return w.hints[len(w.hints)-1]
}

// windowSizedCapabilities defers the extent to the window.
func windowSizedCapabilities() *khr_surface.SurfaceCapabilities {
	return &khr_surface.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  8,
		CurrentExtent:  core1_0.Extent2D{Width: -1, Height: -1},
		MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
	}
}

// testRig is a complete fake platform with one suitable device whose
// queue family 0 does graphics and presentation.
type testRig struct {
	rec      *recorder
	loader   *fakeLoader
	instance *fakeInstance
	physical *fakePhysicalDevice
	device   *fakeDevice
	window   *fakeWindow
	waiter   *fakeWaiter
}

func newTestRig() *testRig {
	rec := newRecorder()
	device := &fakeDevice{rec: rec, imageCount: 3}
	physical := &fakePhysicalDevice{
		rec:        rec,
		name:       "Fake GPU",
		features:   DeviceFeatures{GeometryShader: true},
		extensions: []ExtensionProperties{{ExtensionName: khr_swapchain.ExtensionName}},
		families: []QueueFamily{
			{Index: 0, Flags: core1_0.QueueGraphics, QueueCount: 1},
		},
		presentFamilies: map[int]bool{0: true},
		memoryTypes: []MemoryType{
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal},
			{PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent},
		},
		capabilities: windowSizedCapabilities(),
		formats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		modes:  []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
		device: device,
	}
	instance := &fakeInstance{rec: rec, devices: []PhysicalDevice{physical}}
	loader := &fakeLoader{
		rec:      rec,
		instance: instance,
		extensions: []ExtensionProperties{
			{ExtensionName: khr_surface.ExtensionName},
			{ExtensionName: "VK_KHR_android_surface"},
		},
	}

	return &testRig{
		rec:      rec,
		loader:   loader,
		instance: instance,
		physical: physical,
		device:   device,
		window: &fakeWindow{
			rec:        rec,
			extensions: []string{khr_surface.ExtensionName, "VK_KHR_android_surface"},
			width:      800,
			height:     600,
		},
		waiter: &fakeWaiter{},
	}
}

func (r *testRig) renderer(log logrus.FieldLogger, options Options) *Renderer {
	return NewRenderer(log, r.loader, r.window, testAssets(), r.waiter, options)
}
