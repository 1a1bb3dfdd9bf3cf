package render

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// VertexInputMode selects where the triangle's vertices come from.
type VertexInputMode int

const (
	// VertexInputMesh feeds TriangleVertices from a vertex buffer.
	VertexInputMesh VertexInputMode = iota
	// VertexInputGenerated has the vertex shader emit the triangle itself.
	VertexInputGenerated
)

func (m VertexInputMode) String() string {
	switch m {
	case VertexInputMesh:
		return "mesh"
	case VertexInputGenerated:
		return "generated"
	}
	return "unknown"
}

func ParseVertexInputMode(s string) (VertexInputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mesh":
		return VertexInputMesh, nil
	case "generated":
		return VertexInputGenerated, nil
	}
	return 0, errors.Newf("unknown vertex input mode %q", s)
}

func (m VertexInputMode) VertexShaderAsset() string {
	if m == VertexInputGenerated {
		return GeneratedVertexShaderAsset
	}
	return MeshVertexShaderAsset
}

type Vertex struct {
	Position mgl32.Vec2
	Color    mgl32.Vec3
}

// TriangleVertices is the static mesh, wound clockwise in framebuffer space.
var TriangleVertices = []Vertex{
	{Position: mgl32.Vec2{0.0, -0.5}, Color: mgl32.Vec3{1, 0, 0}},
	{Position: mgl32.Vec2{0.5, 0.5}, Color: mgl32.Vec3{0, 1, 0}},
	{Position: mgl32.Vec2{-0.5, 0.5}, Color: mgl32.Vec3{0, 0, 1}},
}

// generatedVertexCount is the number of vertices the generated-triangle
// vertex shader emits.
const generatedVertexCount = 3

func getVertexBindingDescription() []core1_0.VertexInputBindingDescription {
	v := Vertex{}
	return []core1_0.VertexInputBindingDescription{
		{
			Binding:   0,
			Stride:    int(unsafe.Sizeof(v)),
			InputRate: core1_0.VertexInputRateVertex,
		},
	}
}

func getVertexAttributeDescriptions() []core1_0.VertexInputAttributeDescription {
	v := Vertex{}
	return []core1_0.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   core1_0.FormatR32G32SignedFloat,
			Offset:   int(unsafe.Offsetof(v.Position)),
		},
		{
			Binding:  0,
			Location: 1,
			Format:   core1_0.FormatR32G32B32SignedFloat,
			Offset:   int(unsafe.Offsetof(v.Color)),
		},
	}
}

func vertexBytes(vertices []Vertex) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := binary.Write(buf, common.ByteOrder, vertices)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CreateVertexBuffer uploads vertices into a host-visible, coherent buffer.
func CreateVertexBuffer(device Device, memoryTypes []MemoryType, vertices []Vertex) (Buffer, error) {
	data, err := vertexBytes(vertices)
	if err != nil {
		return nil, initError(err, ErrInitialization, "createVertexBuffer")
	}

	buffer, err := device.CreateBuffer(len(data), core1_0.BufferUsageVertexBuffer)
	if err != nil {
		return nil, initError(err, ErrInitialization, "createVertexBuffer")
	}

	memoryTypeIndex, err := FindMemoryType(memoryTypes, buffer.MemoryTypeBits(), core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if err != nil {
		buffer.Destroy()
		return nil, initError(err, ErrInitialization, "createVertexBuffer")
	}

	err = buffer.BindMemory(memoryTypeIndex)
	if err == nil {
		err = buffer.Write(data)
	}
	if err != nil {
		buffer.Destroy()
		return nil, initError(err, ErrInitialization, "createVertexBuffer")
	}

	return buffer, nil
}
