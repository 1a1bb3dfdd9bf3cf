package render

import (
	"github.com/cockroachdb/errors"
)

const (
	MeshVertexShaderAsset      = "shaders/mesh.vert.spv"
	GeneratedVertexShaderAsset = "shaders/generated.vert.spv"
	FragmentShaderAsset        = "shaders/triangle.frag.spv"
)

// AssetReader reads a named asset from the application's bundled assets.
type AssetReader interface {
	ReadAsset(name string) ([]byte, error)
}

// bytesToBytecode packs little-endian SPIR-V bytes into words.
func bytesToBytecode(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, errors.Newf("shader bytecode length %d is not a positive multiple of 4", len(b))
	}

	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode, nil
}

func loadShaderModule(device Device, assets AssetReader, name string) (ShaderModule, error) {
	shaderBytes, err := assets.ReadAsset(name)
	if err != nil {
		return nil, err
	}

	code, err := bytesToBytecode(shaderBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", name)
	}

	module, err := device.CreateShaderModule(code)
	if err != nil {
		return nil, errors.Wrapf(err, "creating shader module %s", name)
	}
	return module, nil
}
