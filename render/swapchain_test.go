package render

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

var (
	bgraSRGB = khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	rgbaSRGB = khr_surface.SurfaceFormat{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	rgbFloat = khr_surface.SurfaceFormat{Format: core1_0.FormatR32G32B32SignedFloat, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
)

func TestPickSurfaceFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []khr_surface.SurfaceFormat
		want    khr_surface.SurfaceFormat
	}{
		{name: "no preference", formats: []khr_surface.SurfaceFormat{{Format: core1_0.FormatUndefined}}, want: PreferredSurfaceFormat},
		{name: "preferred offered", formats: []khr_surface.SurfaceFormat{rgbaSRGB, bgraSRGB}, want: bgraSRGB},
		{name: "first offered", formats: []khr_surface.SurfaceFormat{rgbFloat, rgbaSRGB}, want: rgbFloat},
		{name: "empty", formats: nil, want: PreferredSurfaceFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickSurfaceFormat(tt.formats)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickPresentMode(t *testing.T) {
	tests := []struct {
		name  string
		modes []khr_surface.PresentMode
		want  khr_surface.PresentMode
	}{
		{name: "mailbox preferred", modes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox}, want: khr_surface.PresentModeMailbox},
		{name: "mailbox over immediate", modes: []khr_surface.PresentMode{khr_surface.PresentModeImmediate, khr_surface.PresentModeMailbox}, want: khr_surface.PresentModeMailbox},
		{name: "immediate over fifo", modes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeImmediate}, want: khr_surface.PresentModeImmediate},
		{name: "fifo only", modes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO}, want: khr_surface.PresentModeFIFO},
		{name: "none", modes: nil, want: khr_surface.PresentModeFIFO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickPresentMode(tt.modes)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickExtent(t *testing.T) {
	fixed := windowSizedCapabilities()
	fixed.CurrentExtent = core1_0.Extent2D{Width: 1920, Height: 1080}

	clamped := windowSizedCapabilities()
	clamped.MinImageExtent = core1_0.Extent2D{Width: 1, Height: 1}
	clamped.MaxImageExtent = core1_0.Extent2D{Width: 1024, Height: 1024}

	raised := windowSizedCapabilities()
	raised.MinImageExtent = core1_0.Extent2D{Width: 64, Height: 64}

	tests := []struct {
		name          string
		capabilities  *khr_surface.SurfaceCapabilities
		width, height int
		want          core1_0.Extent2D
	}{
		{name: "current extent used", capabilities: fixed, width: 800, height: 600, want: core1_0.Extent2D{Width: 1920, Height: 1080}},
		{name: "window size", capabilities: windowSizedCapabilities(), width: 800, height: 600, want: core1_0.Extent2D{Width: 800, Height: 600}},
		{name: "clamped to maximum", capabilities: clamped, width: 1200, height: 800, want: core1_0.Extent2D{Width: 1024, Height: 800}},
		{name: "raised to minimum", capabilities: raised, width: 10, height: 100, want: core1_0.Extent2D{Width: 64, Height: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickExtent(tt.capabilities, tt.width, tt.height)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     int
	}{
		{name: "unbounded", min: 2, max: 0, want: 3},
		{name: "room above minimum", min: 2, max: 8, want: 3},
		{name: "capped at maximum", min: 2, max: 2, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := windowSizedCapabilities()
			caps.MinImageCount = tt.min
			caps.MaxImageCount = tt.max

			got := PickImageCount(caps)
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChooseSwapchainConfig(t *testing.T) {
	caps := windowSizedCapabilities()
	caps.MaxImageCount = 0

	got := ChooseSwapchainConfig(caps,
		[]khr_surface.SurfaceFormat{bgraSRGB},
		[]khr_surface.PresentMode{khr_surface.PresentModeFIFO},
		800, 600)

	want := SwapchainConfig{
		SurfaceFormat: bgraSRGB,
		PresentMode:   khr_surface.PresentModeFIFO,
		Extent:        core1_0.Extent2D{Width: 800, Height: 600},
		ImageCount:    3,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCreateSwapchainSharingMode(t *testing.T) {
	tests := []struct {
		name              string
		graphics, present int
		wantMode          core1_0.SharingMode
		wantFamilies      []int
	}{
		{name: "shared family", graphics: 0, present: 0, wantMode: core1_0.SharingModeExclusive},
		{name: "separate families", graphics: 0, present: 2, wantMode: core1_0.SharingModeConcurrent, wantFamilies: []int{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newTestRig()
			surface := &fakeObject{rec: rig.rec, kind: "surface"}
			selection := DeviceSelection{
				Device:                       rig.physical,
				GraphicsQueueFamilyIndex:     tt.graphics,
				PresentationQueueFamilyIndex: tt.present,
			}
			caps := windowSizedCapabilities()
			config := ChooseSwapchainConfig(caps, rig.physical.formats, rig.physical.modes, 800, 600)

			_, images, err := CreateSwapchain(rig.device, surface, caps, selection, config)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(images) != rig.device.imageCount {
				t.Errorf("got %d images, want %d", len(images), rig.device.imageCount)
			}

			info := rig.device.lastSwapchain().info
			if info.ImageSharingMode != tt.wantMode {
				t.Errorf("got sharing mode %v, want %v", info.ImageSharingMode, tt.wantMode)
			}
			if !reflect.DeepEqual(info.QueueFamilyIndices, tt.wantFamilies) {
				t.Errorf("got families %v, want %v", info.QueueFamilyIndices, tt.wantFamilies)
			}
			if info.MinImageCount != config.ImageCount || info.ImageExtent != config.Extent {
				t.Errorf("got %d images at %v, want %d at %v", info.MinImageCount, info.ImageExtent, config.ImageCount, config.Extent)
			}
		})
	}
}

func TestCreateSwapchainFailure(t *testing.T) {
	rig := newTestRig()
	rig.rec.failOn["create swapchain"] = true

	_, _, err := CreateSwapchain(rig.device, nil, windowSizedCapabilities(), DeviceSelection{}, SwapchainConfig{})
	if !errors.Is(err, ErrSwapchainCreation) {
		t.Errorf("got %v, want ErrSwapchainCreation", err)
	}
	if !errors.Is(err, ErrInitialization) {
		t.Errorf("got %v, want ErrInitialization", err)
	}
}

func TestCreateImageViewsCleansUpOnFailure(t *testing.T) {
	rig := newTestRig()
	images := []Image{"a", "b", "c"}

	views, err := CreateImageViews(rig.device, images, core1_0.FormatB8G8R8A8SRGB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != len(images) {
		t.Fatalf("got %d views, want %d", len(views), len(images))
	}

	rig.rec.reset()
	// Let two views succeed, then fail the third.
	failing := &failAfterDevice{fakeDevice: rig.device, remaining: 2}
	_, err = CreateImageViews(failing, images, core1_0.FormatB8G8R8A8SRGB)
	if !errors.Is(err, ErrSwapchainCreation) {
		t.Fatalf("got %v, want ErrSwapchainCreation", err)
	}
	if calls := rig.rec.count("destroy image view"); calls != 2 {
		t.Errorf("got %d destroyed views, want 2", calls)
	}
}

// failAfterDevice fails image view creation once remaining reaches zero.
type failAfterDevice struct {
	*fakeDevice
	remaining int
}

func (d *failAfterDevice) CreateImageView(image Image, format core1_0.Format) (ImageView, error) {
	if d.remaining == 0 {
		return nil, errFake
	}
	d.remaining--
	return d.fakeDevice.CreateImageView(image, format)
}
