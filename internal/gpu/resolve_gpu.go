// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/shade"
)

//go:embed shaders/resolve.wgsl
var resolveShaderSource string

// resolveParamsSize is the byte size of the Params uniform in resolve.wgsl
// (width, height and two padding words).
const resolveParamsSize = 16

// resolveWaitTimeout bounds how long a dispatch waits for the GPU fence.
const resolveWaitTimeout = 5 * time.Second

// ResolveAccelerator resolves fragment buffers on the GPU using a wgpu/hal
// compute shader. It implements shade.GPUAccelerator.
//
// The WGSL kernel applies the same transform as the CPU path: per-channel
// normalization to 0..1 followed by the two-piece sRGB curve on RGB, with
// alpha kept linear. Fragments travel to the GPU as flat little-endian f32
// quads and come back the same way, so results are bit-comparable with the
// CPU resolve up to shader float rounding.
type ResolveAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shaderModule hal.ShaderModule
	bindLayout   hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipeline     hal.ComputePipeline

	// Compiled SPIR-V (cached for verification)
	spirvCode []uint32

	gpuReady       bool
	initAttempted  bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

// Interface compliance checks.
var _ shade.GPUAccelerator = (*ResolveAccelerator)(nil)
var _ shade.DeviceProviderAware = (*ResolveAccelerator)(nil)

// Name returns the accelerator identifier.
func (a *ResolveAccelerator) Name() string { return "resolve-gpu" }

// Init registers the accelerator. GPU device initialization is deferred
// until the first resolve or until SetDeviceProvider is called, to avoid
// creating a standalone Vulkan device that may interfere with an external
// DX12/Metal device provided later.
func (a *ResolveAccelerator) Init() error {
	return nil
}

// Close releases all GPU resources held by the accelerator.
func (a *ResolveAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		// Don't destroy shared resources -- we don't own them.
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
	a.initAttempted = false
	a.externalDevice = false
}

// SetLogger sets the logger for the GPU accelerator and its internal helpers.
// Called by shade.SetLogger to propagate logging configuration.
func (a *ResolveAccelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// CanAccelerate reports whether this accelerator supports the given operation.
func (a *ResolveAccelerator) CanAccelerate(op shade.AcceleratedOp) bool {
	return op&(shade.AccelResolve|shade.AccelResolveMasked) != 0
}

// SetDeviceProvider switches the accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *ResolveAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("resolve-gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("resolve-gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("resolve-gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Destroy own resources if we created them.
	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	// Use provided resources.
	a.device = device
	a.queue = queue
	a.externalDevice = true
	a.initAttempted = true

	// Recreate pipelines with the shared device.
	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("resolve-gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Debug("resolve-gpu: switched to shared GPU device")
	return nil
}

// Resolve runs the compute kernel over the full source buffer and writes
// the resolved values into dst. Returns shade.ErrFallbackToCPU when no GPU
// is available.
func (a *ResolveAccelerator) Resolve(dst, src shade.AccelBuffer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.ensureGPULocked() {
		return shade.ErrFallbackToCPU
	}
	if err := checkBuffers(dst, src); err != nil {
		return err
	}
	if src.Width == 0 || src.Height == 0 {
		return nil
	}
	return a.dispatch(dst, src)
}

// ResolveMasked resolves with a coverage mask. The kernel runs over the
// full grid; the caller applies the mask when storing, so sparse coverage
// costs nothing extra here.
func (a *ResolveAccelerator) ResolveMasked(dst, src shade.AccelBuffer, _ *shade.SpanMask) error {
	return a.Resolve(dst, src)
}

// ensureGPULocked brings up the standalone device on first use.
// The caller must hold a.mu.
func (a *ResolveAccelerator) ensureGPULocked() bool {
	if a.gpuReady {
		return true
	}
	if a.initAttempted {
		return false
	}
	a.initAttempted = true
	if err := a.initGPU(); err != nil {
		slogger().Warn("resolve-gpu: GPU init failed, using CPU fallback", "error", err)
		return false
	}
	return true
}

// initGPU creates a standalone Vulkan device for compute-only use.
// This is the fallback path when no external device is provided via
// SetDeviceProvider.
func (a *ResolveAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("resolve-gpu: GPU initialized (standalone)", "adapter", selected.Info.Name)
	return nil
}

// createPipelines compiles the WGSL kernel to SPIR-V and builds the compute
// pipeline. The caller must hold a.mu and a.device must be valid.
func (a *ResolveAccelerator) createPipelines() error {
	if resolveShaderSource == "" {
		return fmt.Errorf("resolve shader source is empty")
	}

	// Compile WGSL to SPIR-V.
	spirvBytes, err := naga.Compile(resolveShaderSource)
	if err != nil {
		return fmt.Errorf("compile resolve shader: %w", err)
	}

	// Convert bytes to uint32 words for SPIR-V.
	a.spirvCode = make([]uint32, len(spirvBytes)/4)
	for i := range a.spirvCode {
		a.spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shaderModule, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "resolve_shader",
		Source: hal.ShaderSource{
			SPIRV: a.spirvCode,
		},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	a.shaderModule = shaderModule

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "resolve_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageCompute,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: resolveParamsSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageCompute,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeReadOnlyStorage,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageCompute,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "resolve_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "resolve_pipeline",
		Layout: a.pipeLayout,
		Compute: hal.ComputeState{
			Module:     a.shaderModule,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline

	return nil
}

func (a *ResolveAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shaderModule != nil {
		a.device.DestroyShaderModule(a.shaderModule)
		a.shaderModule = nil
	}
}

// dispatch uploads src, runs one compute pass over the full grid and reads
// the resolved pixels back into dst. The caller must hold a.mu.
func (a *ResolveAccelerator) dispatch(dst, src shade.AccelBuffer) error {
	w, h := uint32(src.Width), uint32(src.Height) //nolint:gosec // dimensions always fit uint32
	n := int(w) * int(h)
	bufSize := uint64(n) * 16

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "resolve_params", Size: resolveParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)

	fragsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "resolve_frags", Size: bufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create frags buffer: %w", err)
	}
	defer a.device.DestroyBuffer(fragsBuf)

	outBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "resolve_out", Size: bufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create output buffer: %w", err)
	}
	defer a.device.DestroyBuffer(outBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "resolve_staging", Size: bufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	params := make([]byte, resolveParamsSize)
	binary.LittleEndian.PutUint32(params[0:], w)
	binary.LittleEndian.PutUint32(params[4:], h)
	a.queue.WriteBuffer(paramsBuf, 0, params)
	a.queue.WriteBuffer(fragsBuf, 0, packFragsLE(src.Frags[:n]))

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "resolve_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: resolveParamsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: fragsBuf.NativeHandle(), Offset: 0, Size: bufSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Offset: 0, Size: bufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "resolve_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("resolve"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "resolve_pass"})
	computePass.SetPipeline(a.pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.Dispatch((w+7)/8, (h+7)/8, 1)
	computePass.End()

	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: bufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, resolveWaitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, bufSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackFragsLE(readback, dst.Frags[:n])
	return nil
}

// checkBuffers validates that dst and src describe the same grid and carry
// enough fragments for it.
func checkBuffers(dst, src shade.AccelBuffer) error {
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("resolve-gpu: buffer sizes differ: dst %dx%d, src %dx%d",
			dst.Width, dst.Height, src.Width, src.Height)
	}
	n := src.Width * src.Height
	if len(src.Frags) < n || len(dst.Frags) < n {
		return fmt.Errorf("resolve-gpu: short fragment slice: need %d, src %d, dst %d",
			n, len(src.Frags), len(dst.Frags))
	}
	return nil
}

// packFragsLE serializes fragments as little-endian f32 quads for GPU upload.
func packFragsLE(frags []f32.Vec4) []byte {
	out := make([]byte, len(frags)*16)
	for i, v := range frags {
		base := i * 16
		binary.LittleEndian.PutUint32(out[base:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(out[base+4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(out[base+8:], math.Float32bits(v[2]))
		binary.LittleEndian.PutUint32(out[base+12:], math.Float32bits(v[3]))
	}
	return out
}

// unpackFragsLE deserializes little-endian f32 quads from a GPU readback.
func unpackFragsLE(data []byte, dst []f32.Vec4) {
	for i := range dst {
		base := i * 16
		dst[i] = f32.Vec4{
			math.Float32frombits(binary.LittleEndian.Uint32(data[base:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[base+4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[base+8:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[base+12:])),
		}
	}
}
