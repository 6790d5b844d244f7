//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/superhooman/pipemagic"
)

// rowStrideAlign is the byte alignment wgpu requires for texture staging
// buffer row pitch (SPEC_FULL.md §4.3: "row stride padded up to 256 bytes").
const rowStrideAlign = 256

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) / align * align
}

// BitmapToTexture uploads an RGBA8 bitmap to a GPU texture of the same
// dimensions via a queue texture write of the bitmap's pixel bytes.
func BitmapToTexture(d *Device, bm *pipemagic.Bitmap) (hal.Texture, error) {
	hdev := d.HalDevice()
	if hdev == nil {
		return nil, fmt.Errorf("gpu: device unavailable")
	}
	w, h := uint32(bm.Width()), uint32(bm.Height())

	tex, err := hdev.CreateTexture(&hal.TextureDescriptor{
		Label:         "pipemagic_input",
		Size:          gputypes.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageStorageBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	queue := d.HalQueue()
	queue.WriteTexture(
		&gputypes.ImageCopyTexture{Texture: tex.NativeHandle()},
		bm.Pix(),
		&gputypes.TextureDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		gputypes.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)

	return tex, nil
}

// TextureToBitmap reads a texture back into a Bitmap. It allocates a
// staging buffer with row stride padded to rowStrideAlign, performs a
// copy, maps for read, compacts rows, and reassembles pixels, releasing
// all staging resources regardless of outcome (success or error).
func TextureToBitmap(d *Device, tex hal.Texture, w, h int) (*pipemagic.Bitmap, error) {
	hdev := d.HalDevice()
	if hdev == nil {
		return nil, fmt.Errorf("gpu: device unavailable")
	}
	queue := d.HalQueue()

	unpaddedRow := uint32(w * 4)
	paddedRow := alignUp(unpaddedRow, rowStrideAlign)
	bufSize := uint64(paddedRow) * uint64(h)

	staging, err := hdev.CreateBuffer(&hal.BufferDescriptor{
		Label: "pipemagic_readback",
		Size:  bufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer hdev.DestroyBuffer(staging)

	encoder, err := hdev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pipemagic_readback_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pipemagic_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	encoder.CopyTextureToBuffer(
		&gputypes.ImageCopyTexture{Texture: tex.NativeHandle()},
		&gputypes.ImageCopyBuffer{
			Buffer: staging.NativeHandle(),
			Layout: gputypes.TextureDataLayout{Offset: 0, BytesPerRow: paddedRow, RowsPerImage: uint32(h)},
		},
		gputypes.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer hdev.FreeCommandBuffer(cmdBuf)

	fence, err := hdev.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer hdev.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	ok, err := hdev.Wait(fence, 1, 5*time.Second)
	if err != nil || !ok {
		return nil, fmt.Errorf("wait for gpu: ok=%v err=%w", ok, err)
	}

	padded := make([]byte, bufSize)
	if err := queue.ReadBuffer(staging, 0, padded); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	bm := pipemagic.NewBitmap(w, h)
	dst := bm.Pix()
	for row := 0; row < h; row++ {
		src := padded[uint32(row)*paddedRow : uint32(row)*paddedRow+unpaddedRow]
		copy(dst[row*w*4:(row+1)*w*4], src)
	}
	return bm, nil
}

// PackSeedTexel and UnpackSeedTexel mirror the teacher's
// internal/gpu/sdf_gpu.go pixel packing helpers, here encoding a JFA seed
// coordinate pair as two little-endian int32s per texel.
func PackSeedTexel(x, y int32) [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint32(out[0:4], uint32(x))
	binary.LittleEndian.PutUint32(out[4:8], uint32(y))
	return out
}

// UnpackSeedTexel decodes a seed coordinate pair packed by PackSeedTexel.
func UnpackSeedTexel(b []byte) (int32, int32) {
	return int32(binary.LittleEndian.Uint32(b[0:4])), int32(binary.LittleEndian.Uint32(b[4:8]))
}
