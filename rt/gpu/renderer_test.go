package gpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePass struct {
	calls  []string
	endErr error
}

func (f *fakePass) SetPipeline(p *wgpu.RenderPipeline) {
	f.calls = append(f.calls, "pipeline")
}

func (f *fakePass) SetBindGroup(group uint32, bg *wgpu.BindGroup, offsets []uint32) {
	f.calls = append(f.calls, fmt.Sprintf("bindgroup %d offsets=%d", group, len(offsets)))
}

func (f *fakePass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	f.calls = append(f.calls, fmt.Sprintf("draw %d %d %d %d", vertexCount, instanceCount, firstVertex, firstInstance))
}

func (f *fakePass) End() error {
	f.calls = append(f.calls, "end")
	return f.endErr
}

func TestRecordDraw(t *testing.T) {
	pass := &fakePass{}
	require.NoError(t, recordDraw(pass, nil, nil))

	assert.Equal(t, []string{
		"pipeline",
		"bindgroup 0 offsets=0",
		"draw 3 1 0 0",
		"end",
	}, pass.calls)
}

func TestRecordDrawEndError(t *testing.T) {
	boom := errors.New("validation")
	err := recordDraw(&fakePass{endErr: boom}, nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestColorAttachment(t *testing.T) {
	target := new(wgpu.TextureView)
	black := wgpu.Color{R: 0, G: 0, B: 0, A: 1}

	att := colorAttachment(target, nil, black)
	assert.Same(t, target, att.View)
	assert.Nil(t, att.ResolveTarget)
	assert.Equal(t, wgpu.LoadOpClear, att.LoadOp)
	assert.Equal(t, wgpu.StoreOpStore, att.StoreOp)
	assert.Equal(t, black, att.ClearValue)

	msaa := new(wgpu.TextureView)
	att = colorAttachment(target, msaa, black)
	assert.Same(t, msaa, att.View)
	assert.Same(t, target, att.ResolveTarget)
}

func TestRenderChecksBeforeEncoding(t *testing.T) {
	p := &Pipeline{Options: validOptions()}

	// Device is nil; both checks must fail before it is used.
	r := NewFrameRenderer(nil, nil, wgpu.TextureFormatBGRA8Unorm, 1, wgpu.Color{A: 1})
	assert.ErrorIs(t, r.Render(p, nil, nil), ErrSampleCount)

	r = NewFrameRenderer(nil, nil, wgpu.TextureFormatBGRA8Unorm, 4, wgpu.Color{A: 1})
	assert.ErrorIs(t, r.Render(p, nil, nil), ErrNoTarget)
}

func TestResizeWithoutMSAA(t *testing.T) {
	r := NewFrameRenderer(nil, nil, wgpu.TextureFormatBGRA8Unorm, 1, wgpu.Color{A: 1})
	require.NoError(t, r.Resize(800, 600))
	assert.Equal(t, uint32(800), r.width)
	assert.Nil(t, r.msaaTexture)

	require.NoError(t, r.Resize(0, 600))
	assert.Equal(t, uint32(800), r.width, "zero sizes are ignored")
}
