package render

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/annel0/blocky-world/internal/camera"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var textureURLs = []string{"sky.png", "snow.png", "stone.png"}

func newTestRenderer(t *testing.T) (*Renderer, *Recorder) {
	t.Helper()
	rec := NewRecorder()
	r := NewRenderer(rec)
	require.NoError(t, r.Init(textureURLs))
	return r, rec
}

func TestInit_UploadsSharedMeshes(t *testing.T) {
	_, rec := newTestRenderer(t)

	require.Len(t, rec.Meshes, 2, "куб с центральной опорой и сфера")
	assert.Equal(t, 36, rec.Meshes[0].VertexCount())
	assert.NotEmpty(t, rec.Meshes[1].Indices)
	assert.Len(t, rec.Futures, len(textureURLs))
	assert.Equal(t, "snow.png", rec.Futures[1].URL)
}

func TestInit_FatalErrors(t *testing.T) {
	rec := NewRecorder()
	rec.InitErr = errors.Wrap(ErrShaderCompile, "vertex shader")
	err := NewRenderer(rec).Init(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShaderCompile))
	assert.True(t, IsSetupError(err))

	rec = NewRecorder()
	rec.UploadErr = errors.Wrap(ErrBufferCreate, "vbo")
	err = NewRenderer(rec).Init(nil)
	require.Error(t, err)
	assert.Equal(t, ErrBufferCreate, errors.Cause(err))

	assert.False(t, IsSetupError(fmt.Errorf("other")))
}

func TestSubmit_UsesFinalMatrix(t *testing.T) {
	r, rec := newTestRenderer(t)
	g := scene.NewGraph()
	h := g.New(scene.Nil, scene.ShapeCube, scene.Material{Texture: scene.TextureColor, Color: scene.ColorPink})
	g.Translate(h, 1, 2, 3)
	g.Scale(h, 2, 2, 2)

	cam := camera.New(camera.DefaultOptions())
	r.BeginFrame(cam)
	r.Submit(g, h)

	require.Len(t, rec.Draws, 1)
	want, _ := g.Final(h)
	assert.Equal(t, want, rec.Draws[0].Model)
	assert.Equal(t, MeshHandle(0), rec.Draws[0].Mesh)
	assert.Equal(t, cam.View(), rec.View)
	assert.Equal(t, 1, r.Stats().DrawCalls)
}

func TestSubmit_PlaceholderUntilResolved(t *testing.T) {
	r, rec := newTestRenderer(t)
	g := scene.NewGraph()
	h := g.New(scene.Nil, scene.ShapeCube, scene.Material{Texture: scene.Texture1, Color: scene.ColorWhite})
	cam := camera.New(camera.DefaultOptions())

	r.BeginFrame(cam)
	r.Submit(g, h)
	assert.Equal(t, scene.TextureColor, rec.Draws[0].Material.Texture)
	assert.Equal(t, 1, r.Stats().Placeholders)

	rec.Futures[1].Resolve("snow", nil)

	r.BeginFrame(cam)
	r.Submit(g, h)
	assert.Equal(t, scene.Texture1, rec.Draws[0].Material.Texture)
	assert.Equal(t, 0, r.Stats().Placeholders)
}

func TestSubmit_FailedTextureKeepsPlaceholder(t *testing.T) {
	r, rec := newTestRenderer(t)
	g := scene.NewGraph()
	h := g.New(scene.Nil, scene.ShapeCube, scene.Material{Texture: scene.Texture2})
	cam := camera.New(camera.DefaultOptions())

	rec.Futures[2].Resolve(nil, fmt.Errorf("404"))
	// Повторное разрешение игнорируется
	rec.Futures[2].Resolve("stone", nil)

	for i := 0; i < 3; i++ {
		r.BeginFrame(cam)
		r.Submit(g, h)
		assert.Equal(t, scene.TextureColor, rec.Draws[0].Material.Texture)
	}
	assert.True(t, rec.Futures[2].Failed())
}

func TestSubmit_MeshSelection(t *testing.T) {
	r, rec := newTestRenderer(t)
	g := scene.NewGraph()
	sphere := g.New(scene.Nil, scene.ShapeSphere, scene.Material{})
	ear := g.New(scene.Nil, scene.ShapeCube, scene.Material{}, scene.WithOrigin(mgl32.Vec3{0.5, 0, 0.5}))
	ear2 := g.New(scene.Nil, scene.ShapeCube, scene.Material{}, scene.WithOrigin(mgl32.Vec3{0.5, 0, 0.5}))

	r.BeginFrame(camera.New(camera.DefaultOptions()))
	r.Submit(g, sphere)
	r.Submit(g, ear)
	r.Submit(g, ear2)
	r.Submit(g, 999)

	require.Len(t, rec.Draws, 3)
	assert.Equal(t, MeshHandle(1), rec.Draws[0].Mesh)
	assert.Equal(t, rec.Draws[1].Mesh, rec.Draws[2].Mesh, "куб для опоры кэшируется")
	assert.Len(t, rec.Meshes, 3)
	assert.Equal(t, 1, r.Stats().Skipped)
}

func TestTextureFuture_Concurrent(t *testing.T) {
	f := NewTextureFuture("x.png", 0)
	assert.False(t, f.Ready())
	_, done, _ := f.Result()
	assert.False(t, done)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.Resolve(i, nil)
		}(i)
	}
	wg.Wait()

	assert.True(t, f.Ready())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	tex, err := f.Wait(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tex)
}

func TestTextureFuture_WaitCancelled(t *testing.T) {
	f := NewTextureFuture("slow.png", 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
