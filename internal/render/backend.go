// Package render описывает контракт с графическим бэкендом и собирает
// кадр из узлов сцены.
package render

import (
	"github.com/annel0/blocky-world/internal/mesh"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshHandle идентификатор загруженной в бэкенд геометрии
type MeshHandle int

// Backend графический бэкенд. Init и UploadMesh вызываются на этапе
// настройки, остальное каждый кадр.
type Backend interface {
	// Init поднимает контекст и шейдеры
	Init() error
	UploadMesh(m *mesh.Mesh) (MeshHandle, error)
	SetViewProjection(view, projection mgl32.Mat4)
	SubmitDraw(h MeshHandle, model mgl32.Mat4, mat scene.Material)
	// LoadTexture запускает асинхронную загрузку в текстурный блок unit
	LoadTexture(url string, unit int) *TextureFuture
}

// ViewSource источник матриц вида и проекции
type ViewSource interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
}
