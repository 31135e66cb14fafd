package host

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/annel0/blocky-world/internal/logging"
	"github.com/annel0/blocky-world/internal/render"
	"github.com/pkg/errors"
)

// Opener открывает источник текстуры по адресу
type Opener func(url string) (io.ReadCloser, error)

// TextureLoader декодирует текстуры в фоновых горутинах.
// Результат имеет тип image.Image; в ebiten.Image его переводит бэкенд на
// горутине отрисовки.
type TextureLoader struct {
	open Opener
	log  *logging.Logger
}

// NewTextureLoader создаёт загрузчик; при nil читает файлы и http(s)
func NewTextureLoader(open Opener) *TextureLoader {
	if open == nil {
		open = defaultOpener(&http.Client{Timeout: 10 * time.Second})
	}
	return &TextureLoader{open: open, log: logging.GetHostLogger()}
}

// Load запускает загрузку и сразу возвращает незавершённый результат
func (l *TextureLoader) Load(url string, unit int) *render.TextureFuture {
	f := render.NewTextureFuture(url, unit)
	go func() {
		img, err := l.decode(url)
		if err != nil {
			l.log.Warn("⚠️ Текстура %s (блок %d) не загружена: %v", url, unit, err)
		} else {
			l.log.Debug("Текстура %s загружена: %v", url, img.Bounds().Size())
		}
		f.Resolve(img, err)
	}()
	return f
}

func (l *TextureLoader) decode(url string) (image.Image, error) {
	rc, err := l.open(url)
	if err != nil {
		return nil, errors.Wrapf(render.ErrResourceLookup, "open %s: %v", url, err)
	}
	defer rc.Close()

	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", url)
	}
	l.log.Trace("Формат %s: %s", url, format)
	return img, nil
}

func defaultOpener(client *http.Client) Opener {
	return func(url string) (io.ReadCloser, error) {
		if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
			resp, err := client.Get(url)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return nil, errors.Errorf("status %s", resp.Status)
			}
			return resp.Body, nil
		}
		return os.Open(url)
	}
}
