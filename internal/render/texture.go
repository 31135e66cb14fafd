package render

import (
	"context"
	"sync"
)

// TextureFuture результат асинхронной загрузки текстуры.
// Разрешается ровно один раз из любой горутины; опрашивается без блокировки.
type TextureFuture struct {
	URL  string
	Unit int

	once sync.Once
	done chan struct{}
	tex  any
	err  error
}

// NewTextureFuture создаёт неразрешённый результат
func NewTextureFuture(url string, unit int) *TextureFuture {
	return &TextureFuture{URL: url, Unit: unit, done: make(chan struct{})}
}

// Resolve записывает результат. Повторные вызовы игнорируются.
func (f *TextureFuture) Resolve(tex any, err error) {
	f.once.Do(func() {
		f.tex = tex
		f.err = err
		close(f.done)
	})
}

// Done закрывается после Resolve
func (f *TextureFuture) Done() <-chan struct{} {
	return f.done
}

// Ready сообщает, загружена ли текстура успешно. Не блокирует.
func (f *TextureFuture) Ready() bool {
	select {
	case <-f.done:
		return f.err == nil
	default:
		return false
	}
}

// Failed сообщает, завершилась ли загрузка ошибкой
func (f *TextureFuture) Failed() bool {
	select {
	case <-f.done:
		return f.err != nil
	default:
		return false
	}
}

// Result возвращает текстуру; done == false, пока загрузка не завершена
func (f *TextureFuture) Result() (tex any, done bool, err error) {
	select {
	case <-f.done:
		return f.tex, true, f.err
	default:
		return nil, false, nil
	}
}

// Wait ждёт загрузки или отмены контекста
func (f *TextureFuture) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.tex, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
