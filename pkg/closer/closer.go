// Package closer собирает функции освобождения ресурсов и закрывает их
// в порядке, обратном регистрации, при остановке сервиса.
package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

// Closer обеспечивает потокобезопасное закрытие ресурсов.
type Closer struct {
	funcs         []Func
	mu            sync.Mutex
	once          sync.Once
	forcedTimeout time.Duration
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout — время на принудительное закрытие, когда контекст в Close истёк.
func NewCloser(forcedTimeout time.Duration) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует функцию закрытия. Закрытие идет в порядке LIFO,
// поэтому ресурсы добавляются в порядке их инициализации.
func (c *Closer) Add(f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
}

// Close последовательно закрывает все зарегистрированные ресурсы.
// Если контекст отменяется до завершения, оставшиеся ресурсы
// закрываются принудительно с таймаутом forcedTimeout.
// Повторные вызовы не имеют эффекта.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()

		lastIdx, msgs := c.gracefulClose(ctx, funcs)
		if lastIdx < 0 {
			if len(msgs) > 0 {
				err = fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(msgs, "\n"))
			}

			return
		}

		remaining := funcs[:lastIdx+1]
		msgs = append(msgs, c.forcedClose(remaining)...)

		err = fmt.Errorf(
			"shutdown interrupted after %d/%d funcs:\n%s",
			len(funcs)-1-lastIdx,
			len(funcs),
			strings.Join(msgs, "\n"),
		)
	})

	return err
}

// gracefulClose закрывает функции в порядке LIFO, пока не истечет контекст.
// Возвращает индекс первой незакрытой функции (-1, если закрылись все)
// и накопленные сообщения об ошибках.
func (c *Closer) gracefulClose(ctx context.Context, funcs []Func) (int, []string) {
	var msgs []string
	for i := len(funcs) - 1; i >= 0; i-- {
		var (
			f    = funcs[i]
			done = make(chan error, 1)
		)

		go func() {
			done <- f(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				msgs = append(msgs, fmt.Sprintf("[!] %v", err))
			}
		case <-ctx.Done():
			return i, msgs
		}
	}

	return -1, msgs
}

// forcedClose параллельно запускает оставшиеся функции закрытия
// с собственным таймаутом.
func (c *Closer) forcedClose(funcs []Func) []string {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		msgs []string
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				mu.Lock()
				msgs = append(msgs, fmt.Sprintf("[FORCED] %v", err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return msgs
}
