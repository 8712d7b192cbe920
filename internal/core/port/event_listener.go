package port

import "context"

// EventListenerPort - входящий адаптер, который слушает очередь событий
// и передает их в сценарии ядра
type EventListenerPort interface {
	// Start блокируется, пока ctx не отменен или слушатель не упал
	Start(ctx context.Context) error

	// Close дожидается обработки текущего сообщения и освобождает ресурсы
	Close() error
}
