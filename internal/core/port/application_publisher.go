package port

import (
	"context"

	"estate-agency/internal/core/domain"
)

// ApplicationEventPublisherPort отправляет событие о новой заявке во внешнюю очередь
type ApplicationEventPublisherPort interface {
	PublishApplicationCreate(ctx context.Context, event domain.ApplicationCreateEditDto) error
}
