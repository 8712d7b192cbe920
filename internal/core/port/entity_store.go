package port

import "context"

// EntityStore - хранилище одного типа сущностей.
// Ошибки хранилища возвращаются вызывающему без переклассификации.
type EntityStore[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	// GetByID возвращает nil, nil, если записи нет
	GetByID(ctx context.Context, id int) (*T, error)
	// Add сохраняет запись, назначает ей id и возвращает сохраненную версию
	Add(ctx context.Context, entity *T) (*T, error)
	// Update заменяет запись с id сущности. Если записи нет - *domain.NotFoundError.
	Update(ctx context.Context, entity *T) error
	// Delete возвращает true, если запись была удалена
	Delete(ctx context.Context, id int) (bool, error)
	Exists(ctx context.Context, id int) (bool, error)
}
