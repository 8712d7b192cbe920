package usecases_port

import "context"

// GenerateApplicationsPort публикует пачку случайных заявок
type GenerateApplicationsPort interface {
	GenerateBatch(ctx context.Context) (int, error)
}
