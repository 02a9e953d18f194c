package document

import (
	"context"

	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
)

// Store хранит документ магазина целиком.
type Store interface {
	// Load возвращает текущий документ, создавая документ по умолчанию, если его нет.
	Load(ctx context.Context) (*converter.DocumentModel, error)
	// Save полностью перезаписывает документ.
	Save(ctx context.Context, doc *converter.DocumentModel) error
	// Update выполняет load -> fn -> save под единой блокировкой записи.
	// Если fn возвращает ошибку, документ не сохраняется.
	Update(ctx context.Context, fn func(doc *converter.DocumentModel) error) error
}
