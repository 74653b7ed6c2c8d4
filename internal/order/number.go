package order

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// TimeNumberGenerator выдаёт номера вида 20260831-9F1C03AB: дата выпуска
// плюс случайный суффикс. Номер человекочитаем и уникален на каждый вызов.
type TimeNumberGenerator struct{}

// NewTimeNumberGenerator создаёт генератор номеров по умолчанию.
func NewTimeNumberGenerator() TimeNumberGenerator {
	return TimeNumberGenerator{}
}

// GenerateNumber возвращает новый номер заказа.
func (TimeNumberGenerator) GenerateNumber(_ *domain.Order) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return time.Now().UTC().Format("20060102") + "-" + suffix
}

var _ domain.OrderNumberGenerator = TimeNumberGenerator{}
