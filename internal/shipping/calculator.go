package shipping

import (
	"time"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// Ключи конфигурации способа доставки.
const (
	// ConfigAmountMinor — фиксированная стоимость доставки в минимальных единицах.
	ConfigAmountMinor = "amount_minor"
	// ConfigFreeOverMinor — порог суммы корзины, начиная с которого доставка бесплатна.
	ConfigFreeOverMinor = "free_over_minor"
	// ConfigLabel — подпись создаваемой корректировки.
	ConfigLabel = "label"
)

// FlatFeeCalculator — калькулятор с фиксированной ставкой и опциональным
// порогом бесплатной доставки.
type FlatFeeCalculator struct{}

// NewFlatFeeCalculator создаёт калькулятор фиксированной ставки.
func NewFlatFeeCalculator() FlatFeeCalculator {
	return FlatFeeCalculator{}
}

// EstimateMinor возвращает стоимость доставки: 0 при достижении порога
// бесплатной доставки, иначе фиксированную ставку из конфигурации.
func (FlatFeeCalculator) EstimateMinor(configuration map[string]any, checkout *domain.Checkout) int64 {
	amount, ok := configInt64(configuration, ConfigAmountMinor)
	if !ok {
		return 0
	}

	freeOver, ok := configInt64(configuration, ConfigFreeOverMinor)
	if ok && freeOver > 0 && checkout != nil && checkout.Cart != nil {
		if checkout.Cart.ItemsTotalMinor() >= freeOver {
			return 0
		}
	}

	return amount
}

// Adjuster возвращает стратегию построения shipping-корректировки.
// Без сконфигурированной ставки корректировка не нужна — возвращается nil.
func (FlatFeeCalculator) Adjuster(configuration map[string]any, estimateMinor int64) domain.Adjuster {
	if _, ok := configInt64(configuration, ConfigAmountMinor); !ok {
		return nil
	}

	label, _ := configuration[ConfigLabel].(string)
	if label == "" {
		label = "Shipping"
	}
	return FeeAdjuster{Label: label, AmountMinor: estimateMinor}
}

// FeeAdjuster строит shipping-корректировку из уже посчитанной оценки.
// Оценка считается один раз; эта же сумма попадает и в корректировку,
// и в закэшированное поле checkout.
type FeeAdjuster struct {
	Label       string
	AmountMinor int64
}

// CreateAdjustment создаёт (но не сохраняет) shipping-корректировку для owner.
func (a FeeAdjuster) CreateAdjustment(_ domain.Adjustable) domain.Adjustment {
	return domain.Adjustment{
		Type:        domain.AdjustmentTypeShipping,
		Label:       a.Label,
		AmountMinor: a.AmountMinor,
		CreatedAt:   time.Now().UTC(),
	}
}

// configInt64 достаёт числовое значение конфигурации, пришло ли оно
// как int, int64 или как float64 после JSON-декодирования.
func configInt64(configuration map[string]any, key string) (int64, bool) {
	switch v := configuration[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

var (
	_ domain.ShippingCalculator = FlatFeeCalculator{}
	_ domain.Adjuster           = FeeAdjuster{}
)
