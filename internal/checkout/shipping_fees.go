package checkout

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/commerce/internal/adjustments"
	"github.com/vladislavdragonenkov/commerce/internal/domain"
	"github.com/vladislavdragonenkov/commerce/internal/events"
	"github.com/vladislavdragonenkov/commerce/internal/metrics"
)

// ShippingFees пересчитывает корректировку стоимости доставки корзины при
// изменении корзины или параметров checkout. Старые SHIPPING-корректировки
// снимаются, и при выбранном методе доставки записывается ровно одна новая.
type ShippingFees struct {
	adjustments domain.AdjustmentRepository
	methods     domain.ShippingMethodRegistry
	checkouts   *Store
	tx          domain.Transactor
	metrics     *metrics.CheckoutMetrics
	logger      *log.Entry
}

// ShippingFeesOption настраивает слушателя ShippingFees.
type ShippingFeesOption func(*ShippingFees)

// WithShippingMetrics подключает метрики пересчёта доставки.
func WithShippingMetrics(m *metrics.CheckoutMetrics) ShippingFeesOption {
	return func(s *ShippingFees) {
		s.metrics = m
	}
}

// NewShippingFees создаёт слушателя пересчёта доставки.
func NewShippingFees(
	adjustmentRepo domain.AdjustmentRepository,
	methods domain.ShippingMethodRegistry,
	checkouts *Store,
	tx domain.Transactor,
	logger *log.Entry,
	opts ...ShippingFeesOption,
) *ShippingFees {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	s := &ShippingFees{
		adjustments: adjustmentRepo,
		methods:     methods,
		checkouts:   checkouts,
		tx:          tx,
		logger:      logger.WithField("component", "shipping_fees"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var _ events.Handler = (*ShippingFees)(nil)

// Register подписывает слушателя на события корзины и checkout.
func (s *ShippingFees) Register(bus *events.Bus) {
	bus.Subscribe(events.NameCartUpdated, s)
	bus.Subscribe(events.NameCheckoutUpdated, s)
}

// Handle обрабатывает события cart.updated и checkout.updated. Остальные
// события игнорируются.
func (s *ShippingFees) Handle(ctx context.Context, event events.Event) error {
	var checkout *domain.Checkout

	switch ev := event.(type) {
	case events.CheckoutUpdated:
		checkout = ev.Checkout
	case events.CartUpdated:
		if ev.Cart == nil {
			return nil
		}
		checkout = s.checkouts.ForCart(ev.Cart)
	default:
		return nil
	}

	if checkout == nil || checkout.Cart == nil {
		return nil
	}

	return s.recalculate(ctx, checkout)
}

// recalculate снимает старые SHIPPING-корректировки и записывает новую
// в одной транзакции. Сумма корректировки вычисляется один раз и кэшируется
// в checkout.
func (s *ShippingFees) recalculate(ctx context.Context, checkout *domain.Checkout) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		shippingView := adjustments.New(checkout.Cart, s.adjustments).ByType(domain.AdjustmentTypeShipping)

		if err := shippingView.Clear(ctx); err != nil {
			return fmt.Errorf("clear shipping adjustments: %w", err)
		}
		// После очистки кэш суммы валиден только если корректировка
		// будет создана заново ниже.
		checkout.SetShippingAmount(0)

		if checkout.ShippingMethodID == "" {
			s.recordSkipped()
			return nil
		}

		method, err := s.methods.ByID(ctx, checkout.ShippingMethodID)
		if err != nil {
			if domain.IsNotFound(err) {
				s.logger.WithField("shipping_method_id", checkout.ShippingMethodID).
					Warn("shipping method is not registered, fee removed")
				s.recordSkipped()
				return nil
			}
			return fmt.Errorf("resolve shipping method %q: %w", checkout.ShippingMethodID, err)
		}

		estimate := method.EstimateMinor(checkout)

		adjuster := method.Calculator().Adjuster(method.Configuration(), estimate)
		if adjuster == nil {
			s.recordSkipped()
			return nil
		}

		adjustment, err := shippingView.Create(ctx, adjuster)
		if err != nil {
			return fmt.Errorf("create shipping adjustment: %w", err)
		}

		checkout.SetShippingAmount(adjustment.AmountMinor)
		return nil
	})
	if err != nil {
		return fmt.Errorf("recalculate shipping fees for cart %q: %w", checkout.Cart.ID, err)
	}

	if s.metrics != nil {
		s.metrics.RecordShippingRecalc()
	}

	s.logger.WithFields(log.Fields{
		"cart_id":            checkout.Cart.ID,
		"shipping_method_id": checkout.ShippingMethodID,
		"amount_minor":       checkout.ShippingAmountMinor,
	}).Debug("shipping fees recalculated")

	return nil
}

func (s *ShippingFees) recordSkipped() {
	if s.metrics != nil {
		s.metrics.RecordShippingSkipped()
	}
}
