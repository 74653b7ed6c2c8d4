// Package shipping содержит способы доставки, их реестр и калькуляторы
// стоимости. Калькулятор возвращает Adjuster — стратегию построения
// shipping-корректировки для корзины.
package shipping

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// Method — способ доставки с сохранённой конфигурацией.
type Method struct {
	id            string
	name          string
	calculator    domain.ShippingCalculator
	configuration map[string]any
}

// NewMethod создаёт способ доставки.
func NewMethod(id, name string, calculator domain.ShippingCalculator, configuration map[string]any) *Method {
	if configuration == nil {
		configuration = map[string]any{}
	}
	return &Method{id: id, name: name, calculator: calculator, configuration: configuration}
}

func (m *Method) ID() string   { return m.id }
func (m *Method) Name() string { return m.name }

// Calculator возвращает калькулятор стоимости метода.
func (m *Method) Calculator() domain.ShippingCalculator {
	return m.calculator
}

// EstimateMinor оценивает стоимость доставки для checkout по сохранённой конфигурации.
func (m *Method) EstimateMinor(checkout *domain.Checkout) int64 {
	return m.calculator.EstimateMinor(m.configuration, checkout)
}

// Configuration возвращает сохранённые настройки метода.
func (m *Method) Configuration() map[string]any {
	return m.configuration
}

// Registry — потокобезопасный in-memory реестр способов доставки.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]*Method
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]*Method)}
}

// Register добавляет метод в реестр, заменяя прежний с тем же ID.
func (r *Registry) Register(method *Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[method.ID()] = method
}

// ByID возвращает метод по идентификатору или ErrShippingMethodNotFound.
func (r *Registry) ByID(_ context.Context, id string) (domain.ShippingMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	method, ok := r.methods[id]
	if !ok {
		return nil, domain.ErrShippingMethodNotFound
	}
	return method, nil
}

var (
	_ domain.ShippingMethod         = (*Method)(nil)
	_ domain.ShippingMethodRegistry = (*Registry)(nil)
)
