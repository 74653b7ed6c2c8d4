package domain

import "context"

// Transactor выполняет функцию в границах одной атомарной транзакции хранилища.
// Контекст, передаваемый в fn, несёт открытую транзакцию: репозитории,
// вызванные внутри, присоединяются к ней. Возврат ошибки из fn откатывает
// все сделанные записи; частичное состояние другим читателям не видно.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
