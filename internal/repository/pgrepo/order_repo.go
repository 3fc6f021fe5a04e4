package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/orderdesk/internal/domain"
	"github.com/fsdevblog/orderdesk/internal/repository/repoargs"
	"github.com/fsdevblog/orderdesk/pkg/uow"
)

const orderColumns = "id, created_at, updated_at, user_id, item_name, quantity, price, shipping_address, payment_status"

// pgxRow минимальный интерфейс строки результата, общий для pgx.Row и pgx.Rows.
type pgxRow interface {
	Scan(dest ...any) error
}

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

// CreateOrder создает заказ. Владелец заказа задается полем UserID аргумента и после создания
// не изменяется. Если юзер с таким id отсутствует, вернется domain.ErrRecordNotFound
// (нарушение внешнего ключа).
func (o *OrderRepository) CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx,
		`INSERT INTO orders (user_id, item_name, quantity, price, shipping_address, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+orderColumns,
		args.UserID, args.ItemName, args.Quantity, args.Price.String(), args.ShippingAddress, string(args.PaymentStatus))

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order")
	}
	return order, nil
}

// FindByID ищет заказ по id. Возвращает domain.ErrRecordNotFound если записи нет.
func (o *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by id %d", id)
	}
	return order, nil
}

// FindByIDForUpdate то же что и FindByID, но с блокировкой строки (SELECT ... FOR UPDATE).
// Должен вызываться внутри транзакции, иначе блокировка не имеет смысла.
func (o *OrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by id %d for update", id)
	}
	return order, nil
}

// GetByUserID возвращает заказы юзера userID отсортированные по дате создания по убыванию.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by user id %d", userID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning orders by user id %d", userID)
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting orders by user id %d", userID)
	}
	return orders, nil
}

// UpdateOrder перезаписывает изменяемые поля заказа (shipping_address, payment_status).
// Остальные поля неизменяемы на уровне запроса. Возвращает domain.ErrRecordNotFound если записи нет.
func (o *OrderRepository) UpdateOrder(ctx context.Context, args repoargs.UpdateOrder) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx,
		`UPDATE orders SET shipping_address = $2, payment_status = $3, updated_at = now()
		 WHERE id = $1 RETURNING `+orderColumns,
		args.ID, args.ShippingAddress, string(args.PaymentStatus))

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "updating order %d", args.ID)
	}
	return order, nil
}

func scanOrder(row pgxRow) (*domain.Order, error) {
	var order domain.Order
	var price pgtype.Numeric
	var status string

	err := row.Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.UserID,
		&order.ItemName, &order.Quantity, &price, &order.ShippingAddress, &status,
	)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = domain.PaymentStatusType(status)
	order.Price = numericToDecimal(price)
	return &order, nil
}

// numericToDecimal конвертирует pgtype.Numeric в decimal.Decimal без потери точности.
func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
