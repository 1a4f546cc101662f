package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"

	"adaayam_back_end/internal/apperr"
	"adaayam_back_end/internal/database"
	"adaayam_back_end/internal/models"
)

const (
	cqlClaimReference = `INSERT INTO orders_by_reference (payment_reference, order_id) VALUES (?, ?) IF NOT EXISTS`
	cqlInsertOrder    = `INSERT INTO orders (order_id, user_id, payment_reference, snap_token, total_amount, shipping_address, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	cqlInsertOrderItem = `INSERT INTO order_items (order_id, line_no, product_id, product_name, quantity_kg, price_at_purchase, subtotal)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	cqlInsertOrderByUser = `INSERT INTO orders_by_user (user_id, created_at, order_id) VALUES (?, ?, ?)`
	cqlGetOrder          = `SELECT user_id, payment_reference, snap_token, total_amount, shipping_address, status, created_at, updated_at
		FROM orders WHERE order_id = ?`
	cqlGetOrderItems     = `SELECT line_no, product_id, product_name, quantity_kg, price_at_purchase, subtotal FROM order_items WHERE order_id = ?`
	cqlGetOrderIDByRef   = `SELECT order_id FROM orders_by_reference WHERE payment_reference = ?`
	cqlListOrdersByUser  = `SELECT order_id FROM orders_by_user WHERE user_id = ?`
	cqlListAllOrders     = `SELECT order_id FROM orders`
	cqlSetOrderSnapToken = `UPDATE orders SET snap_token = ?, updated_at = ? WHERE order_id = ?`
	cqlSetOrderStatus    = `UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`
)

type OrderRepository interface {
	// Insert persiste la commande avec ses lignes. Retourne Conflict si la
	// référence de paiement est déjà réclamée par une autre commande.
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByReference(ctx context.Context, reference string) (*models.Order, error)
	SetSnapToken(ctx context.Context, orderID, token string) error
	UpdateStatus(ctx context.Context, orderID, status string) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
}

type scyllaOrders struct {
	conns *database.Connections
}

func NewOrderRepository(conns *database.Connections) OrderRepository {
	return &scyllaOrders{conns: conns}
}

func (r *scyllaOrders) Insert(ctx context.Context, o *models.Order) error {
	session, err := r.conns.OrdersSession()
	if err != nil {
		return err
	}

	orderUUID, err := gocql.ParseUUID(o.ID)
	if err != nil {
		return apperr.InvalidArgument("identifiant de commande invalide")
	}
	userUUID, err := gocql.ParseUUID(o.UserID)
	if err != nil {
		return apperr.InvalidArgument("identifiant utilisateur invalide")
	}

	// Réclame d'abord la référence de paiement (LWT). La stratégie de
	// génération rend la collision improbable, mais on la défend quand même.
	applied, err := session.Query(cqlClaimReference, o.PaymentReference, orderUUID).
		WithContext(ctx).ScanCAS(nil, nil)
	if err != nil {
		return err
	}
	if !applied {
		return apperr.Conflict("référence de paiement déjà utilisée: %s", o.PaymentReference)
	}

	// Puis écrit la commande, ses lignes et l'index par utilisateur en un
	// batch logged : tout ou rien, jamais de lignes orphelines.
	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(cqlInsertOrder,
		orderUUID, userUUID, o.PaymentReference, o.SnapToken,
		database.ToCQLDecimal(o.TotalAmount), o.ShippingAddress, o.Status,
		o.CreatedAt, o.UpdatedAt)
	for i, item := range o.Items {
		productUUID, err := gocql.ParseUUID(item.ProductID)
		if err != nil {
			return apperr.InvalidArgument("identifiant produit invalide: %s", item.ProductID)
		}
		batch.Query(cqlInsertOrderItem,
			orderUUID, i, productUUID, item.ProductName,
			database.ToCQLDecimal(item.QuantityKg),
			database.ToCQLDecimal(item.PriceAtPurchase),
			database.ToCQLDecimal(item.Subtotal))
	}
	batch.Query(cqlInsertOrderByUser, userUUID, o.CreatedAt, orderUUID)

	return session.ExecuteBatch(batch)
}

func (r *scyllaOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	session, err := r.conns.OrdersSession()
	if err != nil {
		return nil, err
	}

	orderUUID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, apperr.NotFound("commande introuvable: %s", id)
	}

	o := models.Order{ID: id}
	var userUUID gocql.UUID
	var total inf.Dec
	err = session.Query(cqlGetOrder, orderUUID).WithContext(ctx).
		Scan(&userUUID, &o.PaymentReference, &o.SnapToken, &total,
			&o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, apperr.NotFound("commande introuvable: %s", id)
		}
		return nil, err
	}
	o.UserID = userUUID.String()
	o.TotalAmount = database.FromCQLDecimal(&total)

	items, err := r.loadItems(ctx, session, orderUUID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *scyllaOrders) loadItems(ctx context.Context, session *gocql.Session, orderUUID gocql.UUID) ([]models.OrderItem, error) {
	iter := session.Query(cqlGetOrderItems, orderUUID).WithContext(ctx).Iter()

	var items []models.OrderItem
	var (
		lineNo               int
		productUUID          gocql.UUID
		name                 string
		qty, price, subtotal inf.Dec
	)
	for iter.Scan(&lineNo, &productUUID, &name, &qty, &price, &subtotal) {
		items = append(items, models.OrderItem{
			ProductID:       productUUID.String(),
			ProductName:     name,
			QuantityKg:      database.FromCQLDecimal(&qty),
			PriceAtPurchase: database.FromCQLDecimal(&price),
			Subtotal:        database.FromCQLDecimal(&subtotal),
		})
		qty, price, subtotal = inf.Dec{}, inf.Dec{}, inf.Dec{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *scyllaOrders) GetByReference(ctx context.Context, reference string) (*models.Order, error) {
	session, err := r.conns.OrdersSession()
	if err != nil {
		return nil, err
	}

	var orderUUID gocql.UUID
	if err := session.Query(cqlGetOrderIDByRef, reference).WithContext(ctx).Scan(&orderUUID); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, apperr.NotFound("aucune commande pour la référence %s", reference)
		}
		return nil, err
	}

	return r.GetByID(ctx, orderUUID.String())
}

func (r *scyllaOrders) SetSnapToken(ctx context.Context, orderID, token string) error {
	return r.updateOrder(ctx, orderID, cqlSetOrderSnapToken, token)
}

func (r *scyllaOrders) UpdateStatus(ctx context.Context, orderID, status string) error {
	return r.updateOrder(ctx, orderID, cqlSetOrderStatus, status)
}

func (r *scyllaOrders) updateOrder(ctx context.Context, orderID, cql, value string) error {
	session, err := r.conns.OrdersSession()
	if err != nil {
		return err
	}

	orderUUID, err := gocql.ParseUUID(orderID)
	if err != nil {
		return apperr.NotFound("commande introuvable: %s", orderID)
	}

	return session.Query(cql, value, time.Now(), orderUUID).WithContext(ctx).Exec()
}

func (r *scyllaOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := r.conns.OrdersSession()
	if err != nil {
		return nil, err
	}

	userUUID, err := gocql.ParseUUID(userID)
	if err != nil {
		return nil, apperr.InvalidArgument("identifiant utilisateur invalide")
	}

	iter := session.Query(cqlListOrdersByUser, userUUID).WithContext(ctx).Iter()
	return r.collectOrders(ctx, iter)
}

func (r *scyllaOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	session, err := r.conns.OrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(cqlListAllOrders).WithContext(ctx).Iter()
	return r.collectOrders(ctx, iter)
}

func (r *scyllaOrders) collectOrders(ctx context.Context, iter *gocql.Iter) ([]models.Order, error) {
	var ids []string
	var orderUUID gocql.UUID
	for iter.Scan(&orderUUID) {
		ids = append(ids, orderUUID.String())
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	var orders []models.Order
	for _, id := range ids {
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}
