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
	cqlInsertProduct = `INSERT INTO products (product_id, name, description, price_per_kg, stock_kg, category, image_url, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	cqlGetProduct = `SELECT name, description, price_per_kg, stock_kg, category, image_url, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`
	cqlListProducts = `SELECT product_id, name, description, price_per_kg, stock_kg, category, image_url, is_active, created_at, updated_at
		FROM products`
	cqlUpdateProduct = `UPDATE products SET name = ?, description = ?, price_per_kg = ?, stock_kg = ?, category = ?, image_url = ?, is_active = ?, updated_at = ?
		WHERE product_id = ?`
	cqlDeactivateProduct = `UPDATE products SET is_active = false, updated_at = ? WHERE product_id = ?`
	cqlSetProductImage   = `UPDATE products SET image_url = ?, updated_at = ? WHERE product_id = ?`
)

type ProductRepository interface {
	Insert(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, activeOnly bool) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Deactivate(ctx context.Context, id string) error
	SetImageURL(ctx context.Context, id, url string) error
}

type scyllaProducts struct {
	conns *database.Connections
}

func NewProductRepository(conns *database.Connections) ProductRepository {
	return &scyllaProducts{conns: conns}
}

func (r *scyllaProducts) Insert(ctx context.Context, p *models.Product) error {
	session, err := r.conns.ProductsSession()
	if err != nil {
		return err
	}

	productUUID, err := gocql.ParseUUID(p.ID)
	if err != nil {
		return apperr.InvalidArgument("identifiant produit invalide")
	}

	return session.Query(cqlInsertProduct,
		productUUID, p.Name, p.Description,
		database.ToCQLDecimal(p.PricePerKg), database.ToCQLDecimal(p.StockKg),
		p.Category, p.ImageURL, p.IsActive, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec()
}

func (r *scyllaProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	session, err := r.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	productUUID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, apperr.NotFound("produit introuvable: %s", id)
	}

	p := models.Product{ID: id}
	var price, stock inf.Dec
	err = session.Query(cqlGetProduct, productUUID).WithContext(ctx).
		Scan(&p.Name, &p.Description, &price, &stock, &p.Category, &p.ImageURL,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, apperr.NotFound("produit introuvable: %s", id)
		}
		return nil, err
	}

	p.PricePerKg = database.FromCQLDecimal(&price)
	p.StockKg = database.FromCQLDecimal(&stock)
	return &p, nil
}

func (r *scyllaProducts) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	session, err := r.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(cqlListProducts).WithContext(ctx).Iter()

	var products []models.Product
	var (
		productUUID  gocql.UUID
		p            models.Product
		price, stock inf.Dec
	)
	for iter.Scan(&productUUID, &p.Name, &p.Description, &price, &stock,
		&p.Category, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if !activeOnly || p.IsActive {
			p.ID = productUUID.String()
			p.PricePerKg = database.FromCQLDecimal(&price)
			p.StockKg = database.FromCQLDecimal(&stock)
			products = append(products, p)
		}
		p = models.Product{}
		price, stock = inf.Dec{}, inf.Dec{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *scyllaProducts) Update(ctx context.Context, p *models.Product) error {
	session, err := r.conns.ProductsSession()
	if err != nil {
		return err
	}

	productUUID, err := gocql.ParseUUID(p.ID)
	if err != nil {
		return apperr.NotFound("produit introuvable: %s", p.ID)
	}

	return session.Query(cqlUpdateProduct,
		p.Name, p.Description,
		database.ToCQLDecimal(p.PricePerKg), database.ToCQLDecimal(p.StockKg),
		p.Category, p.ImageURL, p.IsActive, time.Now(), productUUID).
		WithContext(ctx).Exec()
}

func (r *scyllaProducts) Deactivate(ctx context.Context, id string) error {
	session, err := r.conns.ProductsSession()
	if err != nil {
		return err
	}

	productUUID, err := gocql.ParseUUID(id)
	if err != nil {
		return apperr.NotFound("produit introuvable: %s", id)
	}

	return session.Query(cqlDeactivateProduct, time.Now(), productUUID).
		WithContext(ctx).Exec()
}

func (r *scyllaProducts) SetImageURL(ctx context.Context, id, url string) error {
	session, err := r.conns.ProductsSession()
	if err != nil {
		return err
	}

	productUUID, err := gocql.ParseUUID(id)
	if err != nil {
		return apperr.NotFound("produit introuvable: %s", id)
	}

	return session.Query(cqlSetProductImage, url, time.Now(), productUUID).
		WithContext(ctx).Exec()
}
