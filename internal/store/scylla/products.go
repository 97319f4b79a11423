package scylla

import (
	"context"
	"time"

	"bocal_back_end/internal/cache"
	"bocal_back_end/internal/database"
	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Catalog implémente store.CatalogStore sur le keyspace catalogue.
// products_by_name permet la résolution par nom de l'ajout au panier.
type Catalog struct{}

func (Catalog) Create(ctx context.Context, p models.Product) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	pid, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	productUUID := gocql.UUID(pid)

	if err := session.Query(`INSERT INTO products (product_id, name, description, price, category, stock, image_url, created_at)
	                         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		productUUID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.ImageURL, p.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query("INSERT INTO products_by_name (name, product_id) VALUES (?, ?)",
		p.Name, productUUID).WithContext(ctx).Exec()
}

func (Catalog) GetByID(ctx context.Context, id string) (models.Product, error) {
	if p, ok := cache.GetProduct(ctx, id); ok {
		return p, nil
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return models.Product{}, err
	}

	pid, err := uuid.Parse(id)
	if err != nil {
		return models.Product{}, store.ErrNotFound
	}

	var (
		name, description, category, imageURL string
		price                                 float64
		stock                                 int
		createdAt                             time.Time
	)
	err = session.Query(database.StmtGetProductByID, gocql.UUID(pid)).
		WithContext(ctx).Scan(&name, &description, &price, &category, &stock, &imageURL, &createdAt)
	if err == gocql.ErrNotFound {
		return models.Product{}, store.ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Stock:       stock,
		ImageURL:    imageURL,
		CreatedAt:   createdAt,
	}
	cache.SetProduct(ctx, p)
	return p, nil
}

func (s Catalog) GetByName(ctx context.Context, name string) (models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return models.Product{}, err
	}

	var productUUID gocql.UUID
	err = session.Query("SELECT product_id FROM products_by_name WHERE name = ?", name).
		WithContext(ctx).Scan(&productUUID)
	if err == gocql.ErrNotFound {
		return models.Product{}, store.ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	return s.GetByID(ctx, productUUID.String())
}

func (Catalog) List(ctx context.Context) ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, name, description, price, category, stock, image_url, created_at
	                       FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var (
		productUUID                           gocql.UUID
		name, description, category, imageURL string
		price                                 float64
		stock                                 int
		createdAt                             time.Time
	)
	for iter.Scan(&productUUID, &name, &description, &price, &category, &stock, &imageURL, &createdAt) {
		products = append(products, models.Product{
			ID:          productUUID.String(),
			Name:        name,
			Description: description,
			Price:       price,
			Category:    category,
			Stock:       stock,
			ImageURL:    imageURL,
			CreatedAt:   createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func (Catalog) SetImageURL(ctx context.Context, id, url string) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	pid, err := uuid.Parse(id)
	if err != nil {
		return store.ErrNotFound
	}

	if err := session.Query("UPDATE products SET image_url = ? WHERE product_id = ?",
		url, gocql.UUID(pid)).WithContext(ctx).Exec(); err != nil {
		return err
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}

func (s Catalog) Delete(ctx context.Context, id string) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	// Le nom est nécessaire pour nettoyer l'index
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	pid, _ := uuid.Parse(id)

	if err := session.Query("DELETE FROM products WHERE product_id = ?", gocql.UUID(pid)).
		WithContext(ctx).Exec(); err != nil {
		return err
	}
	if err := session.Query("DELETE FROM products_by_name WHERE name = ?", p.Name).
		WithContext(ctx).Exec(); err != nil {
		return err
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}
