package scylla

import (
	"context"
	"time"

	"bocal_back_end/internal/database"
	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Ratings implémente store.RatingStore. Double écriture vers ratings
// (partition par commande) et ratings_by_product, comme les index du
// catalogue. Append-only : aucun chemin d'update ni de delete.
type Ratings struct{}

func (Ratings) Append(ctx context.Context, ratings []models.Rating) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	b := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, r := range ratings {
		rid, err := uuid.Parse(r.ID)
		if err != nil {
			return err
		}
		oid, err := uuid.Parse(r.OrderID)
		if err != nil {
			return err
		}
		pid, err := uuid.Parse(r.ProductID)
		if err != nil {
			return err
		}
		uid, err := uuid.Parse(r.UserID)
		if err != nil {
			return err
		}

		b.Query(`INSERT INTO ratings (order_id, rating_id, product_id, user_id, stars, created_at)
		         VALUES (?, ?, ?, ?, ?, ?)`,
			gocql.UUID(oid), gocql.UUID(rid), gocql.UUID(pid), gocql.UUID(uid), r.Stars, r.CreatedAt)
		b.Query(`INSERT INTO ratings_by_product (product_id, rating_id, order_id, user_id, stars, created_at)
		         VALUES (?, ?, ?, ?, ?, ?)`,
			gocql.UUID(pid), gocql.UUID(rid), gocql.UUID(oid), gocql.UUID(uid), r.Stars, r.CreatedAt)
	}
	return session.ExecuteBatch(b)
}

func (Ratings) ByOrder(ctx context.Context, orderID string) ([]models.Rating, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, store.ErrNotFound
	}

	iter := session.Query(`SELECT rating_id, product_id, user_id, stars, created_at
	                       FROM ratings WHERE order_id = ?`, gocql.UUID(oid)).
		WithContext(ctx).Iter()

	var ratings []models.Rating
	var (
		ratingUUID, productUUID, userUUID gocql.UUID
		stars                             int
		createdAt                         time.Time
	)
	for iter.Scan(&ratingUUID, &productUUID, &userUUID, &stars, &createdAt) {
		ratings = append(ratings, models.Rating{
			ID:        ratingUUID.String(),
			OrderID:   orderID,
			ProductID: productUUID.String(),
			UserID:    userUUID.String(),
			Stars:     stars,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return ratings, nil
}

func (Ratings) ByProduct(ctx context.Context, productID string) ([]models.Rating, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, store.ErrNotFound
	}

	iter := session.Query(`SELECT rating_id, order_id, user_id, stars, created_at
	                       FROM ratings_by_product WHERE product_id = ?`, gocql.UUID(pid)).
		WithContext(ctx).Iter()

	var ratings []models.Rating
	var (
		ratingUUID, orderUUID, userUUID gocql.UUID
		stars                           int
		createdAt                       time.Time
	)
	for iter.Scan(&ratingUUID, &orderUUID, &userUUID, &stars, &createdAt) {
		ratings = append(ratings, models.Rating{
			ID:        ratingUUID.String(),
			OrderID:   orderUUID.String(),
			ProductID: productID,
			UserID:    userUUID.String(),
			Stars:     stars,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return ratings, nil
}
