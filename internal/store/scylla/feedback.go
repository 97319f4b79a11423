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

// Feedback implémente store.FeedbackStore (avis libres, append-only).
type Feedback struct{}

func (Feedback) Append(ctx context.Context, f models.Feedback) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	fid, err := uuid.Parse(f.ID)
	if err != nil {
		return err
	}
	uid, err := uuid.Parse(f.UserID)
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO feedbacks (user_id, feedback_id, content, created_at)
	                      VALUES (?, ?, ?, ?)`,
		gocql.UUID(uid), gocql.UUID(fid), f.Content, f.CreatedAt).
		WithContext(ctx).Exec()
}

func (Feedback) ByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, store.ErrNotFound
	}

	iter := session.Query(`SELECT feedback_id, content, created_at
	                       FROM feedbacks WHERE user_id = ?`, gocql.UUID(uid)).
		WithContext(ctx).Iter()

	var list []models.Feedback
	var (
		feedbackUUID gocql.UUID
		content      string
		createdAt    time.Time
	)
	for iter.Scan(&feedbackUUID, &content, &createdAt) {
		list = append(list, models.Feedback{
			ID:        feedbackUUID.String(),
			UserID:    userID,
			Content:   content,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return list, nil
}

func (Feedback) ListAll(ctx context.Context) ([]models.Feedback, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query("SELECT user_id, feedback_id, content, created_at FROM feedbacks").
		WithContext(ctx).Iter()

	var list []models.Feedback
	var (
		userUUID, feedbackUUID gocql.UUID
		content                string
		createdAt              time.Time
	)
	for iter.Scan(&userUUID, &feedbackUUID, &content, &createdAt) {
		list = append(list, models.Feedback{
			ID:        feedbackUUID.String(),
			UserID:    userUUID.String(),
			Content:   content,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return list, nil
}
