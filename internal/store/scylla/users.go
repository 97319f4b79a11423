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

// Users implémente store.UserStore sur le keyspace users.
// L'unicité de l'email est garantie par une écriture conditionnelle (LWT)
// sur la table d'index users_by_email.
type Users struct{}

func (Users) Create(ctx context.Context, u models.User) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	uid, err := uuid.Parse(u.ID)
	if err != nil {
		return err
	}
	userUUID := gocql.UUID(uid)

	// 1. Réserver l'email — IF NOT EXISTS fait office de contrainte d'unicité
	var prevEmail string
	var prevID gocql.UUID
	applied, err := session.Query(
		"INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS",
		u.Email, userUUID).WithContext(ctx).ScanCAS(&prevEmail, &prevID)
	if err != nil {
		return err
	}
	if !applied {
		return store.ErrConflict
	}

	// 2. Écrire la fiche utilisateur
	return session.Query(database.StmtInsertUser,
		userUUID, u.Username, u.Email, u.Password, u.Role, u.CreatedAt).
		WithContext(ctx).Exec()
}

func (Users) GetByID(ctx context.Context, id string) (models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.User{}, err
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return models.User{}, store.ErrNotFound
	}

	var (
		username, email, password, role string
		createdAt                       time.Time
	)
	err = session.Query(database.StmtGetUserByID, gocql.UUID(uid)).
		WithContext(ctx).Scan(&username, &email, &password, &role, &createdAt)
	if err == gocql.ErrNotFound {
		return models.User{}, store.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:        id,
		Username:  username,
		Email:     email,
		Password:  password,
		Role:      role,
		CreatedAt: createdAt,
	}, nil
}

func (s Users) GetByEmail(ctx context.Context, email string) (models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.User{}, err
	}

	var userUUID gocql.UUID
	err = session.Query(database.StmtGetUserByEmail, email).
		WithContext(ctx).Scan(&userUUID)
	if err == gocql.ErrNotFound {
		return models.User{}, store.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	return s.GetByID(ctx, userUUID.String())
}

func (Users) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		"SELECT user_id, username, email, role, created_at FROM users").
		WithContext(ctx).Iter()

	var users []models.User
	var (
		userUUID        gocql.UUID
		username, email string
		r               string
		createdAt       time.Time
	)
	for iter.Scan(&userUUID, &username, &email, &r, &createdAt) {
		if r != role {
			continue
		}
		users = append(users, models.User{
			ID:        userUUID.String(),
			Username:  username,
			Email:     email,
			Role:      r,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return users, nil
}
