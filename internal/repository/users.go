// Package repository contient les accès ScyllaDB. Les requêtes CQL
// fréquentes sont regroupées en constantes en tête de chaque fichier.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"

	"adaayam_back_end/internal/apperr"
	"adaayam_back_end/internal/database"
	"adaayam_back_end/internal/models"
)

const (
	cqlInsertUser = `INSERT INTO users (user_id, full_name, email, password, role, phone_number, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	cqlClaimEmail      = `INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`
	cqlGetUserIDByMail = `SELECT user_id FROM users_by_email WHERE email = ?`
	cqlGetUserByID     = `SELECT full_name, email, password, role, phone_number, address FROM users WHERE user_id = ?`
	cqlUpdateProfile   = `UPDATE users SET full_name = ?, phone_number = ?, address = ? WHERE user_id = ?`
)

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, fullName, phone, address string) (*models.User, error)
}

type scyllaUsers struct {
	conns *database.Connections
}

func NewUserRepository(conns *database.Connections) UserRepository {
	return &scyllaUsers{conns: conns}
}

// Insert crée l'utilisateur. La table users_by_email sert de verrou
// d'unicité : l'insertion LWT échoue si l'email est déjà pris.
func (r *scyllaUsers) Insert(ctx context.Context, u *models.User) error {
	session, err := r.conns.UsersSession()
	if err != nil {
		return err
	}

	userUUID, err := gocql.ParseUUID(u.ID)
	if err != nil {
		return apperr.InvalidArgument("identifiant utilisateur invalide")
	}

	applied, err := session.Query(cqlClaimEmail, u.Email, userUUID).
		WithContext(ctx).ScanCAS(nil, nil)
	if err != nil {
		return err
	}
	if !applied {
		return apperr.Conflict("un compte avec cet email existe déjà")
	}

	return session.Query(cqlInsertUser,
		userUUID, u.FullName, u.Email, u.Password, u.Role,
		u.PhoneNumber, u.Address, time.Now()).
		WithContext(ctx).Exec()
}

func (r *scyllaUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	session, err := r.conns.UsersSession()
	if err != nil {
		return nil, err
	}

	var userUUID gocql.UUID
	if err := session.Query(cqlGetUserIDByMail, email).WithContext(ctx).Scan(&userUUID); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, apperr.NotFound("utilisateur introuvable")
		}
		return nil, err
	}

	return r.GetByID(ctx, userUUID.String())
}

func (r *scyllaUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	session, err := r.conns.UsersSession()
	if err != nil {
		return nil, err
	}

	userUUID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, apperr.InvalidArgument("identifiant utilisateur invalide")
	}

	u := models.User{ID: id}
	err = session.Query(cqlGetUserByID, userUUID).WithContext(ctx).
		Scan(&u.FullName, &u.Email, &u.Password, &u.Role, &u.PhoneNumber, &u.Address)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, apperr.NotFound("utilisateur introuvable")
		}
		return nil, err
	}

	return &u, nil
}

func (r *scyllaUsers) UpdateProfile(ctx context.Context, id, fullName, phone, address string) (*models.User, error) {
	session, err := r.conns.UsersSession()
	if err != nil {
		return nil, err
	}

	userUUID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, apperr.InvalidArgument("identifiant utilisateur invalide")
	}

	if err := session.Query(cqlUpdateProfile, fullName, phone, address, userUUID).
		WithContext(ctx).Exec(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}
