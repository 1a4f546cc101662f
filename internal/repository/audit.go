package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"

	"adaayam_back_end/internal/database"
	"adaayam_back_end/internal/models"
)

const cqlInsertAudit = `INSERT INTO audit_logs (log_id, user_id, action, resource, resource_id, old_value, new_value, success, error_msg, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// AuditRepository trace les actions d'administration dans ScyllaDB.
type AuditRepository interface {
	Record(ctx context.Context, e models.AuditEntry) error
}

type scyllaAudit struct {
	conns *database.Connections
}

func NewAuditRepository(conns *database.Connections) AuditRepository {
	return &scyllaAudit{conns: conns}
}

func (r *scyllaAudit) Record(ctx context.Context, e models.AuditEntry) error {
	session, err := r.conns.UsersSession()
	if err != nil {
		return err
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	return session.Query(cqlInsertAudit,
		gocql.TimeUUID(), e.UserID, e.Action, e.Resource, e.ResourceID,
		e.OldValue, e.NewValue, e.Success, e.ErrorMsg, e.CreatedAt).
		WithContext(ctx).Exec()
}

// LogAction enregistre une action réussie de façon asynchrone — un échec
// d'audit ne doit jamais bloquer la requête d'origine.
func LogAction(audit AuditRepository, userID, action, resource, resourceID string, oldValue, newValue interface{}) {
	if audit == nil {
		return
	}
	go func() {
		entry := models.AuditEntry{
			UserID:     userID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			OldValue:   marshalValue(oldValue),
			NewValue:   marshalValue(newValue),
			Success:    true,
		}
		if err := audit.Record(context.Background(), entry); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

func marshalValue(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
