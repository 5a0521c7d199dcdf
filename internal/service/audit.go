package service

import (
	"context"
	"log"

	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

// Auditor appends entries to the audit trail. Audit writes are best-effort:
// a failed write is logged and never fails the mutation it records.
type Auditor struct {
	repo repository.AuditRepo
}

// NewAuditor creates a new auditor
func NewAuditor(repo repository.AuditRepo) *Auditor {
	return &Auditor{repo: repo}
}

// Record appends one audit entry
func (a *Auditor) Record(ctx context.Context, actorID, action, tableName, targetID string) {
	if a == nil || a.repo == nil {
		return
	}
	entry := &model.AuditEntry{
		ActorID:   actorID,
		Action:    action,
		TableName: tableName,
		TargetID:  targetID,
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		log.Printf("audit write failed (action=%s target=%s): %v", action, targetID, err)
	}
}
