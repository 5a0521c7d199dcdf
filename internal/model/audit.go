package model

import "time"

// Audit actions follow the "{table}_{verb}" convention so entries can be
// filtered by table prefix.
const (
	AuditSurveyCreated   = "surveys_create"
	AuditSurveyUpdated   = "surveys_update"
	AuditSurveyDeleted   = "surveys_delete"
	AuditSurveyPublished = "surveys_publish"
	AuditSurveyClosed    = "surveys_close"
	AuditResponseCreated = "responses_create"
	AuditRoleAssigned    = "user_roles_assign"
	AuditRoleRevoked     = "user_roles_revoke"
	AuditProfileUpdated  = "profiles_update"
	AuditUserRegistered  = "users_register"
	AuditUserLogin       = "users_login"
)

// AuditEntry is one append-only audit record. Entries are written by the
// services on mutations and are read-only over the API.
type AuditEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ActorID   string    `json:"actorId,omitempty" bson:"actor_id,omitempty"`
	Action    string    `json:"action" bson:"action"`
	TableName string    `json:"tableName,omitempty" bson:"table_name,omitempty"`
	TargetID  string    `json:"targetId,omitempty" bson:"target_id,omitempty"`
	At        time.Time `json:"at" bson:"at"`
}
