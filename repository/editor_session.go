package repository

import (
	"context"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/db"
	"github.com/Netcracker/qubership-apihub-editor-session-service/entity"
	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
)

// EditorSessionRepository is the durable registry of editor sessions. The live
// session state itself is in memory; the registry only records lifecycle
// milestones.
type EditorSessionRepository interface {
	SaveSession(ctx context.Context, ent entity.EditorSession) error
	SetSessionStatus(ctx context.Context, id string, status view.SessionStatus, closedAt *time.Time) error
	SetLastSaved(ctx context.Context, id string, savedAt time.Time) error
}

func NewEditorSessionRepository(cp db.ConnectionProvider) EditorSessionRepository {
	return &editorSessionRepositoryImpl{cp: cp}
}

type editorSessionRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (e editorSessionRepositoryImpl) SaveSession(ctx context.Context, ent entity.EditorSession) error {
	_, err := e.cp.GetConnection().ModelContext(ctx, &ent).Insert()
	return err
}

func (e editorSessionRepositoryImpl) SetSessionStatus(ctx context.Context, id string, status view.SessionStatus, closedAt *time.Time) error {
	_, err := e.cp.GetConnection().ModelContext(ctx, (*entity.EditorSession)(nil)).
		Set("status=?", status).
		Set("closed_at=?", closedAt).
		Where("id=?", id).
		Update()
	return err
}

func (e editorSessionRepositoryImpl) SetLastSaved(ctx context.Context, id string, savedAt time.Time) error {
	_, err := e.cp.GetConnection().ModelContext(ctx, (*entity.EditorSession)(nil)).
		Set("last_saved_at=?", savedAt).
		Where("id=?", id).
		Update()
	return err
}
