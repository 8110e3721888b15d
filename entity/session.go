package entity

import (
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
)

type EditorSession struct {
	tableName struct{} `pg:"editor_session"`

	Id          string             `pg:"id,pk,type:varchar"`
	FileName    string             `pg:"file_name,type:varchar,notnull"`
	Encoding    view.Encoding      `pg:"encoding,type:varchar,notnull"`
	Embedded    bool               `pg:"embedded,type:boolean,notnull,use_zero"`
	Status      view.SessionStatus `pg:"status,type:varchar,notnull"`
	UserId      string             `pg:"user_id,type:varchar"`
	CreatedAt   time.Time          `pg:"created_at,type:timestamp without time zone,notnull"`
	ClosedAt    *time.Time         `pg:"closed_at,type:timestamp without time zone"`
	LastSavedAt *time.Time         `pg:"last_saved_at,type:timestamp without time zone"`
}

/*
create table editor_session
(
    id            varchar
        constraint editor_session_pk primary key,
    file_name     varchar                     not null,
    encoding      varchar                     not null,
    embedded      boolean                     not null,
    status        varchar                     not null,
    user_id       varchar,
    created_at    timestamp without time zone not null,
    closed_at     timestamp without time zone,
    last_saved_at timestamp without time zone
);
*/
