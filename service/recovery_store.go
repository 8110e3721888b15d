// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/client"
	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	"github.com/buraksezer/olric"
)

const recoverySnapshotsDMap = "editor-recovery-snapshots"

// Snapshots are useless once the session is long gone, let the cluster drop
// them after a day.
const recoverySnapshotTTL = 24 * time.Hour

func NewRecoveryStore(op client.OlricProvider) RecoveryStore {
	return &olricRecoveryStoreImpl{op: op}
}

type olricRecoveryStoreImpl struct {
	op client.OlricProvider

	dmOnce sync.Once
	dm     *olric.DMap
	dmErr  error
}

func (s *olricRecoveryStoreImpl) Put(ctx context.Context, snapshot view.RecoverySnapshot) error {
	dm, err := s.dmap()
	if err != nil {
		return err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return dm.PutEx(snapshot.SessionId, data, recoverySnapshotTTL)
}

func (s *olricRecoveryStoreImpl) Clear(ctx context.Context, sessionId string) error {
	dm, err := s.dmap()
	if err != nil {
		return err
	}
	return dm.Delete(sessionId)
}

func (s *olricRecoveryStoreImpl) dmap() (*olric.DMap, error) {
	s.dmOnce.Do(func() {
		s.dm, s.dmErr = s.op.Get().NewDMap(recoverySnapshotsDMap)
	})
	return s.dm, s.dmErr
}
