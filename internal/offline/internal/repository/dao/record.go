// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type SubmissionRecordDAO interface {
	Create(ctx context.Context, r SubmissionRecord) (int64, error)
	// FindPending 按创建时间从旧到新
	FindPending(ctx context.Context, limit int) ([]SubmissionRecord, error)
	UpdateState(ctx context.Context, id int64, state uint8) error
	RecordAttempt(ctx context.Context, id int64) error
	FindByState(ctx context.Context, state uint8, offset, limit int) ([]SubmissionRecord, error)
}

type gormSubmissionRecordDAO struct {
	db *egorm.Component
}

func NewSubmissionRecordGORMDAO(db *egorm.Component) SubmissionRecordDAO {
	return &gormSubmissionRecordDAO{db: db}
}

func (g *gormSubmissionRecordDAO) Create(ctx context.Context, r SubmissionRecord) (int64, error) {
	now := time.Now().UnixMilli()
	r.Ctime, r.Utime = now, now
	err := g.db.WithContext(ctx).Create(&r).Error
	return r.Id, err
}

func (g *gormSubmissionRecordDAO) FindPending(ctx context.Context, limit int) ([]SubmissionRecord, error) {
	var res []SubmissionRecord
	err := g.db.WithContext(ctx).
		Where("state = ?", statePending).
		Order("ctime ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *gormSubmissionRecordDAO) UpdateState(ctx context.Context, id int64, state uint8) error {
	return g.db.WithContext(ctx).Model(&SubmissionRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"state": state,
			"utime": time.Now().UnixMilli(),
		}).Error
}

func (g *gormSubmissionRecordDAO) RecordAttempt(ctx context.Context, id int64) error {
	now := time.Now().UnixMilli()
	return g.db.WithContext(ctx).Model(&SubmissionRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":        gorm.Expr("attempts + 1"),
			"last_attempt_at": now,
			"utime":           now,
		}).Error
}

func (g *gormSubmissionRecordDAO) FindByState(ctx context.Context, state uint8, offset, limit int) ([]SubmissionRecord, error) {
	var res []SubmissionRecord
	err := g.db.WithContext(ctx).
		Where("state = ?", state).
		Order("ctime ASC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

const statePending = 1

// SubmissionRecord 本地暂存的下单请求
type SubmissionRecord struct {
	Id                 int64  `gorm:"primaryKey,autoIncrement;comment:暂存记录ID"`
	ClientSubmissionID string `gorm:"column:client_submission_id;type:varchar(64);not null;uniqueIndex:uniq_client_submission_id;comment:幂等键"`
	Payload            []byte `gorm:"type:blob;not null;comment:序列化的下单请求"`
	State              uint8  `gorm:"type:tinyint unsigned;not null;default:1;index:idx_state;comment:暂存状态 1=待同步 2=已同步 3=已放弃"`
	Attempts           int64  `gorm:"not null;default:0;comment:已尝试次数"`
	LastAttemptAt      int64  `gorm:"not null;default:0;comment:最近一次尝试时间"`
	Ctime              int64
	Utime              int64
}

func (SubmissionRecord) TableName() string {
	return "offline_submission_records"
}
