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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/tably/internal/offline/internal/domain"
	"github.com/ecodeclub/tably/internal/offline/internal/repository/dao"
)

type SubmissionRecordRepository interface {
	Save(ctx context.Context, r domain.Record) (int64, error)
	FindPending(ctx context.Context, limit int) ([]domain.Record, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkAbandoned(ctx context.Context, id int64) error
	RecordAttempt(ctx context.Context, id int64) error
	FindAbandoned(ctx context.Context, offset, limit int) ([]domain.Record, error)
}

func NewSubmissionRecordRepository(d dao.SubmissionRecordDAO) SubmissionRecordRepository {
	return &submissionRecordRepository{dao: d}
}

type submissionRecordRepository struct {
	dao dao.SubmissionRecordDAO
}

func (r *submissionRecordRepository) Save(ctx context.Context, record domain.Record) (int64, error) {
	return r.dao.Create(ctx, r.toEntity(record))
}

func (r *submissionRecordRepository) FindPending(ctx context.Context, limit int) ([]domain.Record, error) {
	records, err := r.dao.FindPending(ctx, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(records, func(idx int, src dao.SubmissionRecord) domain.Record {
		return r.toDomain(src)
	}), nil
}

func (r *submissionRecordRepository) MarkSynced(ctx context.Context, id int64) error {
	return r.dao.UpdateState(ctx, id, domain.RecordStateSynced.ToUint8())
}

func (r *submissionRecordRepository) MarkAbandoned(ctx context.Context, id int64) error {
	return r.dao.UpdateState(ctx, id, domain.RecordStateAbandoned.ToUint8())
}

func (r *submissionRecordRepository) RecordAttempt(ctx context.Context, id int64) error {
	return r.dao.RecordAttempt(ctx, id)
}

func (r *submissionRecordRepository) FindAbandoned(ctx context.Context, offset, limit int) ([]domain.Record, error) {
	records, err := r.dao.FindByState(ctx, domain.RecordStateAbandoned.ToUint8(), offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(records, func(idx int, src dao.SubmissionRecord) domain.Record {
		return r.toDomain(src)
	}), nil
}

func (r *submissionRecordRepository) toEntity(record domain.Record) dao.SubmissionRecord {
	return dao.SubmissionRecord{
		Id:                 record.ID,
		ClientSubmissionID: record.ClientSubmissionID,
		Payload:            record.Payload,
		State:              record.State.ToUint8(),
		Attempts:           record.Attempts,
		LastAttemptAt:      record.LastAttemptAt,
	}
}

func (r *submissionRecordRepository) toDomain(record dao.SubmissionRecord) domain.Record {
	return domain.Record{
		ID:                 record.Id,
		ClientSubmissionID: record.ClientSubmissionID,
		Payload:            record.Payload,
		State:              domain.RecordState(record.State),
		Attempts:           record.Attempts,
		LastAttemptAt:      record.LastAttemptAt,
		Ctime:              record.Ctime,
		Utime:              record.Utime,
	}
}
