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

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecodeclub/tably/internal/offline/internal/domain"
	"github.com/ecodeclub/tably/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	records []domain.Record
	nextID  int64
}

func (f *fakeRepository) Save(_ context.Context, r domain.Record) (int64, error) {
	f.nextID++
	r.ID = f.nextID
	r.Ctime = time.Now().UnixMilli()
	f.records = append(f.records, r)
	return r.ID, nil
}

func (f *fakeRepository) FindPending(_ context.Context, limit int) ([]domain.Record, error) {
	res := make([]domain.Record, 0, limit)
	for _, r := range f.records {
		if r.State == domain.RecordStatePending {
			res = append(res, r)
		}
		if len(res) >= limit {
			break
		}
	}
	return res, nil
}

func (f *fakeRepository) MarkSynced(_ context.Context, id int64) error {
	return f.setState(id, domain.RecordStateSynced)
}

func (f *fakeRepository) MarkAbandoned(_ context.Context, id int64) error {
	return f.setState(id, domain.RecordStateAbandoned)
}

func (f *fakeRepository) RecordAttempt(_ context.Context, id int64) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Attempts++
			f.records[i].LastAttemptAt = time.Now().UnixMilli()
		}
	}
	return nil
}

func (f *fakeRepository) FindAbandoned(_ context.Context, offset, limit int) ([]domain.Record, error) {
	res := make([]domain.Record, 0, limit)
	for _, r := range f.records {
		if r.State == domain.RecordStateAbandoned {
			res = append(res, r)
		}
	}
	return res, nil
}

func (f *fakeRepository) setState(id int64, state domain.RecordState) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].State = state
		}
	}
	return nil
}

func (f *fakeRepository) get(id int64) domain.Record {
	for _, r := range f.records {
		if r.ID == id {
			return r
		}
	}
	return domain.Record{}
}

type fakeSubmitter struct {
	// orders 按幂等键去重，模拟服务端行为
	orders   map[string]struct{}
	err      error
	failures int
	calls    []string
}

func (f *fakeSubmitter) Submit(_ context.Context, sub order.Submission) (order.OrderConfirmation, error) {
	f.calls = append(f.calls, sub.ClientSubmissionID)
	if f.err != nil && f.failures != 0 {
		f.failures--
		return order.OrderConfirmation{}, f.err
	}
	if f.orders == nil {
		f.orders = map[string]struct{}{}
	}
	f.orders[sub.ClientSubmissionID] = struct{}{}
	return order.OrderConfirmation{OrderSN: "order-" + sub.ClientSubmissionID}, nil
}

func newTestQueue(t *testing.T, repo *fakeRepository, submitter *fakeSubmitter, maxAge time.Duration) Queue {
	q, err := NewQueue(repo, submitter, maxAge, time.Second, 100)
	require.NoError(t, err)
	return q
}

func TestQueue_EnqueueThenFlush(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	submitter := &fakeSubmitter{}
	q := newTestQueue(t, repo, submitter, time.Hour)

	id1, err := q.Enqueue(context.Background(), order.Submission{
		PayerID: 7,
		VenueID: 1,
		Lines:   []order.SubmissionLine{{ItemID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	id2, err := q.Enqueue(context.Background(), order.Submission{PayerID: 7, VenueID: 1})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	require.NoError(t, q.Flush(context.Background()))
	// 按创建顺序重放
	assert.Equal(t, []string{id1, id2}, submitter.calls)
	assert.Equal(t, domain.RecordStateSynced, repo.get(1).State)
	assert.Equal(t, domain.RecordStateSynced, repo.get(2).State)
}

func TestQueue_DuplicateFlushYieldsOneOrder(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	submitter := &fakeSubmitter{}
	q := newTestQueue(t, repo, submitter, time.Hour)

	id, err := q.Enqueue(context.Background(), order.Submission{PayerID: 7, VenueID: 1})
	require.NoError(t, err)
	require.NoError(t, q.Flush(context.Background()))

	// 模拟确认应答丢失，记录回到待同步状态再刷一次
	require.NoError(t, repo.setState(1, domain.RecordStatePending))
	require.NoError(t, q.Flush(context.Background()))

	assert.Len(t, submitter.orders, 1)
	_, ok := submitter.orders[id]
	assert.True(t, ok)
	assert.Equal(t, domain.RecordStateSynced, repo.get(1).State)
}

func TestQueue_TransientErrorKeepsRecordAndOrder(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	submitter := &fakeSubmitter{err: errors.New("网络不通"), failures: 1}
	q := newTestQueue(t, repo, submitter, time.Hour)

	id1, err := q.Enqueue(context.Background(), order.Submission{PayerID: 7, VenueID: 1})
	require.NoError(t, err)
	id2, err := q.Enqueue(context.Background(), order.Submission{PayerID: 7, VenueID: 1})
	require.NoError(t, err)

	// 老记录失败时停下来，不能越过它提交新记录
	require.Error(t, q.Flush(context.Background()))
	assert.Equal(t, []string{id1}, submitter.calls)
	assert.Equal(t, domain.RecordStatePending, repo.get(1).State)
	assert.Equal(t, int64(1), repo.get(1).Attempts)

	// 恢复后下一轮全部同步
	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, []string{id1, id1, id2}, submitter.calls)
	assert.Equal(t, domain.RecordStateSynced, repo.get(1).State)
	assert.Equal(t, domain.RecordStateSynced, repo.get(2).State)
}

func TestQueue_ValidationErrorAbandons(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	submitter := &fakeSubmitter{
		err: &order.ValidationError{Rejections: []order.LineRejection{
			{ItemID: 1, Reason: "unavailable"},
		}},
		failures: -1,
	}
	q := newTestQueue(t, repo, submitter, time.Hour)

	_, err := q.Enqueue(context.Background(), order.Submission{
		PayerID: 7, VenueID: 1,
		Lines: []order.SubmissionLine{{ItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	// 校验失败重放不会好，直接放弃
	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, domain.RecordStateAbandoned, repo.get(1).State)

	abandoned, err := q.ListAbandoned(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, abandoned, 1)
}

func TestQueue_MaxAgeAbandons(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	submitter := &fakeSubmitter{}
	q := newTestQueue(t, repo, submitter, time.Minute)

	_, err := q.Enqueue(context.Background(), order.Submission{PayerID: 7, VenueID: 1})
	require.NoError(t, err)
	repo.records[0].Ctime = time.Now().Add(-2 * time.Minute).UnixMilli()

	require.NoError(t, q.Flush(context.Background()))
	// 超龄记录不再尝试提交
	assert.Empty(t, submitter.calls)
	assert.Equal(t, domain.RecordStateAbandoned, repo.get(1).State)
}
