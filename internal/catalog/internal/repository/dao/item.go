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
	"gorm.io/gorm/clause"
)

var ErrItemNotFound = gorm.ErrRecordNotFound

type ItemDAO interface {
	Save(ctx context.Context, item Item) (int64, error)
	FindBySN(ctx context.Context, sn string) (Item, error)
	FindByIDs(ctx context.Context, venueID int64, ids []int64) ([]Item, error)
	ListByVenueID(ctx context.Context, venueID int64, offset, limit int) ([]Item, error)
	UpdateAvailability(ctx context.Context, id int64, available bool) error
}

type ItemGORMDAO struct {
	db *egorm.Component
}

func NewItemGORMDAO(db *egorm.Component) ItemDAO {
	return &ItemGORMDAO{db: db}
}

func (g *ItemGORMDAO) Save(ctx context.Context, item Item) (int64, error) {
	now := time.Now().UnixMilli()
	item.Ctime, item.Utime = now, now
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sn"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "price", "currency", "available", "utime",
		}),
	}).Create(&item).Error
	return item.Id, err
}

func (g *ItemGORMDAO) FindBySN(ctx context.Context, sn string) (Item, error) {
	var res Item
	err := g.db.WithContext(ctx).Where("sn = ?", sn).First(&res).Error
	return res, err
}

func (g *ItemGORMDAO) FindByIDs(ctx context.Context, venueID int64, ids []int64) ([]Item, error) {
	var res []Item
	err := g.db.WithContext(ctx).
		Where("venue_id = ? AND id IN ?", venueID, ids).
		Find(&res).Error
	return res, err
}

func (g *ItemGORMDAO) ListByVenueID(ctx context.Context, venueID int64, offset, limit int) ([]Item, error) {
	var res []Item
	err := g.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Offset(offset).Limit(limit).
		Order("id desc").
		Find(&res).Error
	return res, err
}

func (g *ItemGORMDAO) UpdateAvailability(ctx context.Context, id int64, available bool) error {
	return g.db.WithContext(ctx).Model(&Item{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"available": available,
			"utime":     time.Now().UnixMilli(),
		}).Error
}

type Item struct {
	Id          int64  `gorm:"primaryKey;autoIncrement;comment:商品自增ID"`
	SN          string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_item_sn;comment:商品序列号"`
	VenueId     int64  `gorm:"not null;index:idx_venue_id;comment:门店ID"`
	Name        string `gorm:"type:varchar(255);not null;comment:商品名称"`
	Description string `gorm:"not null;comment:商品描述"`
	Price       int64  `gorm:"not null;comment:商品单价;单位为分, 999表示9.99元"`
	Currency    string `gorm:"type:varchar(8);not null;default:EUR;comment:币种"`
	Available   bool   `gorm:"not null;default:1;comment:是否可售"`
	Ctime       int64
	Utime       int64
}
