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

package web

// SaveItemReq 新建或更新商品, SN相同则更新
type SaveItemReq struct {
	Item Item `json:"item"`
}

type SaveItemResp struct {
	ID int64 `json:"id"`
}

type ListItemsReq struct {
	VenueID int64 `json:"venueID"`
	Offset  int   `json:"offset,omitempty"`
	Limit   int   `json:"limit,omitempty"`
}

type ListItemsResp struct {
	Items []Item `json:"items"`
}

type ItemDetailReq struct {
	SN string `json:"sn"`
}

type ItemDetailResp struct {
	Item Item `json:"item"`
}

// UpdateAvailabilityReq 上下架商品
type UpdateAvailabilityReq struct {
	ID        int64 `json:"id"`
	Available bool  `json:"available"`
}

type Item struct {
	ID          int64  `json:"id,omitempty"`
	SN          string `json:"sn"`
	VenueID     int64  `json:"venueID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	Available   bool   `json:"available"`
}
