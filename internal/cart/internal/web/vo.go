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

type AddItemReq struct {
	VenueID  int64 `json:"venueID"`
	ItemID   int64 `json:"itemID"`
	Quantity int64 `json:"quantity"`
}

type UpdateQuantityReq struct {
	ItemID   int64 `json:"itemID"`
	Quantity int64 `json:"quantity"`
}

type RemoveItemReq struct {
	ItemID int64 `json:"itemID"`
}

type CartResp struct {
	Cart Cart `json:"cart"`
}

type Cart struct {
	VenueID     int64      `json:"venueID"`
	Lines       []CartLine `json:"lines"`
	TotalAmount int64      `json:"totalAmount"`
}

type CartLine struct {
	ItemID    int64  `json:"itemID"`
	ItemSN    string `json:"itemSN"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
}
