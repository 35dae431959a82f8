package model

import "time"

// Programme is a scheduled match listing owned by the manager who created
// it.  PriceA is the premium tier price, PriceB the standard one.
type Programme struct {
    ID        uint64    `json:"id"`
    HomeTeam  string    `json:"home_team"`
    AwayTeam  string    `json:"away_team"`
    Stadium   string    `json:"stadium"`
    Date      time.Time `json:"date"`
    Division  string    `json:"division"`
    PriceA    float64   `json:"price_a"`
    PriceB    float64   `json:"price_b"`
    OwnerID   uint64    `json:"owner_id"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

// ProgrammeInput is the set of editable programme fields.
type ProgrammeInput struct {
    HomeTeam string
    AwayTeam string
    Stadium  string
    Date     time.Time
    Division string
    PriceA   float64
    PriceB   float64
}
