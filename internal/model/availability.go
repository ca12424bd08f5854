package model

// Category is the ticket tier offered by the venue.
type Category string

const (
    CategoryBasic Category = "BASIC"
    CategoryPlus  Category = "PLUS"
    CategoryVIP   Category = "VIP"
)

// AvailabilityItem is a per-category snapshot for a date range, computed by
// the reservation API.  Reserved only counts PAID reservations.
type AvailabilityItem struct {
    Category  Category `json:"category"`
    Capacity  int      `json:"capacity"`
    Reserved  int      `json:"reserved"`
    Available int      `json:"available"`
    Price     float64  `json:"price"`
}

// IsAvailable reports whether at least one unit can still be reserved.
func (a AvailabilityItem) IsAvailable() bool { return a.Available > 0 }
