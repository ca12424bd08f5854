package receipt

import (
    "bytes"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/reservas-express/internal/model"
)

func TestRender_Paid(t *testing.T) {
    r := model.Reservation{
        ID:        "42",
        Email:     "josé@example.com",
        Category:  model.CategoryVIP,
        Quantity:  2,
        Total:     120,
        Status:    model.StatusPaid,
        StartDate: "2025-03-01T00:00:00Z",
        EndDate:   "2025-03-03T00:00:00Z",
    }
    out, err := Render(r, "https://api.example.com/tickets/42", time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC))
    require.NoError(t, err)
    assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRender_Pending(t *testing.T) {
    _, err := Render(model.Reservation{ID: "1", Status: model.StatusPending}, "", time.Now())
    assert.ErrorIs(t, err, ErrNotPaid)
}
