package response

import (
	"parking-orchestrator/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoyaltyResponse struct {
	AccountID   uuid.UUID `json:"account_id"`
	Points      int       `json:"points"`
	PlateNumber *int      `json:"plate_number,omitempty"`
	Balance     float64   `json:"balance"`
	Created     bool      `json:"created"`
}

func FromLoyaltyView(v *queries.LoyaltyView) (*LoyaltyResponse, error) {
	return copyInto[LoyaltyResponse](v)
}
