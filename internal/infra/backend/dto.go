package backend

// Wire schemas of the backend REST API. Every response is validated before it is
// mapped into domain types.

type ParkingRead struct {
	Name            string  `json:"name" validate:"required"`
	OwnerUUID       string  `json:"owner_uuid" validate:"omitempty,uuid"`
	CurrentCapacity int     `json:"current_capacity" validate:"gte=0"`
	MaximumCapacity int     `json:"maximum_capacity" validate:"gte=0"`
	PricePerHour    float64 `json:"price_per_hour" validate:"gte=0"`
	OpenTime        string  `json:"open_time"`
	CloseTime       string  `json:"close_time"`
	Location        string  `json:"location"`
}

type ParkingUpdate struct {
	CurrentCapacity int `json:"current_capacity"`
}

type CapacityRPCRequest struct {
	ParkingName string `json:"parking_name"`
}

type ReservationCreate struct {
	ParkingID    string  `json:"parking_id"`
	PeopleUUID   string  `json:"people_uuid"`
	Time         string  `json:"time"`
	Status       string  `json:"status"`
	CheckoutTime *string `json:"checkout_time"`
	Price        float64 `json:"price"`
}

type ReservationRead struct {
	ID           int64   `json:"id" validate:"gte=0"`
	ParkingID    string  `json:"parking_id" validate:"required"`
	PeopleUUID   string  `json:"people_uuid" validate:"required,uuid"`
	Time         string  `json:"time" validate:"required"`
	Status       string  `json:"status" validate:"required,oneof=Pending Confirmed Cancelled Completed"`
	CheckoutTime *string `json:"checkout_time"`
	Price        float64 `json:"price" validate:"gte=0"`
}

type PeopleCreate struct {
	PlateNumber   *int    `json:"plate_number"`
	LoyaltyPoints int     `json:"loyalty_points"`
	Balance       float64 `json:"balance"`
}

type PeopleBase struct {
	PlateNumber   *int    `json:"plate_number"`
	LoyaltyPoints int     `json:"loyalty_points"`
	Balance       float64 `json:"balance"`
}

type PeopleRead struct {
	UUID          string  `json:"uuid" validate:"required,uuid"`
	PlateNumber   *int    `json:"plate_number"`
	LoyaltyPoints int     `json:"loyalty_points" validate:"gte=0"`
	Balance       float64 `json:"balance"`
}

type AdminRead struct {
	UUID string `json:"uuid" validate:"required"`
}

type RevenueRead struct {
	Date      string  `json:"date" validate:"required"`
	Revenue   float64 `json:"revenue"`
	ParkingID string  `json:"parking_id" validate:"required"`
}
