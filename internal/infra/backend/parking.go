package backend

import (
	"context"
	"net/http"

	"parking-orchestrator/internal/domain/parking"
)

func (c *Client) GetParking(ctx context.Context, name string) (*parking.Resource, error) {
	const op = "getParking"
	var dto ParkingRead
	if _, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"parkings", name}}, &dto); err != nil {
		return nil, err
	}
	return c.toResource(op, dto)
}

func (c *Client) ListParkings(ctx context.Context) ([]*parking.Resource, error) {
	const op = "listParkings"
	var dtos []ParkingRead
	if _, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"parkings"}}, &dtos); err != nil {
		return nil, err
	}

	out := make([]*parking.Resource, 0, len(dtos))
	for _, dto := range dtos {
		r, err := c.toResource(op, dto)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// UpdateCapacity writes an absolute occupancy. Callers own the read-modify-write race.
func (c *Client) UpdateCapacity(ctx context.Context, name string, newCurrent int) (*parking.Resource, error) {
	const op = "updateParking"
	var dto ParkingRead
	_, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPatch,
		path:   []string{"parkings", name},
		body:   ParkingUpdate{CurrentCapacity: newCurrent},
	}, &dto)
	if err != nil {
		return nil, err
	}
	return c.toResource(op, dto)
}

func (c *Client) SupportsAtomicIncrement() bool {
	return c.capacityRPC != ""
}

// IncrementCapacity calls the backend function that adds one to current_capacity in a
// single statement. Functions returning no row are followed by a read.
func (c *Client) IncrementCapacity(ctx context.Context, name string) (*parking.Resource, error) {
	const op = "incrementCapacity"
	if !c.SupportsAtomicIncrement() {
		return nil, &Error{Kind: KindUnknown, Op: op, Message: "no capacity function configured"}
	}

	var dto ParkingRead
	_, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		path:   []string{"rpc", c.capacityRPC},
		body:   CapacityRPCRequest{ParkingName: name},
	}, &dto)
	if err != nil {
		return nil, err
	}
	if dto.Name == "" {
		return c.GetParking(ctx, name)
	}
	return c.toResource(op, dto)
}
