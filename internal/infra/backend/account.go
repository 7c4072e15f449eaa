package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"parking-orchestrator/internal/domain/loyalty"

	"github.com/google/uuid"
)

const (
	peoplePageSize = 100
	maxPeoplePages = 1000
)

// GetAccount reads the caller's own loyalty record. The backend resolves "me" from the
// bearer token, so id only guards against a token for somebody else.
func (c *Client) GetAccount(ctx context.Context, id uuid.UUID) (*loyalty.Account, error) {
	const op = "getMyPeople"
	var dto PeopleRead
	if _, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"people", "me"}}, &dto); err != nil {
		return nil, err
	}
	return c.ownAccount(op, id, dto)
}

func (c *Client) CreateAccount(ctx context.Context, id uuid.UUID) (*loyalty.Account, error) {
	const op = "createPeople"
	var dto PeopleRead
	_, err := c.do(ctx, call{op: op, method: http.MethodPost, path: []string{"people"}, body: PeopleCreate{}}, &dto)
	if err != nil {
		return nil, err
	}
	return c.ownAccount(op, id, dto)
}

func (c *Client) UpdateAccount(ctx context.Context, acc *loyalty.Account) (*loyalty.Account, error) {
	const op = "updateMyPeople"
	body := PeopleBase{
		PlateNumber:   acc.PlateNumber(),
		LoyaltyPoints: acc.Points(),
		Balance:       acc.Balance(),
	}
	var dto PeopleRead
	if _, err := c.do(ctx, call{op: op, method: http.MethodPatch, path: []string{"people", "me"}, body: body}, &dto); err != nil {
		return nil, err
	}
	return c.ownAccount(op, acc.ID(), dto)
}

func (c *Client) ownAccount(op string, id uuid.UUID, dto PeopleRead) (*loyalty.Account, error) {
	acc, err := c.toAccount(op, dto)
	if err != nil {
		return nil, err
	}
	if id != uuid.Nil && acc.ID() != id {
		return nil, &Error{Kind: KindUnknown, Op: op, Message: "account does not belong to the caller"}
	}
	return acc, nil
}

// IsAdmin scans the admins list, which the backend exposes without a lookup by id.
func (c *Client) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "listAdmins"
	var dtos []AdminRead
	if _, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"admins"}}, &dtos); err != nil {
		return false, err
	}
	for _, dto := range dtos {
		if err := c.check(op, dto); err != nil {
			return false, err
		}
		if adminID, err := uuid.Parse(dto.UUID); err == nil && adminID == id {
			return true, nil
		}
	}
	return false, nil
}

// CountCustomers pages through people until a short page.
func (c *Client) CountCustomers(ctx context.Context) (int, error) {
	const op = "listPeople"
	total := 0
	for page := 0; page < maxPeoplePages; page++ {
		query := url.Values{}
		query.Set("skip", strconv.Itoa(page*peoplePageSize))
		query.Set("limit", strconv.Itoa(peoplePageSize))

		var dtos []PeopleRead
		if _, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"people"}, query: query}, &dtos); err != nil {
			return 0, err
		}
		total += len(dtos)
		if len(dtos) < peoplePageSize {
			return total, nil
		}
	}
	return total, nil
}
