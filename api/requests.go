package api

import (
	"fmt"
	"strconv"
	"strings"

	"ledger/models"
	"ledger/service"

	"github.com/gofiber/fiber/v2"
)

// accountRequest is the body of create and update calls.
// Optional fields fall back to balance 0 and empty password and email.
type accountRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Balance  *int64  `json:"balance"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
}

func (r accountRequest) params() (models.AccountParams, error) {
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return models.AccountParams{}, fmt.Errorf("%w: name is required", service.ErrInvalidInput)
	}
	if r.Username == nil || strings.TrimSpace(*r.Username) == "" {
		return models.AccountParams{}, fmt.Errorf("%w: username is required", service.ErrInvalidInput)
	}

	params := models.AccountParams{
		Name:     *r.Name,
		Username: *r.Username,
	}
	if r.Balance != nil {
		params.Balance = *r.Balance
	}
	if r.Password != nil {
		params.Credential = *r.Password
	}
	if r.Email != nil {
		params.Contact = *r.Email
	}
	return params, nil
}

type transferRequest struct {
	SenderID   *int64  `json:"sender_id"`
	ReceiverID *int64  `json:"receiver_id"`
	Amount     *int64  `json:"amount"`
	Password   *string `json:"password"`
}

func (r transferRequest) request() (models.TransferRequest, error) {
	switch {
	case r.SenderID == nil:
		return models.TransferRequest{}, fmt.Errorf("%w: sender_id is required", service.ErrInvalidInput)
	case r.ReceiverID == nil:
		return models.TransferRequest{}, fmt.Errorf("%w: receiver_id is required", service.ErrInvalidInput)
	case r.Amount == nil:
		return models.TransferRequest{}, fmt.Errorf("%w: amount is required", service.ErrInvalidInput)
	}

	req := models.TransferRequest{
		SenderID:   *r.SenderID,
		ReceiverID: *r.ReceiverID,
		Amount:     *r.Amount,
	}
	if r.Password != nil {
		req.Credential = *r.Password
	}
	return req, nil
}

// decodeBody parses the JSON body regardless of Content-Type
func decodeBody(c *fiber.Ctx, out any) error {
	if err := c.App().Config().JSONDecoder(c.Body(), out); err != nil {
		return fmt.Errorf("%w: malformed JSON body", service.ErrInvalidInput)
	}
	return nil
}

// accountID reads the :id path parameter. Non-numeric ids cannot match an
// account and are reported as not found.
func accountID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q", service.ErrAccountNotFound, c.Params("id"))
	}
	return id, nil
}
