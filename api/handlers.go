package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.health(c.UserContext()); err != nil {
		return failure(c, fiber.StatusServiceUnavailable, "database unavailable")
	}
	return success(c, fiber.StatusOK, fiber.Map{"status": "ok"})
}

func (s *Server) handleListAccounts(c *fiber.Ctx) error {
	accounts, err := s.accounts.ListAccounts(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(c *fiber.Ctx) error {
	var body accountRequest
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	params, err := body.params()
	if err != nil {
		return err
	}

	account, err := s.accounts.CreateAccount(c.UserContext(), params)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, account)
}

func (s *Server) handleGetAccount(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	account, err := s.accounts.GetAccount(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, account)
}

func (s *Server) handleUpdateAccount(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	var body accountRequest
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	params, err := body.params()
	if err != nil {
		return err
	}

	account, err := s.accounts.UpdateAccount(c.UserContext(), id, params)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, account)
}

func (s *Server) handleDeleteAccount(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	account, err := s.accounts.DeleteAccount(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, account)
}

func (s *Server) handleTransfer(c *fiber.Ctx) error {
	var body transferRequest
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	req, err := body.request()
	if err != nil {
		return err
	}

	result, err := s.transfers.Transfer(c.UserContext(), req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, result)
}
