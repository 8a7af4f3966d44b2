package entity

import "errors"

var (
	ErrEmailAlreadyExists   = errors.New("email already exists for this organization")
	ErrContactNotFound      = errors.New("contact not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrAgentNotFound        = errors.New("agent not found")
)
