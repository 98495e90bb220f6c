package suppliers

import (
	"strings"

	"github.com/ivy-monitoring/supplier-api/internal/platform/httpx"
)

// Status values a supplier may hold.
const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusActive   = "active"
)

// ValidStatuses lists the accepted status values in display order.
var ValidStatuses = []string{StatusDraft, StatusPending, StatusApproved, StatusActive}

// StatusUpdate is the payload of the status endpoint.
type StatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=draft pending approved active"`
}

var errInvalidStatus = httpx.Errorf(httpx.ErrValidation, "Invalid status. Must be one of: "+strings.Join(ValidStatuses, ", "))

func (s *Service) validateStatus(update StatusUpdate) error {
	if err := s.validator.Struct(update); err != nil {
		return errInvalidStatus
	}
	return nil
}

// writableFields drops the identity column; a supplier id never changes.
func writableFields(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if k == colID {
			continue
		}
		out[k] = v
	}
	return out
}
