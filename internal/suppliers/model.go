package suppliers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ivy-monitoring/supplier-api/internal/store"
)

// Supplier represents a supplier row. Columns the service does not know about are
// kept in Extra and written back untouched.
type Supplier struct {
	ID                  int64
	BusinessName        *string
	Email               *string
	Phone               *string
	Address             *string
	Status              *string
	BusinessDescription *string
	Location            *string
	ServiceType         *string
	ProfileImage        *string
	ProfileBanner       *string
	CreatedAt           *time.Time
	UserID              *string
	Extra               map[string]any
}

// Column names as stored in the suppliers table.
const (
	colID                  = "id"
	colBusinessName        = "business_name"
	colEmail               = "email"
	colPhone               = "phone"
	colAddress             = "address"
	colStatus              = "status"
	colBusinessDescription = "business_description"
	colLocation            = "location"
	colServiceType         = "service_type"
	colProfileImage        = "profile_image"
	colProfileBanner       = "profile_banner"
	colCreatedAt           = "created_at"
	colUserID              = "userId"
)

func (s *Supplier) stringFields() map[string]**string {
	return map[string]**string{
		colBusinessName:        &s.BusinessName,
		colEmail:               &s.Email,
		colPhone:               &s.Phone,
		colAddress:             &s.Address,
		colStatus:              &s.Status,
		colBusinessDescription: &s.BusinessDescription,
		colLocation:            &s.Location,
		colServiceType:         &s.ServiceType,
		colProfileImage:        &s.ProfileImage,
		colProfileBanner:       &s.ProfileBanner,
		colUserID:              &s.UserID,
	}
}

// MarshalJSON emits every known column (null when unset) merged with Extra. A
// known column that arrived in an unexpected shape is kept in Extra and wins over
// the empty typed field.
func (s Supplier) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+13)
	for k, v := range s.Extra {
		out[k] = v
	}
	out[colID] = s.ID
	for name, field := range s.stringFields() {
		setKnown(out, name, *field)
	}
	setKnown(out, colCreatedAt, s.CreatedAt)
	return json.Marshal(out)
}

// UnmarshalJSON accepts any JSON object; unknown keys land in Extra.
func (s *Supplier) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Supplier{}
	fields := s.stringFields()
	for key, value := range raw {
		switch {
		case key == colID:
			id, err := decodeID(value)
			if err != nil {
				return fmt.Errorf("supplier id: %w", err)
			}
			s.ID = id
		case key == colCreatedAt:
			if ts, err := decodeTimestamp(value); err == nil {
				s.CreatedAt = ts
			} else if err := s.keep(key, value); err != nil {
				return err
			}
		case fields[key] != nil:
			if str, err := decodeString(value); err == nil {
				*fields[key] = str
			} else if err := s.keep(key, value); err != nil {
				return err
			}
		default:
			if err := s.keep(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// keep stores a raw column value in Extra untouched.
func (s *Supplier) keep(key string, raw json.RawMessage) error {
	v, err := decodeAny(raw)
	if err != nil {
		return fmt.Errorf("supplier %s: %w", key, err)
	}
	if s.Extra == nil {
		s.Extra = make(map[string]any)
	}
	s.Extra[key] = v
	return nil
}

func setKnown[T any](out map[string]any, name string, v *T) {
	if v == nil {
		if _, ok := out[name]; ok {
			return
		}
	}
	out[name] = v
}

func decodeAny(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeString(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil, err
	}
	return &str, nil
}

func decodeID(raw json.RawMessage) (int64, error) {
	if isNull(raw) {
		return 0, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	return n.Int64()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func decodeTimestamp(raw json.RawMessage) (*time.Time, error) {
	if isNull(raw) {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, err
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("unrecognised timestamp %q", text)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// supplierFromRow converts a store row into a Supplier.
func supplierFromRow(row store.Row) (Supplier, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return Supplier{}, err
	}
	var s Supplier
	if err := json.Unmarshal(raw, &s); err != nil {
		return Supplier{}, err
	}
	return s, nil
}

func suppliersFromRows(rows []store.Row) ([]Supplier, error) {
	out := make([]Supplier, 0, len(rows))
	for _, row := range rows {
		s, err := supplierFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
