package transport

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"

	"github.com/Skotchmaster/content_backend/internal/models"
)

const (
	DefaultContactLimit = 20
	MaxContactLimit     = 100
)

var (
	phoneFiller = regexp.MustCompile(`[\s\-\.\(\)]`)

	errPhoneInternational = errors.New("invalid international phone format (use +<country><number>)")
	errPhoneUS            = errors.New("invalid phone, use +<country><number> or a valid US format, e.g. (650) 253-0000")
)

// NormalizePhone accepts either a "+" prefixed international number, which
// is returned in E.164 form, or a US number, which is returned as given.
func NormalizePhone(raw string) (string, error) {
	compact := phoneFiller.ReplaceAllString(raw, "")
	if strings.HasPrefix(compact, "+") {
		num, err := phonenumbers.Parse(compact, "")
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return "", errPhoneInternational
		}
		return phonenumbers.Format(num, phonenumbers.E164), nil
	}

	num, err := phonenumbers.Parse(raw, "US")
	if err != nil || !phonenumbers.IsValidNumberForRegion(num, "US") {
		return "", errPhoneUS
	}
	return raw, nil
}

type ContactCreateRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Service       *string `json:"service"`
	PreferredTime *string `json:"preferred_time"`
	Message       *string `json:"message"`
	Website       *string `json:"website"`
}

// IsSpam reports whether the hidden website field was filled in.
func (r *ContactCreateRequest) IsSpam() bool {
	return r.Website != nil && strings.TrimSpace(*r.Website) != ""
}

func (r *ContactCreateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)

	err := validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 160)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&r.Phone, validation.Required, validation.Length(7, 20), validation.By(func(v interface{}) error {
			_, err := NormalizePhone(v.(string))
			return err
		})),
		validation.Field(&r.Service, validation.Length(0, 120)),
		validation.Field(&r.PreferredTime, validation.In("morning", "afternoon", "evening")),
		validation.Field(&r.Message, validation.Length(0, 8000)),
	)
	if err != nil {
		return err
	}

	r.Phone, _ = NormalizePhone(r.Phone)
	return nil
}

// Model builds the row to store. Validate must have succeeded.
func (r *ContactCreateRequest) Model() *models.ContactMessage {
	return &models.ContactMessage{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Service:       trimmedOrNil(r.Service),
		PreferredTime: r.PreferredTime,
		Message:       trimmedOrNil(r.Message),
		Status:        models.ContactNew,
	}
}

type ContactListQuery struct {
	Q      string `query:"q"`
	Status string `query:"status"`
	Offset *int   `query:"offset"`
	Limit  *int   `query:"limit"`
}

func (q *ContactListQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Status, validation.In(
			string(models.ContactNew), string(models.ContactRead), string(models.ContactArchived),
		)),
		validation.Field(&q.Offset, validation.Min(0)),
		validation.Field(&q.Limit, validation.By(func(v interface{}) error {
			// Min skips zero values, so the lower bound is checked here.
			if p, ok := v.(*int); ok && p != nil && (*p < 1 || *p > MaxContactLimit) {
				return fmt.Errorf("must be between 1 and %d", MaxContactLimit)
			}
			return nil
		})),
	)
}

func (q *ContactListQuery) Page() (offset, limit int) {
	limit = DefaultContactLimit
	if q.Offset != nil {
		offset = *q.Offset
	}
	if q.Limit != nil {
		limit = *q.Limit
	}
	return offset, limit
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
