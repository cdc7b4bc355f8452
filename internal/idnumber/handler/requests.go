package handler

import (
	"strings"
	"time"
	"unicode/utf8"

	"idcard/internal/idnumber/domain"
	"idcard/internal/idnumber/service"
	dErrors "idcard/pkg/domain-errors"
)

// maxIDNumberLength rejects oversized input before it reaches the parser.
const maxIDNumberLength = 32

const maxReplacementLength = 8

func checkIDNumber(raw string, required bool) (string, error) {
	if len(raw) > maxIDNumberLength {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "id_number must be at most %d characters", maxIDNumberLength)
	}
	raw = strings.TrimSpace(raw)
	if required && raw == "" {
		return "", dErrors.New(dErrors.CodeValidation, "id_number is required")
	}
	return raw, nil
}

// ValidateRequest is the HTTP request body for POST /v1/id-numbers/validate.
type ValidateRequest struct {
	IDNumber string `json:"id_number"`
}

// Validate implements httputil.Validatable. An empty number is not an error
// here: it is simply reported as invalid.
func (r *ValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	r.IDNumber, err = checkIDNumber(r.IDNumber, false)
	return err
}

// IDNumberRequest is the HTTP request body for endpoints taking only a number.
type IDNumberRequest struct {
	IDNumber string `json:"id_number"`
}

func (r *IDNumberRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	r.IDNumber, err = checkIDNumber(r.IDNumber, true)
	return err
}

// InspectRequest is the HTTP request body for POST /v1/id-numbers/inspect.
type InspectRequest struct {
	IDNumber        string  `json:"id_number"`
	RegionSeparator *string `json:"region_separator,omitempty"`
	ReferenceDate   string  `json:"reference_date,omitempty"` // YYYY-MM-DD

	parsedReference time.Time
}

func (r *InspectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	if r.IDNumber, err = checkIDNumber(r.IDNumber, true); err != nil {
		return err
	}
	if r.RegionSeparator != nil && utf8.RuneCountInString(*r.RegionSeparator) > maxReplacementLength {
		return dErrors.Newf(dErrors.CodeValidation, "region_separator must be at most %d characters", maxReplacementLength)
	}
	if ref := strings.TrimSpace(r.ReferenceDate); ref != "" {
		r.parsedReference, err = time.Parse(time.DateOnly, ref)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "reference_date must be formatted as YYYY-MM-DD")
		}
	}
	return nil
}

// ToService converts the request into the service input.
func (r *InspectRequest) ToService() service.InspectRequest {
	sep := domain.DefaultRegionSeparator
	if r.RegionSeparator != nil {
		sep = *r.RegionSeparator
	}
	return service.InspectRequest{
		IDNumber:        r.IDNumber,
		RegionSeparator: sep,
		ReferenceDate:   r.parsedReference,
	}
}

// BirthRequest is the HTTP request body for POST /v1/id-numbers/birth.
type BirthRequest struct {
	IDNumber    string `json:"id_number"`
	YearFormat  string `json:"year_format,omitempty"`
	MonthFormat string `json:"month_format,omitempty"`
	DayFormat   string `json:"day_format,omitempty"`
}

func (r *BirthRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	r.IDNumber, err = checkIDNumber(r.IDNumber, true)
	return err
}

// ToService converts the request into the service input. Unknown tokens are
// rejected by the domain.
func (r *BirthRequest) ToService() service.BirthRequest {
	return service.BirthRequest{
		IDNumber: r.IDNumber,
		Year:     domain.YearFormat(r.YearFormat),
		Month:    domain.MonthFormat(r.MonthFormat),
		Day:      domain.DayFormat(r.DayFormat),
	}
}

// MaskRequest is the HTTP request body for POST /v1/id-numbers/mask.
type MaskRequest struct {
	IDNumber    string  `json:"id_number"`
	Replacement *string `json:"replacement,omitempty"`
	Left        *int    `json:"left,omitempty"`
	Right       *int    `json:"right,omitempty"`
}

func (r *MaskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	if r.IDNumber, err = checkIDNumber(r.IDNumber, true); err != nil {
		return err
	}
	if r.Replacement != nil {
		if n := utf8.RuneCountInString(*r.Replacement); n == 0 || n > maxReplacementLength {
			return dErrors.Newf(dErrors.CodeValidation, "replacement must be 1 to %d characters", maxReplacementLength)
		}
	}
	if (r.Left != nil && *r.Left < 0) || (r.Right != nil && *r.Right < 0) {
		return dErrors.New(dErrors.CodeValidation, "left and right must not be negative")
	}
	return nil
}

// ToService fills absent fields with the default mask.
func (r *MaskRequest) ToService() service.MaskRequest {
	req := service.MaskRequest{
		IDNumber:    r.IDNumber,
		Replacement: domain.DefaultMaskReplacement,
		Left:        domain.DefaultMaskLeft,
		Right:       domain.DefaultMaskRight,
	}
	if r.Replacement != nil {
		req.Replacement = *r.Replacement
	}
	if r.Left != nil {
		req.Left = *r.Left
	}
	if r.Right != nil {
		req.Right = *r.Right
	}
	return req
}
