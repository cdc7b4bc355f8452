package handler

import (
	"time"

	"idcard/internal/idnumber/service"
)

type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Format   string `json:"format,omitempty"`
	Checksum bool   `json:"checksum"`
}

type InspectResponse struct {
	Masked        string `json:"masked"`
	Format        string `json:"format"`
	Checksum      bool   `json:"checksum"`
	BirthDate     string `json:"birth_date"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	GenderCode    int    `json:"gender_code"`
	Constellation string `json:"constellation"`
	Region        string `json:"region"`
}

type BirthResponse struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

type MaskResponse struct {
	Masked string `json:"masked"`
}

type UpgradeResponse struct {
	IDNumber string `json:"id_number"`
}

func fromValidation(v service.Validation) ValidateResponse {
	return ValidateResponse{Valid: v.Valid, Format: string(v.Format), Checksum: v.Checksum}
}

func fromProfile(p *service.Profile) InspectResponse {
	return InspectResponse{
		Masked:        p.Masked,
		Format:        string(p.Format),
		Checksum:      p.Checksum,
		BirthDate:     p.BirthDate.Format(time.DateOnly),
		Age:           p.Age,
		Gender:        string(p.Gender),
		GenderCode:    p.GenderCode,
		Constellation: string(p.Constellation),
		Region:        p.Region,
	}
}

func fromBirthParts(b *service.BirthParts) BirthResponse {
	return BirthResponse{Year: b.Year, Month: b.Month, Day: b.Day}
}
