package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"idcard/internal/idnumber/domain"
	"idcard/internal/idnumber/handler/mocks"
	"idcard/internal/idnumber/service"
	dErrors "idcard/pkg/domain-errors"
	"idcard/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

const dec31Female = "11010519491231002X"

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(s.service, logger).Register(r)
	s.router = r
}

func (s *HandlerSuite) post(path string, body any) *http.Request {
	return testutil.WithRequestID(testutil.NewJSONRequest(s.T(), http.MethodPost, path, body), "req-123")
}

func (s *HandlerSuite) TestValidate() {
	s.Run("valid number", func() {
		s.service.EXPECT().Validate(gomock.Any(), dec31Female).
			Return(service.Validation{Valid: true, Format: service.FormatCurrent, Checksum: true})

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/validate", map[string]string{"id_number": " " + dec31Female + " "}))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ValidateResponse](s.T(), rr)
		s.Equal(ValidateResponse{Valid: true, Format: "current", Checksum: true}, *resp)
	})

	s.Run("invalid number is not an HTTP error", func() {
		s.service.EXPECT().Validate(gomock.Any(), "").Return(service.Validation{})

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/validate", map[string]string{"id_number": ""}))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ValidateResponse](s.T(), rr)
		s.False(resp.Valid)
		s.Empty(resp.Format)
	})

	s.Run("oversized input is rejected before the service", func() {
		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/validate", map[string]string{"id_number": strings.Repeat("1", 33)}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("malformed json", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/id-numbers/validate", `{"id_number":`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestInspect() {
	s.Run("returns derived attributes", func() {
		s.service.EXPECT().Inspect(gomock.Any(), service.InspectRequest{
			IDNumber:        dec31Female,
			RegionSeparator: "-",
			ReferenceDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}).Return(&service.Profile{
			Masked:        "1101***********02X",
			Format:        service.FormatCurrent,
			Checksum:      true,
			BirthDate:     time.Date(1949, 12, 31, 0, 0, 0, 0, time.UTC),
			Age:           74,
			Gender:        domain.GenderFemale,
			GenderCode:    2,
			Constellation: domain.SignCapricorn,
			Region:        "北京市-市辖区-朝阳区",
		}, nil)

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/inspect", map[string]string{
			"id_number":        dec31Female,
			"region_separator": "-",
			"reference_date":   "2024-01-01",
		}))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[InspectResponse](s.T(), rr)
		s.Equal(InspectResponse{
			Masked:        "1101***********02X",
			Format:        "current",
			Checksum:      true,
			BirthDate:     "1949-12-31",
			Age:           74,
			Gender:        "female",
			GenderCode:    2,
			Constellation: "capricorn",
			Region:        "北京市-市辖区-朝阳区",
		}, *resp)
		s.NotContains(rr.Body.String(), dec31Female)
	})

	s.Run("default separator", func() {
		s.service.EXPECT().Inspect(gomock.Any(), service.InspectRequest{IDNumber: dec31Female, RegionSeparator: " "}).
			Return(&service.Profile{Format: service.FormatCurrent}, nil)

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/inspect", map[string]string{"id_number": dec31Female}))
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("explicit empty separator is forwarded", func() {
		s.service.EXPECT().Inspect(gomock.Any(), service.InspectRequest{IDNumber: dec31Female, RegionSeparator: ""}).
			Return(&service.Profile{Format: service.FormatCurrent, Region: "北京市市辖区朝阳区"}, nil)

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/inspect", map[string]string{
			"id_number":        dec31Female,
			"region_separator": "",
		}))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "region", "北京市市辖区朝阳区")
	})

	s.Run("bad reference date", func() {
		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/inspect", map[string]string{
			"id_number":      dec31Female,
			"reference_date": "01/01/2024",
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("missing number", func() {
		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/inspect", map[string]string{}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("invalid number", func() {
		s.service.EXPECT().Inspect(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(domain.ErrInvalidIdentityNumber, dErrors.CodeValidation, "identity number failed validation"))

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/inspect", map[string]string{"id_number": "110105199003071230"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("unknown region", func() {
		s.service.EXPECT().Inspect(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(domain.ErrRegionNotFound, dErrors.CodeNotFound, "no region entry for code 110199"))

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/inspect", map[string]string{"id_number": "110199199003071239"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("region backend down", func() {
		s.service.EXPECT().Inspect(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "region lookup failed"))

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/inspect", map[string]string{"id_number": dec31Female}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "unavailable")
	})
}

func (s *HandlerSuite) TestBirth() {
	s.Run("passes formats through", func() {
		s.service.EXPECT().Birth(gomock.Any(), service.BirthRequest{
			IDNumber: dec31Female,
			Year:     domain.YearTwoDigit,
			Month:    domain.MonthShortName,
			Day:      domain.DayOrdinalSuffix,
		}).Return(&service.BirthParts{Year: "49", Month: "Dec", Day: "st"}, nil)

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/birth", map[string]string{
			"id_number":    dec31Female,
			"year_format":  "y",
			"month_format": "M",
			"day_format":   "S",
		}))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[BirthResponse](s.T(), rr)
		s.Equal(BirthResponse{Year: "49", Month: "Dec", Day: "st"}, *resp)
	})

	s.Run("unknown token", func() {
		s.service.EXPECT().Birth(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(domain.ErrInvalidArgument, dErrors.CodeInvalidInput, `unsupported month format "Q"`))

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/birth", map[string]string{"id_number": dec31Female, "month_format": "Q"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestMask() {
	s.Run("defaults", func() {
		s.service.EXPECT().Mask(gomock.Any(), service.MaskRequest{IDNumber: dec31Female, Replacement: "*", Left: 4, Right: 3}).
			Return("1101***********02X", nil)

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/mask", map[string]string{"id_number": dec31Female}))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "masked", "1101***********02X")
	})

	s.Run("overrides including zero counts", func() {
		s.service.EXPECT().Mask(gomock.Any(), service.MaskRequest{IDNumber: dec31Female, Replacement: "#", Left: 0, Right: 0}).
			Return(strings.Repeat("#", 18), nil)

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/mask", map[string]any{
			"id_number":   dec31Female,
			"replacement": "#",
			"left":        0,
			"right":       0,
		}))
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("negative counts", func() {
		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/mask", map[string]any{"id_number": dec31Female, "left": -1}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("empty replacement", func() {
		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/mask", map[string]any{"id_number": dec31Female, "replacement": ""}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *HandlerSuite) TestUpgrade() {
	s.Run("returns the 18-character number", func() {
		s.service.EXPECT().Upgrade(gomock.Any(), "110105491231002").
			Return(domain.MustParse(dec31Female, nil), nil)

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/upgrade", map[string]string{"id_number": "110105491231002"}))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "id_number", dec31Female)
	})

	s.Run("invalid number", func() {
		s.service.EXPECT().Upgrade(gomock.Any(), "110105491231").
			Return(domain.IdentityNumber{}, dErrors.Wrap(domain.ErrInvalidIdentityNumber, dErrors.CodeValidation, "identity number failed validation"))

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/upgrade", map[string]string{"id_number": "110105491231"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("legacy number with a non-digit sequence", func() {
		s.service.EXPECT().Upgrade(gomock.Any(), "11010549123100X").
			Return(domain.IdentityNumber{}, dErrors.Wrap(domain.ErrNotUpgradable, dErrors.CodeInvariantViolation,
				"sequence characters must be digits to compute a check character"))

		rr := testutil.DoRequest(s.router, s.post("/v1/id-numbers/upgrade", map[string]string{"id_number": "11010549123100X"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "invariant_violation")
	})
}

func (s *HandlerSuite) TestOnlyPostIsRouted() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/id-numbers/validate"))
	assert.Equal(s.T(), http.StatusMethodNotAllowed, rr.Code)
}

