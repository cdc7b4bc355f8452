package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idcard/internal/idnumber/domain"
	"idcard/internal/idnumber/metrics"
	"idcard/internal/region/store"
	dErrors "idcard/pkg/domain-errors"
	"idcard/pkg/platform/sentinel"
	"idcard/pkg/requestcontext"
	"idcard/pkg/testutil"
)

const (
	dec31Female       = "11010519491231002X"
	mar07Male         = "110105199003071239"
	unknownDistrict   = "110199199003071239"
	legacyDec31Female = "110105491231002"
	legacyLetterTail  = "11010549123100X"
	badChecksum       = "110105199003071230"
)

// lookupFunc adapts a function to RegionStore.
type lookupFunc func(ctx context.Context, code string) (string, error)

func (f lookupFunc) Lookup(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}

func newService(t *testing.T, regions RegionStore) (*Service, *metrics.Metrics) {
	t.Helper()
	table, err := store.DefaultTable(nil)
	require.NoError(t, err)
	if regions == nil {
		regions = table
	}
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	svc := New(table, regions,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(m),
	)
	return svc, m
}

func TestValidate(t *testing.T) {
	svc, m := newService(t, nil)
	ctx := context.Background()

	testutil.Given(t, "an 18-character number with a correct checksum", func(t *testing.T) {
		res := svc.Validate(ctx, dec31Female)
		testutil.Then(t, "it is valid and checksum-protected", func(t *testing.T) {
			assert.Equal(t, Validation{Valid: true, Format: FormatCurrent, Checksum: true}, res)
		})
	})

	testutil.Given(t, "a 15-character number from a known division", func(t *testing.T) {
		res := svc.Validate(ctx, legacyDec31Female)
		testutil.Then(t, "it is valid without a checksum guarantee", func(t *testing.T) {
			assert.Equal(t, Validation{Valid: true, Format: FormatLegacy, Checksum: false}, res)
		})
	})

	testutil.Given(t, "malformed input", func(t *testing.T) {
		for _, raw := range []string{"", badChecksum, "12345", "11010519491231002Y"} {
			assert.Equal(t, Validation{}, svc.Validate(ctx, raw), raw)
		}
	})

	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.Outcomes.WithLabelValues("validate", metrics.OutcomeValid)))
	assert.Equal(t, 4.0, promtestutil.ToFloat64(m.Outcomes.WithLabelValues("validate", metrics.OutcomeInvalid)))
}

func TestInspect(t *testing.T) {
	svc, m := newService(t, nil)

	testutil.Given(t, "a valid number and a request time", func(t *testing.T) {
		ctx := requestcontext.WithTime(context.Background(), time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC))

		testutil.When(t, "inspecting with defaults", func(t *testing.T) {
			p, err := svc.Inspect(ctx, InspectRequest{IDNumber: dec31Female, RegionSeparator: domain.DefaultRegionSeparator})
			require.NoError(t, err)

			testutil.Then(t, "every attribute is derived and the raw value is masked", func(t *testing.T) {
				assert.Equal(t, "1101***********02X", p.Masked)
				assert.Equal(t, FormatCurrent, p.Format)
				assert.True(t, p.Checksum)
				assert.Equal(t, time.Date(1949, 12, 31, 0, 0, 0, 0, time.UTC), p.BirthDate)
				assert.Equal(t, 74, p.Age, "birthday not yet reached on the request date")
				assert.Equal(t, domain.GenderFemale, p.Gender)
				assert.Equal(t, 2, p.GenderCode)
				assert.Equal(t, domain.SignCapricorn, p.Constellation)
				assert.Equal(t, "北京市 市辖区 朝阳区", p.Region)
			})
		})

		testutil.When(t, "an explicit reference date and separator are given", func(t *testing.T) {
			p, err := svc.Inspect(ctx, InspectRequest{
				IDNumber:        mar07Male,
				RegionSeparator: "/",
				ReferenceDate:   time.Date(2020, 3, 7, 0, 0, 0, 0, time.UTC),
			})
			require.NoError(t, err)

			testutil.Then(t, "they override the defaults", func(t *testing.T) {
				assert.Equal(t, 30, p.Age)
				assert.Equal(t, domain.GenderMale, p.Gender)
				assert.Equal(t, domain.SignPisces, p.Constellation)
				assert.Equal(t, "北京市/市辖区/朝阳区", p.Region)
			})
		})

		testutil.When(t, "the separator is empty", func(t *testing.T) {
			p, err := svc.Inspect(ctx, InspectRequest{IDNumber: dec31Female})
			require.NoError(t, err)

			testutil.Then(t, "the names are joined without a separator", func(t *testing.T) {
				assert.Equal(t, "北京市市辖区朝阳区", p.Region)
			})
		})
	})

	testutil.Given(t, "a valid number whose district has no entry", func(t *testing.T) {
		_, err := svc.Inspect(context.Background(), InspectRequest{IDNumber: unknownDistrict})

		testutil.Then(t, "it fails with region not found", func(t *testing.T) {
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRegionNotFound)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
			assert.Contains(t, err.Error(), "110199")
		})
	})

	testutil.Given(t, "an invalid number", func(t *testing.T) {
		_, err := svc.Inspect(context.Background(), InspectRequest{IDNumber: badChecksum})

		testutil.Then(t, "it fails validation", func(t *testing.T) {
			assert.ErrorIs(t, err, domain.ErrInvalidIdentityNumber)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	})

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Outcomes.WithLabelValues("inspect", metrics.OutcomeRegionMissing)))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Outcomes.WithLabelValues("inspect", metrics.OutcomeInvalid)))
}

func TestInspect_RegionStoreFailures(t *testing.T) {
	t.Run("backend errors are unavailable", func(t *testing.T) {
		svc, m := newService(t, lookupFunc(func(context.Context, string) (string, error) {
			return "", sentinel.ErrUnavailable
		}))
		_, err := svc.Inspect(context.Background(), InspectRequest{IDNumber: dec31Female})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
		assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Outcomes.WithLabelValues("inspect", metrics.OutcomeError)))
	})

	t.Run("slow lookups time out", func(t *testing.T) {
		svc, _ := newService(t, lookupFunc(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}))
		WithLookupTimeout(10 * time.Millisecond)(svc)

		_, err := svc.Inspect(context.Background(), InspectRequest{IDNumber: dec31Female})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeTimeout))
	})

	t.Run("all three keys are looked up", func(t *testing.T) {
		var (
			mu   sync.Mutex
			seen []string
		)
		svc, _ := newService(t, lookupFunc(func(_ context.Context, code string) (string, error) {
			mu.Lock()
			seen = append(seen, code)
			mu.Unlock()
			return "n" + code, nil
		}))
		p, err := svc.Inspect(context.Background(), InspectRequest{IDNumber: dec31Female, RegionSeparator: " "})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"110000", "110100", "110105"}, seen)
		assert.Equal(t, "n110000 n110100 n110105", p.Region)
	})

	t.Run("not found from the store is a missing region", func(t *testing.T) {
		svc, _ := newService(t, lookupFunc(func(_ context.Context, code string) (string, error) {
			if code == "110100" {
				return "", errors.Join(errors.New("region 110100"), sentinel.ErrNotFound)
			}
			return "x", nil
		}))
		_, err := svc.Inspect(context.Background(), InspectRequest{IDNumber: dec31Female})
		assert.ErrorIs(t, err, domain.ErrRegionNotFound)
		assert.Contains(t, err.Error(), "110100")
	})
}

func TestBirth(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		parts, err := svc.Birth(ctx, BirthRequest{IDNumber: dec31Female})
		require.NoError(t, err)
		assert.Equal(t, BirthParts{Year: "1949", Month: "12", Day: "31"}, *parts)
	})

	t.Run("explicit formats", func(t *testing.T) {
		parts, err := svc.Birth(ctx, BirthRequest{
			IDNumber: mar07Male,
			Year:     domain.YearTwoDigit,
			Month:    domain.MonthFullName,
			Day:      domain.DayFullWeekday,
		})
		require.NoError(t, err)
		assert.Equal(t, BirthParts{Year: "90", Month: "March", Day: "Wednesday"}, *parts)
	})

	t.Run("legacy numbers read the 19xx century", func(t *testing.T) {
		parts, err := svc.Birth(ctx, BirthRequest{IDNumber: legacyDec31Female, Year: domain.YearFull})
		require.NoError(t, err)
		assert.Equal(t, "1949", parts.Year)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.Birth(ctx, BirthRequest{IDNumber: dec31Female, Month: "Q"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("invalid number", func(t *testing.T) {
		_, err := svc.Birth(ctx, BirthRequest{IDNumber: badChecksum})
		assert.ErrorIs(t, err, domain.ErrInvalidIdentityNumber)
	})
}

func TestMask(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     MaskRequest
		want    string
		wantErr error
	}{
		{name: "defaults", req: MaskRequest{IDNumber: dec31Female, Left: 4, Right: 3}, want: "1101***********02X"},
		{name: "custom replacement", req: MaskRequest{IDNumber: dec31Female, Replacement: "#", Left: 6, Right: 4}, want: "110105########002X"},
		{name: "nothing hidden", req: MaskRequest{IDNumber: dec31Female, Left: 10, Right: 8}, want: dec31Female},
		{name: "legacy", req: MaskRequest{IDNumber: legacyDec31Female, Left: 4, Right: 3}, want: "1101********002"},
		{name: "negative count", req: MaskRequest{IDNumber: dec31Female, Left: -1, Right: 3}, wantErr: domain.ErrInvalidArgument},
		{name: "invalid number", req: MaskRequest{IDNumber: badChecksum, Left: 4, Right: 3}, wantErr: domain.ErrInvalidIdentityNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Mask(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpgrade(t *testing.T) {
	svc, m := newService(t, nil)
	ctx := context.Background()

	testutil.Given(t, "a 15-character number", func(t *testing.T) {
		n, err := svc.Upgrade(ctx, legacyDec31Female)
		require.NoError(t, err)
		testutil.Then(t, "it gains the 19 century and a check character", func(t *testing.T) {
			assert.Equal(t, dec31Female, n.Value())
			assert.False(t, n.Legacy())
		})
	})

	testutil.Given(t, "an 18-character number", func(t *testing.T) {
		n, err := svc.Upgrade(ctx, mar07Male)
		require.NoError(t, err)
		testutil.Then(t, "it is returned unchanged", func(t *testing.T) {
			assert.Equal(t, mar07Male, n.Value())
		})
	})

	testutil.Given(t, "an invalid number", func(t *testing.T) {
		_, err := svc.Upgrade(ctx, "110105491231")
		assert.ErrorIs(t, err, domain.ErrInvalidIdentityNumber)
	})

	testutil.Given(t, "a 15-character number with a letter in its sequence", func(t *testing.T) {
		assert.True(t, svc.Validate(ctx, legacyLetterTail).Valid)
		_, err := svc.Upgrade(ctx, legacyLetterTail)
		testutil.Then(t, "it cannot be upgraded", func(t *testing.T) {
			require.ErrorIs(t, err, domain.ErrNotUpgradable)
			assert.Equal(t, dErrors.CodeInvariantViolation, dErrors.CodeOf(err))
			assert.Equal(t, 1.0, promtestutil.ToFloat64(
				m.Outcomes.WithLabelValues("upgrade", metrics.OutcomeNotUpgradable)))
		})
	})
}
