package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"idcard/internal/idnumber/domain"
	"idcard/internal/idnumber/metrics"
	dErrors "idcard/pkg/domain-errors"
	"idcard/pkg/platform/privacy"
	"idcard/pkg/requestcontext"
)

const tracerName = "idcard/internal/idnumber/service"

// RegionStore resolves a 6-digit division code to its name. Unknown codes
// return an error wrapping sentinel.ErrNotFound.
type RegionStore interface {
	Lookup(ctx context.Context, code string) (string, error)
}

// Service parses identity numbers and derives their attributes. Parsing and
// derivation are pure; only region names are fetched through RegionStore.
type Service struct {
	registry      domain.ProvinceRegistry
	regions       RegionStore
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	lookupTimeout time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithLookupTimeout bounds the region resolution of a single Inspect call.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.lookupTimeout = d
	}
}

// New constructs a Service. registry decides which 15-character numbers are
// acceptable; regions resolves names for Inspect.
func New(registry domain.ProvinceRegistry, regions RegionStore, opts ...Option) *Service {
	s := &Service{
		registry:      registry,
		regions:       regions,
		logger:        slog.Default(),
		tracer:        otel.Tracer(tracerName),
		lookupTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate reports whether raw is a valid identity number. It never fails:
// an invalid number is a normal outcome.
func (s *Service) Validate(ctx context.Context, raw string) Validation {
	const op = "validate"
	ctx, span := s.start(ctx, op)
	defer span.End()
	defer s.observe(op, time.Now())

	n, err := domain.Parse(raw, s.registry)
	if err != nil {
		s.metrics.IncrementOutcome(op, metrics.OutcomeInvalid)
		span.SetAttributes(attribute.Bool("idnumber.valid", false))
		s.logger.DebugContext(ctx, "identity number rejected",
			"request_id", requestcontext.RequestID(ctx),
			"id_number", privacy.RedactIdentifier(raw),
		)
		return Validation{}
	}

	s.recordParsed(span, n)
	s.metrics.IncrementOutcome(op, metrics.OutcomeValid)
	span.SetAttributes(attribute.Bool("idnumber.valid", true))
	return Validation{Valid: true, Format: formatOf(n), Checksum: !n.Legacy()}
}

// Inspect parses the number and derives every attribute, including the
// region name. A valid number whose region is unknown fails with a
// CodeNotFound error wrapping domain.ErrRegionNotFound.
func (s *Service) Inspect(ctx context.Context, req InspectRequest) (*Profile, error) {
	const op = "inspect"
	ctx, span := s.start(ctx, op)
	defer span.End()
	defer s.observe(op, time.Now())

	n, err := s.parse(ctx, op, span, req.IDNumber)
	if err != nil {
		return nil, err
	}

	region, err := s.resolveRegion(ctx, n, req.RegionSeparator)
	if err != nil {
		return nil, s.fail(ctx, op, span, err)
	}

	reference := req.ReferenceDate
	if reference.IsZero() {
		reference = requestcontext.Now(ctx)
	}
	gender := n.Gender()

	s.metrics.IncrementOutcome(op, metrics.OutcomeValid)
	return &Profile{
		Masked:        n.Masked(),
		Format:        formatOf(n),
		Checksum:      !n.Legacy(),
		BirthDate:     n.BirthDate(),
		Age:           n.Age(reference),
		Gender:        gender,
		GenderCode:    gender.Code(),
		Constellation: n.Constellation(),
		Region:        region,
	}, nil
}

// Birth formats the birth date components. Empty formats fall back to Y, m
// and d.
func (s *Service) Birth(ctx context.Context, req BirthRequest) (*BirthParts, error) {
	const op = "birth"
	ctx, span := s.start(ctx, op)
	defer span.End()
	defer s.observe(op, time.Now())

	n, err := s.parse(ctx, op, span, req.IDNumber)
	if err != nil {
		return nil, err
	}

	if req.Year == "" {
		req.Year = domain.YearFull
	}
	if req.Month == "" {
		req.Month = domain.MonthZeroPadded
	}
	if req.Day == "" {
		req.Day = domain.DayZeroPadded
	}

	var parts BirthParts
	if parts.Year, err = n.BirthYear(req.Year); err != nil {
		return nil, s.fail(ctx, op, span, err)
	}
	if parts.Month, err = n.BirthMonth(req.Month); err != nil {
		return nil, s.fail(ctx, op, span, err)
	}
	if parts.Day, err = n.BirthDay(req.Day); err != nil {
		return nil, s.fail(ctx, op, span, err)
	}

	s.metrics.IncrementOutcome(op, metrics.OutcomeValid)
	return &parts, nil
}

// Mask returns the masked form of a valid number. An empty replacement
// means the default "*".
func (s *Service) Mask(ctx context.Context, req MaskRequest) (string, error) {
	const op = "mask"
	ctx, span := s.start(ctx, op)
	defer span.End()
	defer s.observe(op, time.Now())

	if req.Left < 0 || req.Right < 0 {
		return "", s.fail(ctx, op, span,
			dErrors.Wrap(domain.ErrInvalidArgument, dErrors.CodeInvalidInput, "left and right must not be negative"))
	}

	n, err := s.parse(ctx, op, span, req.IDNumber)
	if err != nil {
		return "", err
	}

	if req.Replacement == "" {
		req.Replacement = domain.DefaultMaskReplacement
	}
	s.metrics.IncrementOutcome(op, metrics.OutcomeValid)
	return n.Mask(req.Replacement, req.Left, req.Right), nil
}

// Upgrade converts a valid 15-character number to its 18-character form.
// 18-character numbers are returned unchanged. A legacy number with a
// non-digit sequence fails with domain.ErrNotUpgradable.
func (s *Service) Upgrade(ctx context.Context, raw string) (domain.IdentityNumber, error) {
	const op = "upgrade"
	ctx, span := s.start(ctx, op)
	defer span.End()
	defer s.observe(op, time.Now())

	n, err := s.parse(ctx, op, span, raw)
	if err != nil {
		return domain.IdentityNumber{}, err
	}

	upgraded, err := n.Upgrade()
	if err != nil {
		return domain.IdentityNumber{}, s.fail(ctx, op, span, err)
	}

	s.metrics.IncrementOutcome(op, metrics.OutcomeValid)
	return upgraded, nil
}

func (s *Service) parse(ctx context.Context, op string, span trace.Span, raw string) (domain.IdentityNumber, error) {
	n, err := domain.Parse(raw, s.registry)
	if err != nil {
		s.logger.InfoContext(ctx, "identity number rejected",
			"request_id", requestcontext.RequestID(ctx),
			"operation", op,
			"id_number", privacy.RedactIdentifier(raw),
		)
		return domain.IdentityNumber{}, s.fail(ctx, op, span, err)
	}
	s.recordParsed(span, n)
	return n, nil
}

func (s *Service) recordParsed(span trace.Span, n domain.IdentityNumber) {
	format := string(formatOf(n))
	s.metrics.IncrementFormat(format)
	span.SetAttributes(attribute.String("idnumber.format", format))
}

// fail records err against op and returns it unchanged.
func (s *Service) fail(ctx context.Context, op string, span trace.Span, err error) error {
	outcome := outcomeOf(err)
	s.metrics.IncrementOutcome(op, outcome)
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	if outcome == metrics.OutcomeError {
		s.logger.ErrorContext(ctx, "identity number operation failed",
			"request_id", requestcontext.RequestID(ctx),
			"operation", op,
			"error", err,
		)
	}
	return err
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentityNumber):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrRegionNotFound):
		return metrics.OutcomeRegionMissing
	case errors.Is(err, domain.ErrInvalidArgument):
		return metrics.OutcomeBadArgument
	case errors.Is(err, domain.ErrNotUpgradable):
		return metrics.OutcomeNotUpgradable
	default:
		return metrics.OutcomeError
	}
}

func (s *Service) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "idnumber."+op)
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.ObserveLatency(op, time.Since(start))
}
