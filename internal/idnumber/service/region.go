package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"idcard/internal/idnumber/domain"
	dErrors "idcard/pkg/domain-errors"
	"idcard/pkg/platform/sentinel"
)

// resolveRegion fetches the three division names concurrently and joins them
// through the domain's Region rule. Codes the store does not know are left
// out of the table so the domain reports which one is missing.
func (s *Service) resolveRegion(ctx context.Context, n domain.IdentityNumber, sep string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	names := make(domain.RegionNames, 3)
	for _, code := range n.RegionKeys().All() {
		g.Go(func() error {
			name, err := s.regions.Lookup(ctx, code)
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			names[code] = name
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", dErrors.Wrap(err, dErrors.CodeTimeout, "region lookup timed out")
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "region lookup failed")
	}

	return n.Region(names, sep)
}
