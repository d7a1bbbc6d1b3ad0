package edbo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RegionUniversities pairs a region with its university listing.
type RegionUniversities struct {
	Region       Region
	Universities []UniversityBrief
}

// DefaultBatchConcurrency bounds parallel registry requests during fan-out.
// The registry throttles clients, so the default stays low.
const DefaultBatchConcurrency = 4

// UniversitiesByRegions fetches the university listing for every given
// region concurrently. Results preserve the input region order. The first
// failing region cancels the remaining fetches and its error is returned.
// concurrency <= 0 selects DefaultBatchConcurrency.
func (c *Client) UniversitiesByRegions(ctx context.Context, category UniversityCategory, regions []Region, concurrency int) ([]RegionUniversities, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]RegionUniversities, len(regions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, region := range regions {
		g.Go(func() error {
			params := NewSearchParams().
				WithRegion(region).
				WithUniversityCategory(category)
			list, err := c.Universities(ctx, params)
			if err != nil {
				return err
			}
			results[i] = RegionUniversities{Region: region, Universities: list}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RegionInstitutions pairs a region with its institution listing.
type RegionInstitutions struct {
	Region       Region
	Institutions []Institution
}

// InstitutionsByRegions fetches the institution listing for every given
// region concurrently, with the same ordering and cancellation semantics as
// UniversitiesByRegions.
func (c *Client) InstitutionsByRegions(ctx context.Context, category InstitutionCategory, regions []Region, concurrency int) ([]RegionInstitutions, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]RegionInstitutions, len(regions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, region := range regions {
		g.Go(func() error {
			params := NewSearchParams().
				WithRegion(region).
				WithInstitutionCategory(category)
			list, err := c.Institutions(ctx, params)
			if err != nil {
				return err
			}
			results[i] = RegionInstitutions{Region: region, Institutions: list}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
