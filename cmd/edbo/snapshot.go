package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	edbo "github.com/edbo-tools/edbo-go"
	xlog "github.com/edbo-tools/edbo-go/internal/log"
	"github.com/edbo-tools/edbo-go/internal/snapshot"
)

// cmdSnapshot manages the local Badger snapshot store: it fetches the
// university or institution listing for every region, lists stored keys,
// or prints a stored record back.
func cmdSnapshot(args []string) int {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	cf := registerClientFlags(fs)
	dir := fs.String("dir", "edbo-snapshot", "snapshot store directory")
	institutions := fs.Bool("institutions", false, "snapshot secondary institutions instead of universities")
	category := fs.Int("category", 0, "category code (default: higher education, or general secondary with -institutions)")
	concurrency := fs.Int("concurrency", edbo.DefaultBatchConcurrency, "parallel registry requests")
	list := fs.Bool("list", false, "print stored snapshot keys and exit")
	show := fs.Bool("show", false, "print the stored record for -region and exit")
	region := fs.Int("region", 0, "region code for -show (see 'edbo regions')")
	_ = fs.Parse(args)

	if *category == 0 {
		if *institutions {
			*category = int(edbo.CategoryGeneralSecondary)
		} else {
			*category = int(edbo.CategoryHigherEducation)
		}
	}

	store, err := snapshot.Open(*dir)
	if err != nil {
		return fail(err)
	}
	logger := xlog.WithComponent("snapshot")
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing snapshot store failed")
		}
	}()

	switch {
	case *list:
		return snapshotList(store)
	case *show:
		return snapshotShow(store, *institutions, edbo.Region(*region), *category)
	case *institutions:
		return snapshotInstitutions(cf, store, logger, edbo.InstitutionCategory(*category), *concurrency)
	default:
		return snapshotUniversities(cf, store, logger, edbo.UniversityCategory(*category), *concurrency)
	}
}

func snapshotUniversities(cf *clientFlags, store *snapshot.Store, logger zerolog.Logger, cat edbo.UniversityCategory, concurrency int) int {
	client, err := cf.client()
	if err != nil {
		return fail(err)
	}

	regions := edbo.Regions()
	start := time.Now()
	results, err := client.UniversitiesByRegions(context.Background(), cat, regions, concurrency)
	if err != nil {
		return fail(err)
	}

	total := 0
	fetchedAt := time.Now()
	for _, res := range results {
		rec := &snapshot.UniversityRecord{
			Region:       res.Region,
			Category:     cat,
			FetchedAt:    fetchedAt,
			Universities: res.Universities,
		}
		if err := store.PutUniversities(rec); err != nil {
			return fail(err)
		}
		total += len(res.Universities)
		logger.Info().
			Int("region", int(res.Region)).
			Int("count", len(res.Universities)).
			Msg("region stored")
	}

	fmt.Fprintf(os.Stderr, "snapshot: %d universities across %d regions in %s\n",
		total, len(regions), time.Since(start).Round(time.Millisecond))
	return 0
}

func snapshotInstitutions(cf *clientFlags, store *snapshot.Store, logger zerolog.Logger, cat edbo.InstitutionCategory, concurrency int) int {
	client, err := cf.client()
	if err != nil {
		return fail(err)
	}

	regions := edbo.Regions()
	start := time.Now()
	results, err := client.InstitutionsByRegions(context.Background(), cat, regions, concurrency)
	if err != nil {
		return fail(err)
	}

	total := 0
	fetchedAt := time.Now()
	for _, res := range results {
		rec := &snapshot.InstitutionRecord{
			Region:       res.Region,
			Category:     cat,
			FetchedAt:    fetchedAt,
			Institutions: res.Institutions,
		}
		if err := store.PutInstitutions(rec); err != nil {
			return fail(err)
		}
		total += len(res.Institutions)
		logger.Info().
			Int("region", int(res.Region)).
			Int("count", len(res.Institutions)).
			Msg("region stored")
	}

	fmt.Fprintf(os.Stderr, "snapshot: %d institutions across %d regions in %s\n",
		total, len(regions), time.Since(start).Round(time.Millisecond))
	return 0
}

func snapshotList(store *snapshot.Store) int {
	keys, err := store.Keys()
	if err != nil {
		return fail(err)
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	fmt.Fprintf(os.Stderr, "%d snapshots\n", len(keys))
	return 0
}

func snapshotShow(store *snapshot.Store, institutions bool, region edbo.Region, category int) int {
	if !region.Valid() {
		return fail(fmt.Errorf("snapshot: -show needs a valid -region (see 'edbo regions')"))
	}

	if institutions {
		rec, err := store.GetInstitutions(region, edbo.InstitutionCategory(category))
		if err != nil {
			return fail(err)
		}
		return printJSON(rec)
	}

	rec, err := store.GetUniversities(region, edbo.UniversityCategory(category))
	if err != nil {
		return fail(err)
	}
	return printJSON(rec)
}
