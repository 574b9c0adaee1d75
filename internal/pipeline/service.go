package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/series-resampler/internal/series"
)

// Service orchestrates fetching from sources, normalizing payloads and
// resampling stored series on request.
type Service struct {
	store    Store
	sources  []Source
	defaults []series.Option
	now      func() time.Time
}

// NewService creates a new Service. defaults configure every resampler the
// service builds; per-request options are applied on top.
func NewService(store Store, sources []Source, defaults ...series.Option) *Service {
	return &Service{
		store:    store,
		sources:  sources,
		defaults: defaults,
		now:      time.Now,
	}
}

// Normalize turns a fetched payload into its series, keyed by identifier.
func Normalize(p Payload) (map[string]series.Series, error) {
	if p.Readings != nil {
		return series.NormalizeReadings(p.ID, p.Frequency, p.Readings)
	}
	s, err := series.Normalize(p.ID, p.Frequency, p.Pairs)
	if err != nil {
		return nil, err
	}
	return map[string]series.Series{s.ID: s}, nil
}

// Refresh fetches every source concurrently and stores the normalized series.
// A failing source does not overwrite what is already stored for it. An error
// is returned only when every source failed.
func (s *Service) Refresh(ctx context.Context) error {
	if len(s.sources) == 0 {
		log.Printf("ERROR: No sources configured to refresh")
		return fmt.Errorf("no series sources configured")
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, src := range s.sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()

			ids, err := s.RefreshSource(ctx, src)
			if err != nil {
				log.Printf("source %s refresh failed: %v", src.Name(), err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
				mu.Unlock()
				return
			}
			log.Printf("DEBUG: source %s stored %d series", src.Name(), len(ids))
		}()
	}

	wg.Wait()

	if len(errs) == len(s.sources) {
		return errors.Join(errs...)
	}
	return nil
}

// RefreshSource fetches and normalizes one source and stores all of its series.
// Nothing is stored unless the whole payload normalizes.
func (s *Service) RefreshSource(ctx context.Context, src Source) ([]string, error) {
	payload, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	normalized, err := Normalize(payload)
	if err != nil {
		return nil, err
	}

	fetchedAt := s.now()
	ids := make([]string, 0, len(normalized))
	for id, ser := range normalized {
		s.store.SaveSeries(ser, fetchedAt)
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Series delegates to the underlying store.
func (s *Service) Series(id string) (series.Series, error) {
	return s.store.Get(id)
}

// IDs lists the stored series identifiers.
func (s *Service) IDs() []string {
	return s.store.IDs()
}

// Resampled projects the stored series id onto its hourly axis.
func (s *Service) Resampled(id string, opts ...series.Option) (series.ResampledSeries, error) {
	ser, err := s.store.Get(id)
	if err != nil {
		return series.ResampledSeries{}, err
	}

	all := make([]series.Option, 0, len(s.defaults)+len(opts))
	all = append(all, s.defaults...)
	all = append(all, opts...)
	return series.NewResampler(all...).Resample(ser)
}
