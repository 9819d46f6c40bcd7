package services

import (
	"bikeprice/internal/models"
	"bikeprice/internal/normalize"
	"bikeprice/internal/upstream"
	"context"
	"fmt"
	"golang.org/x/sync/errgroup"
)

// DayDealAvailability is the result of probing one city's nearby endpoint.
type DayDealAvailability struct {
	City  string
	Count int
	Err   error
}

func (a DayDealAvailability) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s: ERROR (%s)", a.City, a.Err)
	}
	has := "NO"
	if a.Count > 0 {
		has = "YES"
	}
	return fmt.Sprintf("%s: pass_offers=%s count=%d", a.City, has, a.Count)
}

// CheckDayDeals probes every city's day-pass endpoint and reports how many
// pass offers each lists. Results keep the order of cities.
func CheckDayDeals(ctx context.Context, cities []models.City, client upstream.ClientInterface, concurrency int) []DayDealAvailability {
	results := make([]DayDealAvailability, len(cities))

	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))
	for i, city := range cities {
		g.Go(func() error {
			results[i] = DayDealAvailability{City: city.Name}
			raw, err := client.Fetch(ctx, city, models.KindDayPass)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Count = normalize.OfferCount(raw)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
