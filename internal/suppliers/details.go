package suppliers

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ivy-monitoring/supplier-api/internal/store"
)

// Details is a supplier together with its optional aspect records. A nil aspect
// marshals as null.
type Details struct {
	Supplier        Supplier  `json:"supplier"`
	BankAccount     store.Row `json:"bank_account"`
	Disponibility   store.Row `json:"disponibility"`
	Experience      store.Row `json:"experience"`
	Fees            store.Row `json:"fees"`
	ServiceCapacity store.Row `json:"service_capacity"`
}

// Aspect is one per-supplier side table.
type Aspect struct {
	Name  string
	Table string
	slot  func(*Details) *store.Row
}

// Aspects lists the side tables merged into Details, in response order.
var Aspects = []Aspect{
	{Name: "bank_account", Table: "supplier_bank_account", slot: func(d *Details) *store.Row { return &d.BankAccount }},
	{Name: "disponibility", Table: "supplier_disponibility", slot: func(d *Details) *store.Row { return &d.Disponibility }},
	{Name: "experience", Table: "supplier_experience", slot: func(d *Details) *store.Row { return &d.Experience }},
	{Name: "fees", Table: "supplier_fees", slot: func(d *Details) *store.Row { return &d.Fees }},
	{Name: "service_capacity", Table: "supplier_service_capacity", slot: func(d *Details) *store.Row { return &d.ServiceCapacity }},
}

// aspectResult is the outcome of one aspect lookup. row is nil when the
// supplier has no record in the table.
type aspectResult struct {
	row store.Row
	err error
}

// Details loads the supplier and then every aspect. The supplier lookup is
// mandatory; aspect lookups degrade to null on failure and never fail the call.
func (s *Service) Details(ctx context.Context, id int64) (Details, error) {
	supplier, err := s.repo.Get(ctx, id)
	if err != nil {
		return Details{}, err
	}

	results := s.fetchAspects(ctx, id)

	details := Details{Supplier: supplier}
	for i, aspect := range Aspects {
		res := results[i]
		if res.err != nil {
			s.logger.Warn("supplier aspect lookup failed",
				slog.String("aspect", aspect.Name),
				slog.String("table", aspect.Table),
				slog.Int64("supplier_id", id),
				slog.Any("error", res.err),
			)
			continue
		}
		*aspect.slot(&details) = res.row
	}
	return details, nil
}

func (s *Service) fetchAspects(ctx context.Context, id int64) []aspectResult {
	results := make([]aspectResult, len(Aspects))
	var g errgroup.Group
	g.SetLimit(s.cfg.DetailsConcurrency)
	for i, aspect := range Aspects {
		i, aspect := i, aspect
		g.Go(func() error {
			row, err := s.repo.Aspect(ctx, aspect.Table, id)
			results[i] = aspectResult{row: row, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
