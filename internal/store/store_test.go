package store

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	err  error
	rows []Row
}

func (f fakeClient) Select(context.Context, string, *Filter) ([]Row, error) { return f.rows, f.err }
func (f fakeClient) Insert(context.Context, string, Row) ([]Row, error)     { return f.rows, f.err }
func (f fakeClient) Update(context.Context, string, Row, Filter) ([]Row, error) {
	return f.rows, f.err
}
func (f fakeClient) Delete(context.Context, string, Filter) ([]Row, error) { return f.rows, f.err }

func TestUnconfiguredFailsEveryCall(t *testing.T) {
	c := Unconfigured()
	ctx := context.Background()

	_, err := c.Select(ctx, "suppliers", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Insert(ctx, "suppliers", Row{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Update(ctx, "suppliers", Row{}, Eq("id", 1))
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Delete(ctx, "suppliers", Eq("id", 1))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Op: OpSelect, Table: "suppliers", Status: 400, Code: "42P01", Message: "relation does not exist"}
	assert.Equal(t, "store: select suppliers: relation does not exist (42P01)", err.Error())

	cause := errors.New("dial tcp: refused")
	wrapped := &Error{Op: OpDelete, Table: "packages", Err: cause}
	assert.Equal(t, "store: delete packages: dial tcp: refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestInstrumentRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := Instrument(fakeClient{rows: []Row{{"id": 1}}}, m)
	rows, err := ok.Select(context.Background(), "suppliers", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	failing := Instrument(fakeClient{err: errors.New("boom")}, m)
	_, err = failing.Delete(context.Background(), "suppliers", Eq("id", 1))
	require.Error(t, err)

	unconfigured := Instrument(Unconfigured(), m)
	_, err = unconfigured.Insert(context.Background(), "suppliers", Row{})
	require.ErrorIs(t, err, ErrNotConfigured)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("suppliers", "select", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("suppliers", "delete", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("suppliers", "insert", "not_configured")))
}

func TestNewMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewMetrics(reg)
	second := NewMetrics(reg)

	first.Track("packages", OpSelect).End(nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.calls.WithLabelValues("packages", "select", "ok")))
}

func TestInstrumentWithoutMetricsReturnsClient(t *testing.T) {
	c := fakeClient{}
	assert.Equal(t, Client(c), Instrument(c, nil))
}
