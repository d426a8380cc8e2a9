package docsum_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()

		r := &docsum.PageRecord{LastUpdated: time.Now()}
		err := r.Validate()
		require.Error(t, err)
		assert.Equal(t, docsum.EINVALID, docsum.ErrorCode(err))
	})

	t.Run("requires timestamp", func(t *testing.T) {
		t.Parallel()

		r := &docsum.PageRecord{URL: "/docs/intro"}
		err := r.Validate()
		require.Error(t, err)
		assert.Equal(t, docsum.EINVALID, docsum.ErrorCode(err))
	})

	t.Run("accepts complete record", func(t *testing.T) {
		t.Parallel()

		r := &docsum.PageRecord{URL: "/docs/intro", LastUpdated: time.Now()}
		assert.NoError(t, r.Validate())
	})
}

func TestPageRecord_Timestamp(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CET", 3600)
	r := &docsum.PageRecord{LastUpdated: time.Date(2024, 3, 5, 13, 4, 5, 123_000_000, loc)}

	assert.Equal(t, "2024-03-05T12:04:05.123Z", r.Timestamp())
}

func TestRelativeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:3000/docs/intro", "/docs/intro"},
		{"http://localhost:3000/docs/", "/docs/"},
		{"http://localhost:3000", "/"},
		{"http://localhost:3000/docs/search?q=x", "/docs/search?q=x"},
		{"/docs/already-relative", "/docs/already-relative"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, docsum.RelativeURL(tt.in))
		})
	}
}

func TestExporters_Export(t *testing.T) {
	t.Parallel()

	t.Run("calls every exporter even after a failure", func(t *testing.T) {
		t.Parallel()

		var calls []string
		failing := &mock.Exporter{
			ExportFn: func(_ context.Context, _ []docsum.PageRecord) error {
				calls = append(calls, "first")
				return errors.New("disk full")
			},
		}
		ok := &mock.Exporter{
			ExportFn: func(_ context.Context, records []docsum.PageRecord) error {
				calls = append(calls, "second")
				assert.Len(t, records, 1)
				return nil
			},
		}

		err := docsum.Exporters{failing, ok}.Export(context.Background(), []docsum.PageRecord{{URL: "/docs/"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("empty set is a no-op", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, docsum.Exporters{}.Export(context.Background(), nil))
	})
}
