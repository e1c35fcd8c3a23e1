package thanosql

import (
	"iter"
	"slices"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func TestPaginateBoundary(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}

	var sizes []int
	for page := range Paginate(slices.Values(values), 2) {
		sizes = append(sizes, len(page))
	}
	require.Equal(t, []int{2, 2, 1}, sizes)
}

func TestPaginateEmptyInput(t *testing.T) {
	for range Paginate(slices.Values([]int(nil)), 10) {
		t.Fatal("empty input must yield no pages")
	}
}

func TestPaginateExactMultiple(t *testing.T) {
	values := []int{1, 2, 3, 4}

	var pages [][]int
	for page := range Paginate(slices.Values(values), 2) {
		pages = append(pages, page)
	}
	require.Equal(t, [][]int{{1, 2}, {3, 4}}, pages)
}

func TestPaginateProperties(t *testing.T) {
	faker := gofakeit.New(7)
	for i := 0; i < 50; i++ {
		n := faker.IntRange(0, 500)
		size := faker.IntRange(1, 100)

		values := make([]int, n)
		for j := range values {
			values[j] = faker.Int()
		}

		var flat []int
		for page := range Paginate(slices.Values(values), size) {
			require.NotEmpty(t, page)
			require.LessOrEqual(t, len(page), size)
			flat = append(flat, page...)
		}
		require.Equal(t, values, flat)
	}
}

func TestPaginateUnboundedProducer(t *testing.T) {
	naturals := iter.Seq[int](func(yield func(int) bool) {
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	})

	var pages [][]int
	for page := range Paginate(naturals, 3) {
		pages = append(pages, page)
		if len(pages) == 2 {
			break
		}
	}
	require.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}}, pages)
}

func TestPaginateEarlyStop(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6}

	count := 0
	for range Paginate(slices.Values(values), 2) {
		count++
		break
	}
	require.Equal(t, 1, count)
}
