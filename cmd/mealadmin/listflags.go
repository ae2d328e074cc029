package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/listing"
)

const defaultPerPage = 15

// listFlags are the query flags shared by every list command.
type listFlags struct {
	search   string
	filters  []string
	sortBy   string
	sortDesc bool
	page     int
	perPage  int
	format   string
}

func addListFlags(cmd *cobra.Command, f *listFlags) {
	cmd.Flags().StringVar(&f.search, "search", "", "Free text search")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "Structured filter as key=value (repeatable)")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "Sort column")
	cmd.Flags().BoolVar(&f.sortDesc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.perPage, "per-page", defaultPerPage, "Rows per page")
	cmd.Flags().StringVar(&f.format, "format", "table", "Output format: table or json")
}

// query builds the list query. Page is applied last so the setters'
// page-reset behavior cannot clobber an explicit --page.
func (f *listFlags) query() (listing.Query, error) {
	q := listing.NewQuery(f.perPage)
	if f.search != "" {
		q.SetSearch(f.search)
	}
	for _, pair := range f.filters {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return listing.Query{}, fmt.Errorf("invalid filter %q, expected key=value", pair)
		}
		q.SetFilter(key, value)
	}
	if f.sortBy != "" {
		q.SetSort(f.sortBy)
		if f.sortDesc {
			q.SetSort(f.sortBy)
		}
	}
	q.SetPage(f.page)
	return q, nil
}
