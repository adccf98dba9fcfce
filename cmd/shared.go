package cmd

import (
	"context"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/validation"
	"github.com/spf13/cobra"
)

// listFlags are the flags every list subcommand accepts.
type listFlags struct {
	params client.ListParams
	all    bool
	asJSON bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.params.Search, "search", "s", "", "Free-text search term")
	fl.IntVar(&f.params.Page, "page", 0, "Page number to fetch")
	fl.IntVar(&f.params.PageSize, "page-size", 0, "Number of items per page")
	fl.BoolVarP(&f.all, "all", "a", false, "Fetch every page")
	fl.BoolVar(&f.asJSON, "json", false, "Print JSON instead of a table")
}

type lister[T any] interface {
	List(ctx context.Context, params *client.ListParams) (*client.Page[T], error)
	ListAll(ctx context.Context, params *client.ListParams) ([]T, error)
}

type listResult[T any] struct {
	items   []T
	total   int
	hasNext bool
}

func fetchItems[T any](ctx context.Context, l lister[T], f *listFlags) (*listResult[T], error) {
	if f.all {
		items, err := l.ListAll(ctx, &f.params)
		if err != nil {
			return nil, err
		}
		return &listResult[T]{items: items, total: len(items)}, nil
	}
	page, err := l.List(ctx, &f.params)
	if err != nil {
		return nil, err
	}
	return &listResult[T]{items: page.Results, total: page.Count, hasNext: page.HasNext()}, nil
}

// idArg parses the positional id argument of a subcommand.
func idArg(resource string, args []string) (int, error) {
	id, err := validation.ParseID(resource, args[0])
	if err != nil {
		return 0, validationError(err)
	}
	return id, nil
}

func statusChoices() []string {
	out := make([]string, len(client.OrderStatuses))
	for i, s := range client.OrderStatuses {
		out[i] = string(s)
	}
	return out
}

func methodChoices() []string {
	out := make([]string, len(client.PaymentMethods))
	for i, m := range client.PaymentMethods {
		out[i] = string(m)
	}
	return out
}

func categoryChoices() []string {
	out := make([]string, len(client.InventoryCategories))
	for i, c := range client.InventoryCategories {
		out[i] = string(c)
	}
	return out
}

// requireFields takes name/value pairs and fails on the first empty value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := validation.ValidateNonEmptyString(pairs[i], pairs[i+1]); err != nil {
			return validationError(err)
		}
	}
	return nil
}
