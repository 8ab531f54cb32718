// Package paging adapts caller page requests to the page size limits of the
// Strava API.
//
// A caller may ask for any page size. Strava serves at most MaxPageSize items
// per request, so Normalize splits a large request into a run of remote pages,
// each annotated with how many leading and trailing items the caller has to
// discard to get back exactly the range it asked for.
package paging

import (
	"context"

	"github.com/pkg/errors"
)

const (
	// DefaultPageSize is used when a request leaves the page size unset.
	DefaultPageSize = 30
	// MaxPageSize is the largest per_page value Strava accepts.
	MaxPageSize = 200
)

var ErrInvalidArgument = errors.New("paging: invalid argument")

// Paging describes a slice of a remote collection.
//
// Page is 1-based. IgnoreFirstN and IgnoreLastN trim items from the start and
// end of the page after it is fetched.
type Paging struct {
	Page         int
	PageSize     int
	IgnoreFirstN int
	IgnoreLastN  int
}

// Validate rejects negative page arguments and trims larger than the page.
// A nil Paging is valid.
func Validate(p *Paging) error {
	if p == nil {
		return nil
	}
	if p.Page < 0 {
		return errors.Wrapf(ErrInvalidArgument, "page %d is below zero", p.Page)
	}
	if p.PageSize < 0 {
		return errors.Wrapf(ErrInvalidArgument, "page size %d is below zero", p.PageSize)
	}
	if p.IgnoreLastN < 0 || p.IgnoreFirstN < 0 {
		return errors.Wrap(ErrInvalidArgument, "cannot ignore a negative number of items")
	}
	if p.IgnoreLastN > 0 && p.IgnoreLastN > p.PageSize {
		return errors.Wrapf(ErrInvalidArgument, "cannot ignore last %d items of a %d item page", p.IgnoreLastN, p.PageSize)
	}
	if p.IgnoreFirstN > 0 && p.IgnoreFirstN > p.PageSize {
		return errors.Wrapf(ErrInvalidArgument, "cannot ignore first %d items of a %d item page", p.IgnoreFirstN, p.PageSize)
	}
	return nil
}

// Normalize converts p into the ordered remote requests that cover exactly
// the items p asks for. The input is not modified.
func Normalize(p *Paging) ([]Paging, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	if p == nil {
		return []Paging{{Page: 1, PageSize: DefaultPageSize}}, nil
	}

	in := *p
	if in.Page == 0 {
		in.Page = 1
	}
	if in.PageSize == 0 {
		in.PageSize = DefaultPageSize
	}

	if in.PageSize <= MaxPageSize {
		return []Paging{in}, nil
	}

	// 1-based indices of the first and last item requested.
	last := in.Page*in.PageSize - in.IgnoreLastN
	first := (in.Page-1)*in.PageSize + in.IgnoreFirstN + 1
	if last < first {
		return []Paging{}, nil
	}

	if last <= MaxPageSize {
		return []Paging{{Page: 1, PageSize: last, IgnoreFirstN: first - 1}}, nil
	}

	var out []Paging
	for page := 1; (page-1)*MaxPageSize < last; page++ {
		if page*MaxPageSize < first {
			continue
		}
		out = append(out, Paging{
			Page:         page,
			PageSize:     MaxPageSize,
			IgnoreFirstN: max(0, first-(page-1)*MaxPageSize-1),
			IgnoreLastN:  max(0, page*MaxPageSize-last),
		})
	}
	return out, nil
}

// IgnoreFirstN returns list without its first n items.
func IgnoreFirstN[T any](list []T, n int) ([]T, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "cannot remove %d items from a list", n)
	}
	if list == nil || n == 0 {
		return list, nil
	}
	if n >= len(list) {
		return []T{}, nil
	}
	return list[n:], nil
}

// IgnoreLastN returns list without its last n items.
func IgnoreLastN[T any](list []T, n int) ([]T, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "cannot remove %d items from a list", n)
	}
	if list == nil || n == 0 {
		return list, nil
	}
	if n >= len(list) {
		return []T{}, nil
	}
	return list[:len(list)-n], nil
}

// FetchFunc retrieves one remote page.
type FetchFunc[T any] func(ctx context.Context, page, perPage int) ([]T, error)

// Collect fetches every remote page needed to serve p, trims each one and
// concatenates the results. It stops after the first short page, since the
// remote collection has no more items past it.
func Collect[T any](ctx context.Context, p *Paging, fetch FetchFunc[T]) ([]T, error) {
	requests, err := Normalize(p)
	if err != nil {
		return nil, err
	}

	out := []T{}
	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := fetch(ctx, req.Page, req.PageSize)
		if err != nil {
			return nil, err
		}
		short := len(items) < req.PageSize

		// Trailing trims count from the end of a full page, so a short page
		// only loses the items that sit past the requested range.
		if end := req.PageSize - req.IgnoreLastN; end < len(items) {
			items = items[:end]
		}
		items, err = IgnoreFirstN(items, req.IgnoreFirstN)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)

		if short {
			break
		}
	}
	return out, nil
}
