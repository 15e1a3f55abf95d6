package domain

import "fmt"

// Filter selects the ordering of the derived ticker view.
type Filter int

const (
	FilterNone Filter = iota
	FilterSortByGain
	FilterSortByLoss
)

func (f Filter) String() string {
	switch f {
	case FilterSortByGain:
		return "sort_gain"
	case FilterSortByLoss:
		return "sort_loss"
	default:
		return "none"
	}
}

// ParseFilter accepts the String() form; the empty string means FilterNone.
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "", "none":
		return FilterNone, nil
	case "sort_gain":
		return FilterSortByGain, nil
	case "sort_loss":
		return FilterSortByLoss, nil
	}
	return FilterNone, fmt.Errorf("unknown filter %q", s)
}

func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Filter) UnmarshalText(b []byte) error {
	v, err := ParseFilter(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
