package mantle_test

import (
	"context"
	"errors"
	"fmt"

	mantle "github.com/reoring/gomantle"
	"github.com/reoring/gomantle/transform"
)

func sumCounts(_ context.Context, mine, theirs any) (any, error) {
	a, _ := mine.(int64)
	b, _ := theirs.(int64)
	return a + b, nil
}

func maxLen(n int) mantle.ValidateFunc {
	return func(_ context.Context, v any) (any, error) {
		if s, _ := v.(string); len(s) > n {
			return nil, fmt.Errorf("longer than %d characters", n)
		}
		return v, nil
	}
}

// testModelType stores name under "username", count as a string and
// nestedName under "nested.name".
func testModelType() *mantle.ModelType {
	return mantle.Type("TestModel").
		Property("name").
		Property("count", mantle.DefaultValue(int64(1)), mantle.Assign()).
		Property("nestedName").
		Property("dynamicName", mantle.DerivedFrom(func(m *mantle.Model) any {
			return "dynamic:" + m.GetString("name")
		})).
		Property("weakModel", mantle.Weak()).
		KeyPath("name", "username").
		KeyPath("count", "count").
		KeyPath("nestedName", "nested.name").
		Transform("count", transform.Integer()).
		ValidateProperty("name", maxLen(10)).
		MergeProperty("count", sumCounts).
		MustBuild()
}

type span struct {
	Location int
	Length   int
}

// rangeModelType maps one property onto two key paths.
func rangeModelType() *mantle.ModelType {
	return mantle.Type("MultiKeypath").
		Property("range", mantle.DefaultValue(span{})).
		Property("nestedRange", mantle.DefaultValue(span{})).
		KeyPath("range", "location", "length").
		KeyPath("nestedRange", "nested.location", "nested.length").
		Transform("range", spanTransformer()).
		Transform("nestedRange", spanTransformer()).
		MustBuild()
}

func spanTransformer() *mantle.Transformer {
	return mantle.NewTransformer(
		func(_ context.Context, v any) (any, error) {
			tuple, ok := v.([]any)
			if !ok || len(tuple) != 2 {
				return nil, errors.New("expected location and length")
			}
			loc, ok1 := tuple[0].(int)
			n, ok2 := tuple[1].(int)
			if !ok1 || !ok2 {
				return nil, errors.New("location and length must be integers")
			}
			return span{Location: loc, Length: n}, nil
		},
		func(_ context.Context, v any) (any, error) {
			s, ok := v.(span)
			if !ok {
				return nil, errors.New("expected a span")
			}
			return []any{s.Location, s.Length}, nil
		},
	)
}

// flavorRegistry holds a class cluster keyed by "flavor".
func flavorRegistry() *mantle.Registry {
	flavor := mantle.Type("Flavor").
		Property("flavor").
		Discriminator("flavor",
			mantle.Variant("chocolate", "Chocolate"),
			mantle.Variant("strawberry", "Strawberry"),
		).
		MustBuild()
	chocolate := mantle.Type("Chocolate").
		Extends(flavor).
		Property("bitterness", mantle.DefaultValue(int64(0))).
		KeyPath("bitterness", "chocolate_bitterness").
		Transform("bitterness", transform.Integer()).
		MustBuild()
	strawberry := mantle.Type("Strawberry").
		Extends(flavor).
		Property("freshness").
		KeyPath("freshness", "strawberry_freshness").
		MustBuild()
	return mantle.NewRegistry().MustRegister(flavor, chocolate, strawberry)
}

// groupRegistry holds recursive User and Group types.
func groupRegistry() *mantle.Registry {
	user := mantle.Type("User").
		Property("name").
		Property("groups", mantle.NestedMany("Group")).
		Mandatory("name").
		MustBuild()
	group := mantle.Type("Group").
		Property("title").
		Property("owner", mantle.Nested("User")).
		Property("users", mantle.NestedMany("User")).
		MustBuild()
	return mantle.NewRegistry().MustRegister(user, group)
}
