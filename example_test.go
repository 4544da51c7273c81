package mantle_test

import (
	"context"
	"fmt"

	mantle "github.com/reoring/gomantle"
	"github.com/reoring/gomantle/transform"
	"github.com/reoring/gomantle/wire"
)

func exampleUserType() *mantle.ModelType {
	return mantle.Type("User").
		Property("name").
		Property("age", mantle.DefaultValue(int64(0))).
		KeyPath("name", "profile.name").
		KeyPath("age", "profile.age").
		Transform("age", transform.Integer()).
		Mandatory("name").
		MustBuild()
}

func Example() {
	ctx := context.Background()
	user := exampleUserType()

	tree, err := wire.DecodeJSON([]byte(`{"profile":{"name":"ada","age":"36"}}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	d, err := mantle.MustNewAdapter(user).Decode(ctx, tree)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(d.Model.GetString("name"), d.Model.Values()["age"])

	out, _ := mantle.Encode(ctx, d.Model)
	b, _ := wire.EncodeJSON(out)
	fmt.Println(string(b))
	// Output:
	// ada 36
	// {"profile":{"age":"36","name":"ada"}}
}

func ExampleAdapter_Decode_mandatory() {
	ctx := context.Background()
	_, err := mantle.MustNewAdapter(exampleUserType()).Decode(ctx, map[string]any{"profile": map[string]any{}})
	fmt.Println(err)
	// Output: missing_mandatory at /profile/name (name)
}
