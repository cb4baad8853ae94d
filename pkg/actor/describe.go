package actor

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Options returns the configurable fields of a (those tagged with
// `mapstructure`) as a map. Actors without options yield an empty map.
func Options(a Actor) map[string]any {
	out := make(map[string]any)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:               &out,
		TagName:              "mapstructure",
		IgnoreUntaggedFields: true,
	})
	if err != nil {
		return out
	}
	if err := decoder.Decode(a); err != nil {
		return map[string]any{}
	}
	return out
}

// DecodeOptions applies options onto a's tagged fields. Unknown keys are an error.
func DecodeOptions(a Actor, options map[string]any) error {
	if len(options) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           a,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(options)
}

// Description is a serialisable view of an actor subtree.
type Description struct {
	Name       string         `json:"name"`
	FullName   string         `json:"full_name"`
	Kind       string         `json:"kind"`
	Skip       bool           `json:"skip,omitempty"`
	Procedural string         `json:"procedural"`
	Functional string         `json:"functional"`
	Options    map[string]any `json:"options,omitempty"`
	Children   []*Description `json:"children,omitempty"`
	// Internal is the privately owned actor of an InternalActorHandler.
	Internal *Description `json:"internal,omitempty"`
	// External is the loaded actor of an ExternalActorHandler.
	External *Description `json:"external,omitempty"`
}

// Describe builds the description of root and its owned subtree.
// kindOf names actor kinds; nil falls back to the Go type name.
func Describe(root Actor, kindOf func(Actor) string) *Description {
	if kindOf == nil {
		kindOf = TypeName
	}
	d := &Description{
		Name:       root.Name(),
		FullName:   root.FullName(),
		Kind:       kindOf(root),
		Skip:       root.Skip(),
		Procedural: ProceduralAspectOf(root),
		Functional: FunctionalAspectOf(root),
		Options:    Options(root),
	}
	if len(d.Options) == 0 {
		d.Options = nil
	}
	if h, ok := root.(ActorHandler); ok {
		for i := 0; i < h.Size(); i++ {
			d.Children = append(d.Children, Describe(h.Get(i), kindOf))
		}
	}
	if in, ok := root.(InternalActorHandler); ok && in.InternalActor() != nil {
		d.Internal = Describe(in.InternalActor(), kindOf)
	}
	if ex, ok := root.(ExternalActorHandler); ok && ex.ExternalActor() != nil {
		d.External = Describe(ex.ExternalActor(), kindOf)
	}
	return d
}

// TypeName returns the name of a's concrete type without package or pointer.
func TypeName(a Actor) string {
	t := reflect.TypeOf(a)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
