package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	leaf := newSink("Dis.play")
	seq := newHandler("Seq", HandlerInfo{}, leaf)
	root := newScope("Flow", seq)

	assert.Equal(t, "Flow", root.FullName())
	assert.Equal(t, `Flow.Seq.Dis\.play`, leaf.FullName())
	assert.Equal(t, Path{"Flow", "Seq", "Dis.play"}, PathOf(leaf))

	seq.SetName("Renamed")
	assert.Equal(t, `Flow.Renamed.Dis\.play`, leaf.FullName(), "full name is recomputed")
}

func TestPath(t *testing.T) {
	p := ParsePath(`a.b\.c.d\\e`)
	assert.Equal(t, Path{"a", "b.c", `d\e`}, p)
	assert.Equal(t, `a.b\.c.d\\e`, p.String())
	assert.Equal(t, "a", p.First())
	assert.Equal(t, `d\e`, p.Last())
	assert.Equal(t, Path{"b.c", `d\e`}, p.Child())
	assert.Equal(t, Path{"a", "b.c"}, p.ParentPath())
	assert.Nil(t, Path{"a"}.Child())
	assert.Nil(t, ParsePath(""))
	assert.Equal(t, Path{"a", "x"}, Path{"a"}.Append("x"))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		actor      Actor
		procedural string
		functional string
	}{
		{newStandalone("s"), AspectStandalone, AspectPrimitive},
		{newSource("src"), AspectSource, AspectPrimitive},
		{newTransformer("t"), AspectTransformer, AspectPrimitive},
		{newSink("sink"), AspectSink, AspectPrimitive},
		{newHandler("h", HandlerInfo{}), AspectStandalone, AspectHandler},
	}
	for _, tt := range tests {
		t.Run(tt.actor.Name(), func(t *testing.T) {
			a := tt.actor
			matches := 0
			for _, pred := range []func(Actor) bool{IsStandalone, IsSource, IsTransformer, IsSink} {
				if pred(a) {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "exactly one classification must hold")
			assert.Equal(t, tt.procedural, ProceduralAspectOf(a))
			assert.Equal(t, tt.functional, FunctionalAspectOf(a))
		})
	}
}

func TestHandler_Editing(t *testing.T) {
	h := newHandler("H", HandlerInfo{})
	a, b, c := newSink("a"), newSink("b"), newSink("c")

	h.Add(a, c)
	h.Insert(1, b)
	assert.Equal(t, []Actor{a, b, c}, h.Actors())
	assert.Equal(t, Actor(h), b.Parent())
	assert.Equal(t, 2, h.IndexOf("c"))
	assert.Equal(t, -1, h.IndexOf("zzz"))
	assert.Nil(t, h.Get(5))

	removed := h.Remove(0)
	assert.Equal(t, Actor(a), removed)
	assert.Nil(t, a.Parent())

	d := newSink("d")
	h.Set(0, d)
	assert.Equal(t, []Actor{d, c}, h.Actors())
	assert.Nil(t, b.Parent())
}

func TestHandler_StopCascades(t *testing.T) {
	leaf := newSink("leaf")
	inner := newHandler("Inner", HandlerInfo{}, leaf)
	root := newScope("Flow", inner)

	root.Stop()
	assert.True(t, leaf.IsStopped())
	assert.True(t, inner.IsStopped())

	assert.NoError(t, root.SetUp(context.Background()))
	assert.False(t, leaf.IsStopped(), "set up clears the stop request")
}

func TestStopped_Context(t *testing.T) {
	a := newSink("a")
	ctx, cancel := context.WithCancel(context.Background())
	assert.False(t, Stopped(ctx, a))
	cancel()
	assert.True(t, Stopped(ctx, a))
}

func TestHandlerInfo_Allows(t *testing.T) {
	info := HandlerInfo{Restrictions: []Capability{CapInputConsumer}}
	assert.True(t, info.Allows(newSink("s")))
	assert.True(t, info.Allows(newTransformer("t")))
	assert.False(t, info.Allows(newSource("src")))
	assert.True(t, HandlerInfo{}.Allows(newSource("src")))
	assert.Equal(t, "input consumer", CapInputConsumer.String())
}

func TestExpand(t *testing.T) {
	leaf := newSink("leaf")
	root := newScope("Flow", leaf)
	root.vars.Set("dir", "/tmp")
	root.st.Put(mustName("count"), 3)

	assert.Equal(t, "/tmp/3/${x}/@{y}", Expand(leaf, "${dir}/@{count}/${x}/@{y}"))
	assert.Equal(t, "${dir}", Expand(root, "${dir}"), "a scope does not see its own variables")
}

func TestHooksContext(t *testing.T) {
	called := false
	ctx := WithHooks(context.Background(), domainHooks(&called))
	HooksFrom(ctx).OnActorExecute(ctx, nil)
	assert.True(t, called)
	assert.Nil(t, HooksFrom(context.Background()).OnActorExecute)
}
