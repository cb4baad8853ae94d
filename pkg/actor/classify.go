package actor

// Aspect names returned by ProceduralAspectOf and FunctionalAspectOf.
const (
	AspectStandalone  = "standalone"
	AspectSource      = "source"
	AspectTransformer = "transformer"
	AspectSink        = "sink"
	AspectPrimitive   = "primitive"
	AspectHandler     = "handler"
)

func consumes(a Actor) bool {
	_, ok := a.(InputConsumer)
	return ok
}

func produces(a Actor) bool {
	_, ok := a.(OutputProducer)
	return ok
}

// IsStandalone reports whether a neither consumes nor produces tokens.
func IsStandalone(a Actor) bool {
	return !consumes(a) && !produces(a)
}

// IsSource reports whether a produces tokens without consuming any.
func IsSource(a Actor) bool {
	return !consumes(a) && produces(a)
}

// IsSink reports whether a consumes tokens without producing any.
func IsSink(a Actor) bool {
	return consumes(a) && !produces(a)
}

// IsTransformer reports whether a consumes and produces tokens.
func IsTransformer(a Actor) bool {
	return consumes(a) && produces(a)
}

// ProceduralAspectOf returns one of standalone, source, transformer or sink.
// For reporting only.
func ProceduralAspectOf(a Actor) string {
	switch {
	case IsSource(a):
		return AspectSource
	case IsTransformer(a):
		return AspectTransformer
	case IsSink(a):
		return AspectSink
	default:
		return AspectStandalone
	}
}

// FunctionalAspectOf returns handler for actor handlers and primitive otherwise.
func FunctionalAspectOf(a Actor) string {
	if _, ok := a.(ActorHandler); ok {
		return AspectHandler
	}
	return AspectPrimitive
}
