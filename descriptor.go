package tally

type ServiceDescriptor[T any] struct {
	Handlers     map[CommandName]func() CommandHandler[T]
	Initializers map[EventType]func() Initializer[T]
	Reducers     map[EventType]func() Reducer[T]
}

// ServiceFor materializes a descriptor against a store.
func ServiceFor[T any](store EventStore, descriptor ServiceDescriptor[T]) EntityService[T] {
	handlers := make(CommandHandlers[T], len(descriptor.Handlers))
	for name, handler := range descriptor.Handlers {
		handlers[name] = handler()
	}

	initializers := make(Initializers[T], len(descriptor.Initializers))
	for eventType, initializer := range descriptor.Initializers {
		initializers[eventType] = initializer()
	}

	reducers := make(Reducers[T], len(descriptor.Reducers))
	for eventType, reducer := range descriptor.Reducers {
		reducers[eventType] = reducer()
	}

	renderer := &Renderer[T]{Initializers: initializers, Reducers: reducers}
	loader := &EntityLoader[T]{Loader: store.Load, Renderer: renderer}
	dispatcher := &RoutedDispatcher[T]{Handlers: handlers, Publish: store.Publish}

	return NewEntityService(loader, dispatcher)
}

// LoaderFor materializes only the read side of a descriptor, for consumers
// that never execute commands.
func LoaderFor[T any](store EventStore, descriptor ServiceDescriptor[T]) *EntityLoader[T] {
	initializers := make(Initializers[T], len(descriptor.Initializers))
	for eventType, initializer := range descriptor.Initializers {
		initializers[eventType] = initializer()
	}

	reducers := make(Reducers[T], len(descriptor.Reducers))
	for eventType, reducer := range descriptor.Reducers {
		reducers[eventType] = reducer()
	}

	renderer := &Renderer[T]{Initializers: initializers, Reducers: reducers}

	return &EntityLoader[T]{Loader: store.Load, Renderer: renderer}
}
