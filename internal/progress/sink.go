package progress

import "context"

// Sink receives batches of run progress events from the hub. Consume may be
// called concurrently and must tolerate batches arriving after a feed has
// already finished; Close flushes anything buffered.
type Sink interface {
	Consume(ctx context.Context, batch []Event) error
	Close(ctx context.Context) error
}

// Emitter publishes single events. The hub satisfies it, so workers emit
// without knowing how events are batched or where they end up.
type Emitter interface {
	Emit(evt Event)
}
