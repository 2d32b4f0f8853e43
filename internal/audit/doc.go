// Package audit relays authentication-code outcomes (accepted, rejected,
// discarded) to a caller-supplied sink off the completion path.
//
// [Dispatcher] owns a single background goroutine and a bounded queue. When the
// queue is full it either drops the event (counting it) or blocks the emitter,
// depending on [Config.DropIfFull]. Sinks never see events concurrently when driven
// by a Dispatcher.
//
// The root package decides which events exist; this package only moves them and
// must not import goOnboard.
package audit
