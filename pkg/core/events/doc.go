// Package events defines the AG-UI protocol event vocabulary.
//
// Every event is a typed struct embedding *BaseEvent, which carries the
// type discriminator and an emission timestamp serialized in ISO 8601
// form. Events are constructed with New*Event functions (plus functional
// options where fields are optional), validated with Validate, and
// serialized with ToJSON. EventFromJSON performs the reverse dispatch by
// the "type" field.
//
// The wire representation is one JSON object per transport frame:
//
//	{"type":"TEXT_MESSAGE_CONTENT","timestamp":"2026-01-02T15:04:05Z","messageId":"msg-1a2b3c4d","delta":"Hello"}
//
// Framing and reassembly live in pkg/encoding; this package is transport
// agnostic.
package events
