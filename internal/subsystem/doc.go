// Package subsystem defines the bring-up/tear-down contract every engine
// collaborator (display, graphics backend, input, audio, world, network,
// assets) exposes to the orchestrator.
//
// The orchestrator calls nothing but Init, Shutdown, IsInitialized and Name
// during bring-up and tear-down. Richer behaviour is discovered through the
// narrow optional interfaces in optional.go (stats reporting, hot reload,
// live reconfiguration), each checked with a type assertion.
//
// Window-system events never travel through untyped back-pointers: the
// display collaborator is handed an *EventDispatcher at construction and
// posts typed Events to it; the frame loop attaches itself as the handler.
package subsystem
