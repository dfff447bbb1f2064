// Package models defines the core domain models for aquabalance.
//
// # Models
//
//   - Profile: body metrics the intake target is derived from
//   - IntakeTarget: the recommended daily water volume
//   - ProgressState: logged volume against the current target
//   - HistoryEntry: one logging or reset event
//
// Volumes are expressed in liters throughout. Conversions from user input
// (millilitres, free-form strings) happen at the edges, never here.
//
// # Persistence
//
// Models are persisted through a string key-value store. Numeric fields are
// written as decimal strings and composite values (IntakeTarget, the history
// list) as JSON. The JSON tags below are the wire format and must stay stable;
// no migration of stored keys exists.
package models
