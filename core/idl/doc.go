// Package idl provides the reflective meta-model for tidl interface definitions.
//
// The meta-model is the fully-parsed structure of a tidl program: its
// declarations, types, services, and documentation. Downstream tools
// (validators, code generators, diff utilities, formatters) operate on this
// structured form rather than re-parsing text.
//
// # Core Types
//
// A parsed file is organized hierarchically:
//
//   - ProgramType: One source file's namespaces, includes, and declarations
//   - Declaration: A discriminated union over the five top-level kinds
//   - MessageType: The struct/union/exception/interface family
//   - ServiceType / FunctionType: Service declarations and their operations
//   - EnumType / TypedefType / ConstType: The remaining declaration kinds
//
// # Field Identifiers
//
// Fields without an explicit id receive one from AssignFieldIDs, counting
// down from 65535 in source order and skipping ids claimed explicitly.
// Const declarations bypass allocation entirely and use ConstFieldID.
//
// # Validation
//
// ValidateProgram applies every structural rule (field-id uniqueness,
// message-variant rules, declaration-union discipline, name uniqueness)
// and returns all violations in one pass rather than failing fast.
//
// # Immutability
//
// Entities are constructed once by the parser or resolver and never mutated
// after being exposed to a consumer, so concurrent readers need no locks.
package idl
