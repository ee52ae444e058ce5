// Package kernel provides core domain primitives shared by the interpreter
// booking domain model. It implements fundamental building blocks following
// Domain-Driven Design principles that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - LanguagePair: The source/target language combination an order requires
//   - TimeWindow: The scheduling window of an appointment leg
//   - CommunicationType and SchedulingType: enumerations describing how and
//     when an interpreting session takes place
//
// These primitives enforce domain invariants and validation rules, ensuring
// that domain objects are always in a valid state. They are designed to be
// immutable and thread-safe, making them suitable for concurrent use.
package kernel
