// Package schema describes form values with fluent builders that both
// render JSON Schema and check values.
//
// The rendered schema is what form tools publish to agents and frontends;
// Validate reports failures keyed by field path, so one definition drives
// both.
//
//	signup := schema.Object().
//		Field("firstName", schema.String().Label("First name").
//			MessageFor(schema.KeyRequired, "First name is required").Required()).
//		Field("email", schema.String().Email().Required()).
//		Field("age", schema.Int().Min(18).Message("Must be an adult")).
//		Field("hobbies", schema.Array(schema.String()).MaxItems(3))
//
// *ObjectBuilder implements validate.Validator:
//
//	s, err := store.New(initial, store.WithSchema(signup))
//
// Empty optional fields (nil, whitespace-only strings, empty lists) are
// skipped. Empty required fields report "required" or their message.
//
// Any builder becomes a field validator through Field:
//
//	store.WithFieldValidators("zip", schema.Field(schema.String().Pattern(`^\d{5}$`)))
//
// Messages resolve per check: a MessageFor keyword message, then Message,
// then the generated text.
package schema
