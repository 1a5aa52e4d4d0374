// Package validation validates declarations and configuration.
//
// Struct tag validation uses go-playground/validator and names fields by
// their YAML keys:
//
//	err := validation.ValidateDeclaration(path, decl)
//
// Programmatic checks collect errors before failing once:
//
//	v := validation.New()
//	v.Required("name", name).Min("parallelism", n, 1)
//	err := v.Validate()
package validation
