// Package manifest provides file-backed declaration and change sources for
// the planner.
//
// A workspace looks like this:
//
//	modules.yaml                 module manifest
//	Core/templates.yaml          code-generation templates of the Core root
//	Core/Core.Api/api.project.yaml
//	Core/Core.Data/data.project.yaml
//
// Project files hold a single declaration:
//
//	identity: 0f8fad5b-d9cb-469f-a165-70867728950e
//	assembly: Core.Api
//	sources: [Generated/Entities.tt]
//	project_references:
//	  - identity: 7c9e6679-7425-40de-944b-e07fc1f90ae7
//	    path: ../Core.Data/Core.Data.csproj
//	assembly_references: [Newtonsoft.Json]
//
// Source implements plan.DeclarationSource and ChangeList implements
// plan.ChangeSource.
package manifest
