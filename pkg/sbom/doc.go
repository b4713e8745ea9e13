// Package sbom converts a resolved dependency graph into a Software Bill of
// Materials document.
//
// # Overview
//
// A build tool reports dependencies as a tree of positions: a library
// reached through two paths appears twice. An SBOM lists each package once
// and records who depends on whom. [Build] performs that conversion, keyed
// by [deps.Coordinate]:
//
//	app ──► lib ──► core          packages: app, lib, core
//	  └───────────► core    =>    DESCRIBES    DOCUMENT -> app
//	                              DEPENDS_ON   app -> lib, lib -> core, app -> core
//
// Element identifiers come from [ElementID], an injective escaping of the
// coordinate, so two distinct coordinates never share an identifier and the
// same coordinate always maps to the same one.
//
// # Usage
//
// Most callers use [Generate]:
//
//	out, err := sbom.Generate(root, deps.Coordinate{Group: "com.acme", Name: "app", Version: "1.0"})
//
// Callers that want to inspect the document before serializing it use
// [NewDocument], [Build] and [Serialize] directly.
//
// # Output
//
// [Serialize] writes the document as JSON. Field order and element order
// are fixed, so output is byte-for-byte reproducible:
//
//	{
//	  "id": "SPDXRef-DOCUMENT",
//	  "namespace": "https://spdx.org/spdxdocs/com.acme/app/1.0",
//	  "name": "app",
//	  "packages": [
//	    {"id": "com.acme:app:1.0", "name": "app", "versionInfo": "1.0", "licenseDeclared": "NOASSERTION"}
//	  ],
//	  "relationships": [
//	    {"elementId": "SPDXRef-DOCUMENT", "type": "DESCRIBES", "relatedElementId": "com.acme:app:1.0"}
//	  ]
//	}
package sbom
