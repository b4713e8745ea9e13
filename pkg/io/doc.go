// Package io reads and writes dependency trees as JSON.
//
// # Overview
//
// The format is a nested object per node:
//
//	{
//	  "ecosystem": "maven",
//	  "group": "com.acme", "name": "app", "version": "1.0",
//	  "children": [
//	    {"group": "com.acme", "name": "lib", "version": "1.0",
//	     "children": [{"group": "com.acme", "name": "core", "version": "1.0"}]},
//	    {"ref": "com.acme:core:1.0"}
//	  ]
//	}
//
// A "ref" object points at the definition of a coordinate elsewhere in the
// document, so shared subtrees are written once. The optional "ecosystem"
// on the root selects the package URL type of the generated SBOM.
//
// The root may omit its coordinate; sbomgen then takes it from the project
// configuration.
//
// # Import
//
// Use [ImportTree] for files or [ReadTree] for any io.Reader. [TreeParser]
// wraps them as a [deps.ManifestParser] for files ending in .json.
//
// # Export
//
// [WriteTree] and [ExportTree] write the same format, emitting references
// for every repeated coordinate. `sbomgen inspect --export` uses them to
// normalize reports from other readers into this format.
package io
