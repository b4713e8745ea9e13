package sbom_test

import (
	"fmt"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	"github.com/tratzlaff/sbomgen/pkg/sbom"
)

func ExampleGenerate() {
	root := deps.NewNode("com.acme", "app", "1.0")

	out, err := sbom.Generate(root, deps.Coordinate{})
	if err != nil {
		panic(err)
	}
	fmt.Print(string(out))
	// Output:
	// {
	//   "id": "SPDXRef-DOCUMENT",
	//   "namespace": "https://spdx.org/spdxdocs/com.acme/app/1.0",
	//   "name": "app",
	//   "packages": [
	//     {
	//       "id": "com.acme:app:1.0",
	//       "name": "app",
	//       "versionInfo": "1.0",
	//       "licenseDeclared": "NOASSERTION"
	//     }
	//   ],
	//   "relationships": [
	//     {
	//       "elementId": "SPDXRef-DOCUMENT",
	//       "type": "DESCRIBES",
	//       "relatedElementId": "com.acme:app:1.0"
	//     }
	//   ]
	// }
}

func ExampleBuild() {
	// app reaches core directly and through lib
	core := deps.NewNode("com.acme", "core", "1.0")
	lib := deps.NewNode("com.acme", "lib", "1.0", core)
	app := deps.NewNode("com.acme", "app", "1.0", lib, deps.NewNode("com.acme", "core", "1.0"))

	doc := sbom.NewDocument("app", "https://example.com/app")
	if err := sbom.Build(app, doc); err != nil {
		panic(err)
	}

	for _, p := range doc.Packages() {
		fmt.Println("package", p.ID)
	}
	for _, r := range doc.Relationships() {
		fmt.Println(r.From, r.Type, r.To)
	}
	// Output:
	// package com.acme:app:1.0
	// package com.acme:lib:1.0
	// package com.acme:core:1.0
	// SPDXRef-DOCUMENT DESCRIBES com.acme:app:1.0
	// com.acme:app:1.0 DEPENDS_ON com.acme:lib:1.0
	// com.acme:lib:1.0 DEPENDS_ON com.acme:core:1.0
	// com.acme:app:1.0 DEPENDS_ON com.acme:core:1.0
}

func ExampleElementID() {
	id, _ := sbom.ElementID(deps.Coordinate{Group: "a:b", Name: "c", Version: "1.0+1"})
	fmt.Println(id)
	// Output: a%3Ab:c:1.0%2B1
}
