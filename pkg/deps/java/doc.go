// Package java reads Maven pom.xml files.
//
// A pom.xml declares direct dependencies only; the transitive closure is
// computed by Maven's resolver, which this package does not run. [POMParser]
// therefore produces a root with one level of children. Use a Gradle
// dependency report (package gradle) when the full graph is needed.
//
// Versions are taken from the dependency, then from <dependencyManagement>.
// ${...} references to <properties>, ${project.version} and
// ${project.groupId} are expanded. Dependencies whose version stays unknown
// are skipped with a warning. Test and provided scopes and optional
// dependencies are skipped unless [deps.Options.IncludeDev] is set.
package java
