// Package gradle reads the text report printed by "gradle dependencies".
//
// # Overview
//
// Gradle prints one tree per configuration:
//
//	runtimeClasspath - Runtime classpath of source set 'main'.
//	+--- com.google.guava:guava:31.1-jre
//	|    +--- com.google.guava:failureaccess:1.0.1
//	|    \--- com.google.code.findbugs:jsr305:3.0.2
//	+--- org.slf4j:slf4j-api:1.7.36 -> 2.0.7
//	\--- com.google.guava:guava:31.1-jre (*)
//
// [Report] selects the section named by [deps.Options.Configuration]
// (default runtimeClasspath) and turns it into a [deps.Node] tree:
//
//   - "a:b:1 -> 2" uses the version the resolver selected (2)
//   - "(*)" marks a subtree printed earlier; the node is kept without children
//   - "(c)" lines are dependency constraints and are skipped
//   - "FAILED" and "(n)" lines mean the configuration was not resolved,
//     which is reported as a RESOLVE_FAILED error
//   - "project :sub" lines become coordinates with the group and version of
//     [deps.Options.Project]
//
// The root coordinate carries only the name from the "Root project" banner,
// if present. Callers fill the rest from the project coordinate.
//
// Save the report with:
//
//	gradle -q dependencies --configuration runtimeClasspath > dependencies.txt
package gradle
