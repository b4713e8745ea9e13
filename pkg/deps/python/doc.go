// Package python reads resolved Python dependency graphs from poetry.lock.
//
// Every locked package becomes a [deps.Node] with group [Group] and its
// normalized name (see [Normalize]). The root coordinate comes from the
// sibling pyproject.toml ([tool.poetry] or [project] table); its direct
// dependencies are the ones declared there. Without a pyproject.toml, the
// root is left empty and depends on every locked package that nothing else
// depends on.
//
// Development-only packages (category "dev", or groups without "main") are
// skipped unless [deps.Options.IncludeDev] is set.
package python
